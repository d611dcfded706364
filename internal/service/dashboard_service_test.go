package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

func newDashboardService(t *testing.T, cache *redis.Client) (DashboardService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewDashboardService(
		repository.NewSubjectRepository(db),
		repository.NewStudentRepository(db),
		repository.NewReviewRepository(db),
		cache,
		time.Minute,
		testLogger(),
	)
	return svc, db
}

func TestDashboardServiceAdminTotals(t *testing.T) {
	svc, db := newDashboardService(t, nil)

	subject := models.Subject{Name: "Machine Learning"}
	require.NoError(t, db.Create(&subject).Error)
	require.NoError(t, db.Create(&models.Student{Name: "Sam", Location: "Oslo"}).Error)

	reviewer := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&reviewer).Error)
	require.NoError(t, db.Create(&models.Review{SubjectID: subject.ID, ReviewerID: reviewer.ID, Rating: 5, Comment: "great"}).Error)

	dashboard, err := svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, dashboard.TotalSubjects)
	require.EqualValues(t, 1, dashboard.TotalStudents)
	require.EqualValues(t, 1, dashboard.TotalReviews)
	require.Len(t, dashboard.Subjects, 1)
	require.Len(t, dashboard.RecentReviews, 1)
	require.Equal(t, "alice", dashboard.RecentReviews[0].Reviewer)
}

func TestDashboardServiceRecentReviewsCappedAtFive(t *testing.T) {
	svc, db := newDashboardService(t, nil)

	subject := models.Subject{Name: "Machine Learning"}
	require.NoError(t, db.Create(&subject).Error)

	for i := 0; i < 6; i++ {
		reviewer := models.User{
			Username:     "reviewer" + string(rune('a'+i)),
			Email:        "reviewer" + string(rune('a'+i)) + "@example.com",
			PasswordHash: "x",
		}
		require.NoError(t, db.Create(&reviewer).Error)
		require.NoError(t, db.Create(&models.Review{
			SubjectID:  subject.ID,
			ReviewerID: reviewer.ID,
			Rating:     4,
			Comment:    "solid",
		}).Error)
	}

	dashboard, err := svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 6, dashboard.TotalReviews)
	require.Len(t, dashboard.RecentReviews, 5)
}

func TestDashboardServiceAdminCacheHit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	svc, db := newDashboardService(t, cache)
	require.NoError(t, db.Create(&models.Subject{Name: "Machine Learning"}).Error)

	first, err := svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, first.TotalSubjects)

	// A second call must come from the cache: new rows are invisible.
	require.NoError(t, db.Create(&models.Subject{Name: "Data Science"}).Error)
	cached, err := svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, cached.TotalSubjects)

	svc.InvalidateAdminDashboard(context.Background())
	fresh, err := svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, fresh.TotalSubjects)
}

func TestDashboardServiceUserDashboard(t *testing.T) {
	svc, db := newDashboardService(t, nil)

	require.NoError(t, db.Create(&models.Subject{Name: "Machine Learning"}).Error)
	require.NoError(t, db.Create(&models.Subject{Name: "Web Basics"}).Error)

	dashboard, err := svc.UserDashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, dashboard.Subjects, 2)
}
