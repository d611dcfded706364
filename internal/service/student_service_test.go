package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

func newStudentService(t *testing.T) (StudentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewStudentService(
		repository.NewStudentRepository(db),
		repository.NewSubjectRepository(db),
		testValidator(),
		nil,
		testLogger(),
	)
	return svc, db
}

func TestStudentServiceCreateWithProfile(t *testing.T) {
	svc, db := newStudentService(t)

	number := 42
	student, err := svc.CreateStudent(context.Background(), dto.StudentCreateRequest{
		Name:          "Sam",
		Location:      "Oslo",
		Bio:           "Learner",
		ProfileNumber: &number,
	})
	require.NoError(t, err)
	require.NotNil(t, student.ProfileNumber)
	require.Equal(t, 42, *student.ProfileNumber)

	var profile models.StudentProfile
	require.NoError(t, db.Where("student_id = ?", student.ID).First(&profile).Error)
	require.Equal(t, 42, profile.ProfileNumber)
}

func TestStudentServiceRejectsDuplicateProfileNumber(t *testing.T) {
	svc, _ := newStudentService(t)

	number := 7
	_, err := svc.CreateStudent(context.Background(), dto.StudentCreateRequest{
		Name: "Sam", Location: "Oslo", ProfileNumber: &number,
	})
	require.NoError(t, err)

	_, err = svc.CreateStudent(context.Background(), dto.StudentCreateRequest{
		Name: "Pat", Location: "Bergen", ProfileNumber: &number,
	})
	require.ErrorIs(t, err, ErrProfileNumberTaken)
}

func TestStudentServiceEnrollAndUnenroll(t *testing.T) {
	svc, db := newStudentService(t)

	student, err := svc.CreateStudent(context.Background(), dto.StudentCreateRequest{Name: "Sam", Location: "Oslo"})
	require.NoError(t, err)
	subject := models.Subject{Name: "Machine Learning"}
	require.NoError(t, db.Create(&subject).Error)

	req := dto.EnrollmentRequest{StudentID: student.ID, SubjectID: subject.ID}
	require.NoError(t, svc.Enroll(context.Background(), req))

	var count int64
	require.NoError(t, db.Table("subject_enrollments").Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.NoError(t, svc.Unenroll(context.Background(), req))
	require.NoError(t, db.Table("subject_enrollments").Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestStudentServiceEnrollUnknownPair(t *testing.T) {
	svc, db := newStudentService(t)

	subject := models.Subject{Name: "Machine Learning"}
	require.NoError(t, db.Create(&subject).Error)

	err := svc.Enroll(context.Background(), dto.EnrollmentRequest{StudentID: 99, SubjectID: subject.ID})
	require.ErrorIs(t, err, ErrStudentNotFound)

	student, err := svc.CreateStudent(context.Background(), dto.StudentCreateRequest{Name: "Sam", Location: "Oslo"})
	require.NoError(t, err)
	err = svc.Enroll(context.Background(), dto.EnrollmentRequest{StudentID: student.ID, SubjectID: 99})
	require.ErrorIs(t, err, ErrSubjectNotFound)
}
