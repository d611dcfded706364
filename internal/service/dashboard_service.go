package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

const (
	adminDashboardCacheKey   = "dashboard:admin"
	dashboardRecentReviewMax = 5
)

// DashboardInvalidator is the cache-busting slice of DashboardService that
// write paths depend on.
type DashboardInvalidator interface {
	InvalidateAdminDashboard(ctx context.Context)
}

// DashboardService produces the role-specific landing payloads.
type DashboardService interface {
	AdminDashboard(ctx context.Context) (dto.AdminDashboardResponse, error)
	UserDashboard(ctx context.Context) (dto.UserDashboardResponse, error)
	InvalidateAdminDashboard(ctx context.Context)
}

type dashboardService struct {
	subjects repository.SubjectRepository
	students repository.StudentRepository
	reviews  repository.ReviewRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(
	subjects repository.SubjectRepository,
	students repository.StudentRepository,
	reviews repository.ReviewRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		subjects: subjects,
		students: students,
		reviews:  reviews,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) AdminDashboard(ctx context.Context) (dto.AdminDashboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, adminDashboardCacheKey).Result(); err == nil {
			var response dto.AdminDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("admin dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read admin dashboard cache")
		}
	}

	response, err := s.buildAdminDashboard(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, adminDashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store admin dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildAdminDashboard(ctx context.Context) (dto.AdminDashboardResponse, error) {
	totalSubjects, err := s.subjects.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalStudents, err := s.students.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalReviews, err := s.reviews.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	subjects, stats, err := s.subjects.ListWithStats(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	subjectItems := make([]dto.SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		subjectItems = append(subjectItems, dto.NewSubjectResponse(subject, statsToDTO(stats[subject.ID])))
	}

	recent, err := s.reviews.ListRecent(ctx, dashboardRecentReviewMax)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	reviewItems := make([]dto.ReviewResponse, 0, len(recent))
	for _, review := range recent {
		reviewItems = append(reviewItems, dto.NewReviewResponse(review))
	}

	return dto.AdminDashboardResponse{
		TotalSubjects: totalSubjects,
		TotalStudents: totalStudents,
		TotalReviews:  totalReviews,
		Subjects:      subjectItems,
		RecentReviews: reviewItems,
	}, nil
}

// UserDashboard reuses the public subject listing; it exists as its own
// payload so the two landing pages can diverge independently.
func (s *dashboardService) UserDashboard(ctx context.Context) (dto.UserDashboardResponse, error) {
	subjects, stats, err := s.subjects.ListWithStats(ctx)
	if err != nil {
		return dto.UserDashboardResponse{}, err
	}
	items := make([]dto.SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		items = append(items, dto.NewSubjectResponse(subject, statsToDTO(stats[subject.ID])))
	}
	return dto.UserDashboardResponse{Subjects: items}, nil
}

// InvalidateAdminDashboard drops the cached payload after admin writes.
func (s *dashboardService) InvalidateAdminDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, adminDashboardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate admin dashboard cache")
	}
}
