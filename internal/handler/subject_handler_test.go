package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/handler"
	"github.com/learnhub-io/learnhub-api/internal/middleware"
	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/service"
)

type stubSubjectService struct {
	detailErr error
	reviewErr error
}

func (s *stubSubjectService) ListSubjects(context.Context) ([]dto.SubjectResponse, error) {
	return []dto.SubjectResponse{{ID: 1, Name: "Machine Learning"}}, nil
}

func (s *stubSubjectService) SubjectDetail(context.Context, uint) (dto.SubjectDetailResponse, error) {
	if s.detailErr != nil {
		return dto.SubjectDetailResponse{}, s.detailErr
	}
	return dto.SubjectDetailResponse{Subject: dto.SubjectResponse{ID: 1, Name: "Machine Learning"}}, nil
}

func (s *stubSubjectService) CreateSubject(context.Context, dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	return dto.SubjectResponse{ID: 2}, nil
}

func (s *stubSubjectService) UpdateSubject(context.Context, uint, dto.SubjectUpdateRequest) (dto.SubjectResponse, error) {
	return dto.SubjectResponse{}, nil
}

func (s *stubSubjectService) DeleteSubject(context.Context, uint) error { return nil }

func (s *stubSubjectService) CreateReview(context.Context, uint, dto.ReviewCreateRequest) (dto.ReviewResponse, error) {
	if s.reviewErr != nil {
		return dto.ReviewResponse{}, s.reviewErr
	}
	return dto.ReviewResponse{ID: 1, Rating: 5}, nil
}

func newSubjectApp(stub *stubSubjectService) *fiber.App {
	app := fiber.New()
	h := handler.NewSubjectHandler(stub, zerolog.Nop())
	h.RegisterReviews(app.Group("/reviews", middleware.OptionalJWT(testSecret)))
	h.RegisterPublic(app)
	return app
}

func TestSubjectListIsPublic(t *testing.T) {
	app := newSubjectApp(&stubSubjectService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubjectDetailNotFound(t *testing.T) {
	app := newSubjectApp(&stubSubjectService{detailErr: service.ErrSubjectNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/999", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A non-numeric id is a 404, not a 500.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/not-a-number", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReviewRequiresAuthentication(t *testing.T) {
	app := newSubjectApp(&stubSubjectService{})

	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(`{"subject_id":1,"rating":5,"comment":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDuplicateReviewIs400(t *testing.T) {
	app := newSubjectApp(&stubSubjectService{reviewErr: service.ErrDuplicateReview})

	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(`{"subject_id":1,"rating":5,"comment":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, models.RoleUser))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
