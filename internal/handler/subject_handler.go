package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/middleware"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// SubjectHandler serves the public subject pages and review submission.
type SubjectHandler struct {
	subjects service.SubjectService
	logger   zerolog.Logger
}

// NewSubjectHandler constructs the handler.
func NewSubjectHandler(subjects service.SubjectService, logger zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{
		subjects: subjects,
		logger:   logger.With().Str("component", "subject_handler").Logger(),
	}
}

// RegisterPublic wires the listing and detail routes. The detail route is
// parameterised on the path root, so the caller must register it after every
// static route.
func (h *SubjectHandler) RegisterPublic(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/:id", h.detail)
}

// RegisterReviews wires review submission. The group resolves the caller's
// identity; the per-route guard enforces it.
func (h *SubjectHandler) RegisterReviews(router fiber.Router) {
	router.Post("", middleware.WithAuth(h.createReview, middleware.AuthOptions{RequireUser: true}))
}

// RegisterAdmin wires the subject management routes.
func (h *SubjectHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *SubjectHandler) list(c *fiber.Ctx) error {
	subjects, err := h.subjects.ListSubjects(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list subjects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list subjects")
	}
	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *SubjectHandler) detail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "subject not found")
	}

	detail, err := h.subjects.SubjectDetail(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load subject detail")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load subject")
	}

	return utils.SendSuccess(c, "subject retrieved", detail)
}

func (h *SubjectHandler) createReview(c *fiber.Ctx) error {
	var req dto.ReviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	review, err := h.subjects.CreateReview(c.Context(), userIDFromContext(c), req)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrDuplicateReview):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create review")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create review")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "review created", review)
}

func (h *SubjectHandler) create(c *fiber.Ctx) error {
	var req dto.SubjectCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subject, err := h.subjects.CreateSubject(c.Context(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create subject")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create subject")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subject created", subject)
}

func (h *SubjectHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "subject not found")
	}

	var req dto.SubjectUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subject, err := h.subjects.UpdateSubject(c.Context(), id, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update subject")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update subject")
		}
	}

	return utils.SendSuccess(c, "subject updated", subject)
}

func (h *SubjectHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "subject not found")
	}

	if err := h.subjects.DeleteSubject(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete subject")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete subject")
	}

	return utils.SendSuccess(c, "subject deleted", nil)
}
