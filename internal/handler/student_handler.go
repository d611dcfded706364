package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// StudentHandler serves the student management surface.
type StudentHandler struct {
	students service.StudentService
	logger   zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(students service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students: students,
		logger:   logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires the student management routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/enroll", h.enroll)
	router.Post("/unenroll", h.unenroll)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	students, err := h.students.ListStudents(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}
	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var req dto.StudentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.students.CreateStudent(c.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrProfileNumberTaken):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create student")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) enroll(c *fiber.Ctx) error {
	return h.changeEnrollment(c, h.students.Enroll, "student enrolled")
}

func (h *StudentHandler) unenroll(c *fiber.Ctx) error {
	return h.changeEnrollment(c, h.students.Unenroll, "student unenrolled")
}

func (h *StudentHandler) changeEnrollment(c *fiber.Ctx, apply func(ctx context.Context, req dto.EnrollmentRequest) error, message string) error {
	var req dto.EnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := apply(c.Context(), req); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to change enrollment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to change enrollment")
		}
	}

	return utils.SendSuccess(c, message, nil)
}
