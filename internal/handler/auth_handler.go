package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// AuthHandler handles registration, login and the password reset flow.
type AuthHandler struct {
	auth   service.AuthService
	resets service.PasswordResetService
	logger zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth service.AuthService, resets service.PasswordResetService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		resets: resets,
		logger: logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes onto the root router.
func (h *AuthHandler) Register(router fiber.Router, rateLimit fiber.Handler) {
	router.Post("/register", h.register)
	router.Post("/login", rateLimit, h.login)
	router.Post("/logout", h.logout)
	router.Post("/forgot-password", rateLimit, h.forgotPassword)
	router.Post("/reset-password/:uid/:token", h.resetPassword)
	router.Get("/password-reset-complete", h.resetComplete)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.auth.Register(c.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("registration failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "registration failed")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered", user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.auth.Login(c.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid username or password")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "login failed")
		}
	}

	return utils.SendSuccess(c, "login successful", result)
}

// logout is a stateless acknowledgement; the client discards its token.
func (h *AuthHandler) logout(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) forgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.resets.RequestReset(c.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrNoUserForEmail):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("password reset request failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "password reset request failed")
		}
	}

	return utils.SendSuccess(c, result.Message, result)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.resets.ResetPassword(c.Context(), c.Params("uid"), c.Params("token"), req)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrResetTokenInvalid):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("password reset failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "password reset failed")
		}
	}

	return utils.SendSuccess(c, result.Message, result)
}

func (h *AuthHandler) resetComplete(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "password reset complete", fiber.Map{
		"login_url": "/login/",
	})
}
