package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// DashboardHandler serves the role-specific landing pages.
type DashboardHandler struct {
	dashboards service.DashboardService
	logger     zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboards service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		logger:     logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// RegisterUser wires the user landing page.
func (h *DashboardHandler) RegisterUser(router fiber.Router) {
	router.Get("", h.userDashboard)
}

// RegisterAdmin wires the admin landing page.
func (h *DashboardHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.adminDashboard)
}

func (h *DashboardHandler) userDashboard(c *fiber.Ctx) error {
	dashboard, err := h.dashboards.UserDashboard(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build user dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) adminDashboard(c *fiber.Ctx) error {
	dashboard, err := h.dashboards.AdminDashboard(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build admin dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}
	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}
