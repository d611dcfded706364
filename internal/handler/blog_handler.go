package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/learnhub-io/learnhub-api/internal/dto"
	"github.com/learnhub-io/learnhub-api/internal/service"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// BlogHandler serves the public blog pages and the management surface.
type BlogHandler struct {
	blogs  service.BlogService
	logger zerolog.Logger
}

// NewBlogHandler constructs the handler.
func NewBlogHandler(blogs service.BlogService, logger zerolog.Logger) *BlogHandler {
	return &BlogHandler{
		blogs:  blogs,
		logger: logger.With().Str("component", "blog_handler").Logger(),
	}
}

// Register wires blog routes. Management routes go first so a slug can never
// shadow them; the :slug routes close the group.
func (h *BlogHandler) Register(router fiber.Router, loginRequired fiber.Handler, superuserOnly fiber.Handler) {
	router.Get("/manage", loginRequired, superuserOnly, h.manage)
	router.Post("/create", loginRequired, superuserOnly, h.create)
	router.Post("/:slug/edit", loginRequired, superuserOnly, h.update)
	router.Post("/:slug/delete", loginRequired, superuserOnly, h.delete)

	router.Get("/", h.list)
	router.Post("/:slug/comments", loginRequired, h.addComment)
	router.Get("/:slug", h.detail)
}

func (h *BlogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	result, err := h.blogs.ListPublished(c.Context(), dto.BlogListRequest{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list blogs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list blogs")
	}

	return utils.SendSuccess(c, "blogs retrieved", result)
}

func (h *BlogHandler) detail(c *fiber.Ctx) error {
	detail, err := h.blogs.GetPublished(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load blog")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load blog")
	}

	return utils.SendSuccess(c, "blog retrieved", detail)
}

func (h *BlogHandler) manage(c *fiber.Ctx) error {
	blogs, err := h.blogs.ListAll(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list blogs for management")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list blogs")
	}
	return utils.SendSuccess(c, "blogs retrieved", blogs)
}

func (h *BlogHandler) create(c *fiber.Ctx) error {
	var req dto.BlogCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	blog, err := h.blogs.Create(c.Context(), userIDFromContext(c), req)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrBlogSlugTaken):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create blog")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create blog")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "blog created", blog)
}

func (h *BlogHandler) update(c *fiber.Ctx) error {
	var req dto.BlogUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	blog, err := h.blogs.Update(c.Context(), c.Params("slug"), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrBlogNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update blog")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update blog")
		}
	}

	return utils.SendSuccess(c, "blog updated", blog)
}

func (h *BlogHandler) delete(c *fiber.Ctx) error {
	if err := h.blogs.Delete(c.Context(), c.Params("slug")); err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete blog")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete blog")
	}

	return utils.SendSuccess(c, "blog deleted", nil)
}

func (h *BlogHandler) addComment(c *fiber.Ctx) error {
	var req dto.BlogCommentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.blogs.AddComment(c.Context(), c.Params("slug"), userIDFromContext(c), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrBlogNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to add comment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to add comment")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", comment)
}
