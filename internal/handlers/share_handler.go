package handlers

import (
	"meddata/internal/middleware"
	"meddata/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ShareHandler issues sharing tokens and serves the shared snapshot.
type ShareHandler struct {
	service *services.ShareService
	log     *logrus.Logger
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(service *services.ShareService, log *logrus.Logger) *ShareHandler {
	return &ShareHandler{service: service, log: log}
}

// RegisterRoutes registers the sharing routes. Only token generation needs a bearer token.
func (h *ShareHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	share := router.Group("/share")
	share.Post("/generate-token", authRequired, h.HandleGenerateToken)
	share.Get("/view/:token", h.HandleViewShared)
}

// HandleGenerateToken issues a sharing token for the caller.
func (h *ShareHandler) HandleGenerateToken(c *fiber.Ctx) error {
	token, err := h.service.CreateShareToken(middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, h.log, err, "Could not generate share token")
	}
	return c.JSON(token)
}

// HandleViewShared is authorised by the sharing token in the path alone.
func (h *ShareHandler) HandleViewShared(c *fiber.Ctx) error {
	view, err := h.service.ResolveSharedView(c.UserContext(), c.Params("token"))
	if err != nil {
		return writeError(c, h.log, err, "Could not load shared data")
	}
	return c.JSON(view)
}
