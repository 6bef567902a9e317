// FILE: internal/controller/session_controller.go
package controller

import (
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	End(ctx *fiber.Ctx) error
}

type sessionController struct {
	cleanupService service.ICleanupService
}

func NewSessionController(cleanupService service.ICleanupService) ISessionController {
	return &sessionController{
		cleanupService: cleanupService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("end", c.End)
}

// End reclaims the caller's session immediately. The cookie stays valid, the
// next upload simply starts from nothing.
func (c *sessionController) End(ctx *fiber.Ctx) error {
	sessionId := serverutils.SessionID(ctx, ctx.Query("session_id"))

	report := c.cleanupService.ClearSession(ctx.Context(), sessionId)

	return ctx.JSON(serverutils.SuccessResponse("Session ended", report))
}
