// FILE: internal/controller/admin_controller.go
package controller

import (
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Cleanup(ctx *fiber.Ctx) error
	ScheduleCleanup(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type adminController struct {
	cleanupService service.ICleanupService
	documents      *store.DocumentStore
	activity       *store.ActivityTracker
	providerName   string
}

func NewAdminController(
	cleanupService service.ICleanupService,
	documents *store.DocumentStore,
	activity *store.ActivityTracker,
	providerName string,
) IAdminController {
	return &adminController{
		cleanupService: cleanupService,
		documents:      documents,
		activity:       activity,
		providerName:   providerName,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("cleanup", c.Cleanup)
	h.Post("cleanup/schedule", c.ScheduleCleanup)
	h.Get("stats", c.Stats)
}

// Cleanup forces a reclamation sweep right now, same code path the scheduler
// triggers.
func (c *adminController) Cleanup(ctx *fiber.Ctx) error {
	report := c.cleanupService.ReclaimIdleSessions(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Cleanup completed", report))
}

func (c *adminController) ScheduleCleanup(ctx *fiber.Ctx) error {
	var req dto.ScheduleCleanupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidInput("malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.cleanupService.Schedule(time.Duration(req.IntervalMinutes) * time.Minute)

	return ctx.JSON(serverutils.SuccessResponse("Cleanup schedule updated", dto.ScheduleCleanupResponse{
		IntervalMinutes: req.IntervalMinutes,
	}))
}

func (c *adminController) Stats(ctx *fiber.Ctx) error {
	interval, running := c.cleanupService.SchedulerState()

	res := dto.StatsResponse{
		SessionsTracked:      c.activity.Len(),
		SessionsWithDocs:     c.documents.SessionCount(),
		DocumentsStored:      c.documents.DocumentCount(),
		CleanupIntervalMins:  int(interval.Minutes()),
		CleanupSchedulerLive: running,
		Provider:             c.providerName,
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}
