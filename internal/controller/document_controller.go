// FILE: internal/controller/document_controller.go
package controller

import (
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Post("", c.Upload)
	h.Get("", c.List)
	h.Delete(":id", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("document")
	if err != nil {
		return serverutils.NewInvalidInput("multipart field 'document' is required")
	}

	sessionId := serverutils.SessionID(ctx, ctx.FormValue("session_id"))

	res, err := c.documentService.Upload(ctx.Context(), sessionId, file)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).
		JSON(serverutils.SuccessResponse("Document accepted for indexing", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	sessionId := serverutils.SessionID(ctx, ctx.Query("session_id"))

	res, err := c.documentService.List(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	sessionId := serverutils.SessionID(ctx, ctx.Query("session_id"))
	id := ctx.Params("id")

	if err := c.documentService.Remove(ctx.Context(), sessionId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove document", nil))
}
