// FILE: internal/controller/chat_controller.go
package controller

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Chat)
}

// Chat streams the provider response line by line. Errors before the first
// provider byte travel through the JSON error envelope; a failure mid-stream
// is reported as a final error frame on the stream itself.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewInvalidInput("malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionId := serverutils.SessionID(ctx, req.SessionId)

	stream, err := c.chatService.StreamChat(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("Connection", "keep-alive")

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer stream.Close()

		err := llm.RelayLines(w, stream)
		if err == nil || errors.Is(err, llm.ErrDownstreamClosed) {
			return
		}
		// Upstream died mid-generation. Tell the client instead of letting
		// the truncation look like a normal end of stream.
		frame, _ := json.Marshal(fiber.Map{"error": fiber.Map{"message": err.Error()}})
		_, _ = fmt.Fprintf(w, "data: %s\n", frame)
		_ = w.Flush()
	})
	return nil
}
