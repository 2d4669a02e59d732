package controller

import (
	"bufio"
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/changzhiho/mini-chatgpt/internal/dto"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/logger"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/serverutils"
	"github.com/changzhiho/mini-chatgpt/internal/service"
)

type AskController struct {
	chatService service.IChatService
	logger      logger.ILogger
}

func NewAskController(chatService service.IChatService, log logger.ILogger) *AskController {
	return &AskController{
		chatService: chatService,
		logger:      log,
	}
}

func (c *AskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("ask", c.Ask)
}

// flushEmitter writes each fragment and flushes immediately so the
// client sees text as it arrives. A flush error means the client is
// gone.
type flushEmitter struct {
	w *bufio.Writer
}

func (e *flushEmitter) Emit(text string) error {
	if _, err := e.w.WriteString(text); err != nil {
		return err
	}
	return e.w.Flush()
}

// Ask handles POST /chat/v1/ask. Every validation and lookup failure
// surfaces as a status code because PrepareTurn runs before the
// streaming response begins.
func (c *AskController) Ask(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	turn, err := c.chatService.PrepareTurn(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("X-Accel-Buffering", "no")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	// The fiber request context dies with the handler; the stream writer
	// outlives it, so the turn runs on its own context and relies on
	// flush errors to detect a disconnect.
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if err := c.chatService.StreamTurn(context.Background(), turn, &flushEmitter{w: w}); err != nil {
			c.logger.Warn("chat", "stream ended with error", map[string]interface{}{
				"conversation_id": turn.Conversation.Id,
				"error":           err.Error(),
			})
		}
	}))

	return nil
}
