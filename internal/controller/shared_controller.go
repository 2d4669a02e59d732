package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/changzhiho/mini-chatgpt/internal/pkg/apperror"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/serverutils"
	"github.com/changzhiho/mini-chatgpt/internal/service"
)

// SharedController serves the public read-only conversation view. No
// authentication: the unguessable token is the only credential.
type SharedController struct {
	conversationService service.IConversationService
}

func NewSharedController(conversationService service.IConversationService) *SharedController {
	return &SharedController{
		conversationService: conversationService,
	}
}

// RegisterRoutes attaches the shared view at the application root, not
// under /api, so the link works as pasted in a browser.
func (c *SharedController) RegisterRoutes(r fiber.Router) {
	r.Get("/shared/:token", c.View)
}

func (c *SharedController) View(ctx *fiber.Ctx) error {
	token, err := uuid.Parse(ctx.Params("token"))
	if err != nil {
		// A malformed token is indistinguishable from an unknown one.
		return apperror.NotFound("shared conversation not found")
	}

	shared, err := c.conversationService.SharedView(ctx.Context(), token)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("shared conversation retrieved", shared))
}
