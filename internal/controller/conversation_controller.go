package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/changzhiho/mini-chatgpt/internal/dto"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/serverutils"
	"github.com/changzhiho/mini-chatgpt/internal/service"
)

type ConversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) *ConversationController {
	return &ConversationController{
		conversationService: conversationService,
	}
}

func (c *ConversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Delete(":id", c.Delete)
	h.Post(":id/share", c.Share)
}

func (c *ConversationController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	conversations, err := c.conversationService.ListForOwner(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("conversations retrieved", conversations))
}

func (c *ConversationController) Create(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	conversation, err := c.conversationService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("conversation created", conversation))
}

func (c *ConversationController) Delete(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	conversationId, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	next, err := c.conversationService.Delete(ctx.Context(), userId, conversationId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("conversation deleted", next))
}

func (c *ConversationController) Share(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	conversationId, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	share, err := c.conversationService.Share(ctx.Context(), userId, conversationId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("share link created", share))
}
