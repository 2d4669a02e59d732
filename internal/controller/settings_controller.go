package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/changzhiho/mini-chatgpt/internal/dto"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/serverutils"
	"github.com/changzhiho/mini-chatgpt/internal/service"
)

type SettingsController struct {
	settingsService service.ISettingsService
}

func NewSettingsController(settingsService service.ISettingsService) *SettingsController {
	return &SettingsController{
		settingsService: settingsService,
	}
}

func (c *SettingsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/settings/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("instructions", c.GetInstructions)
	h.Put("instructions", c.UpdateInstructions)
	h.Get("commands", c.GetCommands)
	h.Put("commands", c.UpdateCommands)
	h.Get("models", c.ListModels)
}

func (c *SettingsController) GetInstructions(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	instructions, err := c.settingsService.GetInstructions(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("instructions retrieved", instructions))
}

func (c *SettingsController) UpdateInstructions(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateInstructionsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	instructions, err := c.settingsService.UpdateInstructions(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("instructions updated", instructions))
}

func (c *SettingsController) GetCommands(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	commands, err := c.settingsService.GetCommands(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("commands retrieved", commands))
}

func (c *SettingsController) UpdateCommands(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateCommandsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	commands, err := c.settingsService.UpdateCommands(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("commands updated", commands))
}

func (c *SettingsController) ListModels(ctx *fiber.Ctx) error {
	models, err := c.settingsService.ListModels(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("models retrieved", models))
}
