package controller

import (
	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/pkg/serverutils"
	"ai-photostudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	EstimateCost(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
	ListImages(ctx *fiber.Ctx) error
}

type generationController struct {
	service service.IGenerationService
}

func NewGenerationController(service service.IGenerationService) IGenerationController {
	return &generationController{service: service}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generations")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/estimate", c.EstimateCost)
	h.Post("/", c.Generate)
	h.Get("/", c.ListImages)
}

func (c *generationController) EstimateCost(ctx *fiber.Ctx) error {
	resolution := ctx.Query("resolution")
	if resolution == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "resolution is required"))
	}

	res, err := c.service.EstimateCost(ctx.Context(), resolution)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Cost estimate", res))
}

func (c *generationController) Generate(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromLocals(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateImageRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), userId, &req)
	if err != nil {
		// Insufficient balance and provider failures carry their own
		// status mapping in the error handler.
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Image generated", res))
}

func (c *generationController) ListImages(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromLocals(ctx)
	if err != nil {
		return err
	}

	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.service.ListImages(ctx.Context(), userId, page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Generated images", res))
}
