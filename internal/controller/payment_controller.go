package controller

import (
	"errors"

	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/pkg/apperr"
	"ai-photostudio-be/internal/pkg/serverutils"
	"ai-photostudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetTopupOptions(ctx *fiber.Ctx) error
	CreateTopup(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")
	h.Post("/midtrans/notification", c.Webhook)
	h.Get("/topup-options", c.GetTopupOptions)

	h.Post("/topup", serverutils.JwtMiddleware, c.CreateTopup)
}

func (c *paymentController) GetTopupOptions(ctx *fiber.Ctx) error {
	res := c.service.GetTopupOptions(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Topup options", res))
}

func (c *paymentController) CreateTopup(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromLocals(ctx)
	if err != nil {
		return err
	}

	var req dto.TopupRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateTopup(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Topup checkout created", res))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.SendStatus(fiber.StatusBadRequest)
	}

	if err := c.service.HandleNotification(ctx.Context(), &req); err != nil {
		if errors.Is(err, apperr.ErrInvalidSignature) {
			return ctx.SendStatus(fiber.StatusForbidden)
		}
		// 500 so Midtrans retries the notification.
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}
	return ctx.SendStatus(fiber.StatusOK)
}
