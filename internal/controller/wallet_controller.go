package controller

import (
	"ai-photostudio-be/internal/pkg/serverutils"
	"ai-photostudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWalletController interface {
	RegisterRoutes(r fiber.Router)
	GetBalance(ctx *fiber.Ctx) error
	ListTransactions(ctx *fiber.Ctx) error
}

type walletController struct {
	service service.IWalletService
}

func NewWalletController(service service.IWalletService) IWalletController {
	return &walletController{service: service}
}

func (c *walletController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/wallet")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/balance", c.GetBalance)
	h.Get("/transactions", c.ListTransactions)
}

func (c *walletController) GetBalance(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromLocals(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetBalance(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Wallet balance", res))
}

func (c *walletController) ListTransactions(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromLocals(ctx)
	if err != nil {
		return err
	}

	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.service.ListTransactions(ctx.Context(), userId, page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Wallet transactions", res))
}
