package serverutils

import (
	"errors"

	"ai-photostudio-be/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type APIError struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

func ErrorResponse(code int, message string) APIError {
	return APIError{Success: false, Code: code, Message: message}
}

var validate = validator.New()

// ParseAndValidate binds the JSON body into out and runs struct validation.
func ParseAndValidate(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware maps domain errors onto HTTP statuses in one place
// so controllers can simply return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		if ib, ok := apperr.IsInsufficientBalance(err); ok {
			resp := ErrorResponse(fiber.StatusPaymentRequired, "insufficient balance")
			resp.Details = fiber.Map{
				"required": ib.Required,
				"current":  ib.Current,
			}
			return ctx.Status(fiber.StatusPaymentRequired).JSON(resp)
		}

		switch {
		case errors.Is(err, apperr.ErrInvalidSignature):
			// Deliberately terse. Signature failures are logged server side.
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "forbidden"))
		case errors.Is(err, apperr.ErrGenerationFailed):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(fiber.StatusBadGateway, "generation failed, please retry"))
		case errors.Is(err, apperr.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, "not found"))
		case errors.Is(err, apperr.ErrUnauthorized):
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "unauthorized"))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
	}
}
