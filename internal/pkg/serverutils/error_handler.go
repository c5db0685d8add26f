package serverutils

import (
	"errors"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the standard
// error body. Unknown errors become a 500 without leaking their text.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return HandleError(ctx, err)
	}
}

func HandleError(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return WriteError(ctx, fe.Code, fe.Message)
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorBody{
			Success: false,
			Code:    fiber.StatusUnprocessableEntity,
			Message: "Validation failed",
			Detail:  summarize(ve.Errors),
			Errors:  ve.Errors,
		})
	}

	return WriteError(ctx, fiber.StatusInternalServerError, "Internal server error")
}

func summarize(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
