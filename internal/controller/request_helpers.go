package controller

import (
	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

func parseAndValidate(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	return serverutils.ValidateStruct(req)
}

func clientInfo(ctx *fiber.Ctx) dto.ClientInfo {
	return dto.ClientInfo{
		IpAddress: serverutils.ClientIP(ctx),
		UserAgent: ctx.Get("User-Agent"),
	}
}
