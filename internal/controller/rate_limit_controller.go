package controller

import (
	"physical-ai-textbook-be/internal/pkg/serverutils"
	"physical-ai-textbook-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRateLimitController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
}

type rateLimitController struct {
	service service.IRateLimitService
	jwtAuth *serverutils.JwtAuth
}

func NewRateLimitController(service service.IRateLimitService, jwtAuth *serverutils.JwtAuth) IRateLimitController {
	return &rateLimitController{service: service, jwtAuth: jwtAuth}
}

func (c *rateLimitController) RegisterRoutes(r fiber.Router) {
	r.Get("/rate-limit/status", c.jwtAuth.Optional(), c.Status)
}

func (c *rateLimitController) Status(ctx *fiber.Ctx) error {
	_, authenticated := serverutils.UserID(ctx)

	res, err := c.service.Status(ctx.UserContext(), serverutils.ClientIdentifier(ctx), authenticated)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
