package controller

import (
	"strconv"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/pkg/serverutils"
	"physical-ai-textbook-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const rateLimitExceededMessage = "Rate limit exceeded. Please sign up for unlimited access!"

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
}

type chatController struct {
	service   service.IChatService
	rateLimit service.IRateLimitService
	jwtAuth   *serverutils.JwtAuth
}

func NewChatController(service service.IChatService, rateLimit service.IRateLimitService, jwtAuth *serverutils.JwtAuth) IChatController {
	return &chatController{
		service:   service,
		rateLimit: rateLimit,
		jwtAuth:   jwtAuth,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.jwtAuth.Optional(), c.Chat)
	r.Get("/chat/stats", c.Stats)
	r.Post("/chat/ingest", c.jwtAuth.Required(), c.Ingest)
}

// Chat answers one question. Anonymous callers spend one unit of their daily
// quota per call; signed-in users are not metered.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := parseAndValidate(ctx, &req); err != nil {
		return err
	}

	var userID *uuid.UUID
	if id, ok := serverutils.UserID(ctx); ok {
		userID = &id
	} else {
		decision := c.rateLimit.Check(ctx.UserContext(), serverutils.ClientIdentifier(ctx))
		if !decision.Allowed {
			ctx.Set("X-RateLimit-Remaining", "0")
			return fiber.NewError(fiber.StatusTooManyRequests, rateLimitExceededMessage)
		}
		if decision.Remaining >= 0 {
			ctx.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		}
	}

	res, err := c.service.Chat(ctx.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Stats(ctx.UserContext()))
}

func (c *chatController) Ingest(ctx *fiber.Ctx) error {
	clearExisting := ctx.QueryBool("clear_existing", false)

	if ctx.QueryBool("async", false) {
		jobID, err := c.service.EnqueueIngest(ctx.UserContext(), clearExisting)
		if err != nil {
			return err
		}
		return ctx.Status(fiber.StatusAccepted).JSON(dto.IngestJobResponse{
			JobId:   jobID,
			Message: "Ingestion queued",
		})
	}

	return ctx.JSON(c.service.Ingest(ctx.UserContext(), clearExisting))
}
