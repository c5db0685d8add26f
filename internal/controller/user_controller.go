package controller

import (
	"errors"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/pkg/serverutils"
	"physical-ai-textbook-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	CreateProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	GetProfile(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	jwtAuth *serverutils.JwtAuth
}

func NewUserController(service service.IUserService, jwtAuth *serverutils.JwtAuth) IUserController {
	return &userController{service: service, jwtAuth: jwtAuth}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user", c.jwtAuth.Required())
	h.Post("/profile", c.CreateProfile)
	h.Put("/profile", c.UpdateProfile)
	h.Get("/profile", c.GetProfile)
}

func (c *userController) CreateProfile(ctx *fiber.Ctx) error {
	var req dto.ProfileRequest
	if err := parseAndValidate(ctx, &req); err != nil {
		return err
	}

	userID, _ := serverutils.UserID(ctx)
	res, err := c.service.CreateProfile(ctx.UserContext(), userID, &req, clientInfo(ctx))
	if err != nil {
		if errors.Is(err, service.ErrProfileExists) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.ProfileRequest
	if err := parseAndValidate(ctx, &req); err != nil {
		return err
	}

	userID, _ := serverutils.UserID(ctx)
	res, err := c.service.UpdateProfile(ctx.UserContext(), userID, &req, clientInfo(ctx))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Profile not found. Use POST to create.")
		}
		return err
	}
	return ctx.JSON(res)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userID, _ := serverutils.UserID(ctx)
	res, err := c.service.GetProfile(ctx.UserContext(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(res)
}
