package controller

import (
	"errors"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/pkg/serverutils"
	"physical-ai-textbook-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	jwtAuth *serverutils.JwtAuth
	cookies serverutils.CookieOptions
}

func NewAuthController(service service.IAuthService, jwtAuth *serverutils.JwtAuth, cookies serverutils.CookieOptions) IAuthController {
	return &authController{
		service: service,
		jwtAuth: jwtAuth,
		cookies: cookies,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/logout", c.jwtAuth.Optional(), c.Logout)
	h.Post("/refresh", c.Refresh)
	h.Get("/me", c.jwtAuth.Required(), c.Me)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, tokens, err := c.service.Register(ctx.UserContext(), &req, clientInfo(ctx))
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	serverutils.SetAuthCookies(ctx, c.cookies, tokens.AccessToken, tokens.RefreshToken)
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, tokens, err := c.service.Login(ctx.UserContext(), &req, clientInfo(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrAccountLocked):
			return fiber.NewError(fiber.StatusLocked, err.Error())
		}
		return err
	}

	serverutils.SetAuthCookies(ctx, c.cookies, tokens.AccessToken, tokens.RefreshToken)
	return ctx.JSON(res)
}

// Logout always clears the cookies, even for callers whose token already expired.
func (c *authController) Logout(ctx *fiber.Ctx) error {
	if userID, ok := serverutils.UserID(ctx); ok {
		claims, _ := serverutils.TokenClaims(ctx)
		refresh := ctx.Cookies(serverutils.RefreshTokenCookie)
		if err := c.service.Logout(ctx.UserContext(), userID, claims, refresh, clientInfo(ctx)); err != nil {
			return err
		}
	}

	serverutils.ClearAuthCookies(ctx, c.cookies)
	return ctx.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (c *authController) Refresh(ctx *fiber.Ctx) error {
	refresh := ctx.Cookies(serverutils.RefreshTokenCookie)
	if refresh == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Refresh token missing")
	}

	access, err := c.service.Refresh(ctx.UserContext(), refresh, clientInfo(ctx))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) || errors.Is(err, service.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return err
	}

	serverutils.SetAccessCookie(ctx, c.cookies, access)
	return ctx.JSON(dto.MessageResponse{Message: "Token refreshed"})
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	userID, _ := serverutils.UserID(ctx)

	res, err := c.service.Me(ctx.UserContext(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return err
	}
	return ctx.JSON(res)
}
