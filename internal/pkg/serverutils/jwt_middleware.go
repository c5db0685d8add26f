package serverutils

import (
	"strings"

	"physical-ai-textbook-be/internal/pkg/security"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localUserID = "user_id"
	localClaims = "token_claims"
)

type RevocationChecker interface {
	IsRevoked(jti string) bool
}

type JwtAuth struct {
	tokens  *security.TokenManager
	revoked RevocationChecker
}

func NewJwtAuth(tokens *security.TokenManager, revoked RevocationChecker) *JwtAuth {
	return &JwtAuth{tokens: tokens, revoked: revoked}
}

// Required rejects requests without a valid access token.
func (a *JwtAuth) Required() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !a.authenticate(ctx) {
			return WriteError(ctx, fiber.StatusUnauthorized, "Not authenticated")
		}
		return ctx.Next()
	}
}

// Optional attaches the user when a valid token is present and lets everyone else through.
func (a *JwtAuth) Optional() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		a.authenticate(ctx)
		return ctx.Next()
	}
}

func (a *JwtAuth) authenticate(ctx *fiber.Ctx) bool {
	tokenStr := ctx.Cookies(AccessTokenCookie)
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimSpace(authHeader[7:])
		}
	}
	if tokenStr == "" {
		return false
	}

	claims, err := a.tokens.Parse(tokenStr, security.TokenTypeAccess)
	if err != nil {
		return false
	}
	if a.revoked != nil && a.revoked.IsRevoked(claims.ID) {
		return false
	}

	userID, err := claims.UserID()
	if err != nil {
		return false
	}

	ctx.Locals(localUserID, userID)
	ctx.Locals(localClaims, claims)
	return true
}

// UserID returns the authenticated user, if any.
func UserID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := ctx.Locals(localUserID).(uuid.UUID)
	return id, ok
}

func TokenClaims(ctx *fiber.Ctx) (*security.Claims, bool) {
	c, ok := ctx.Locals(localClaims).(*security.Claims)
	return c, ok
}
