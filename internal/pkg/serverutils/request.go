package serverutils

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	maxIdentifierLength = 64
)

// ClientIdentifier picks the key anonymous callers are rate limited on:
// the X-Fingerprint header, then the first X-Forwarded-For hop, then the peer
// address.
func ClientIdentifier(ctx *fiber.Ctx) string {
	if fp := strings.TrimSpace(ctx.Get("X-Fingerprint")); fp != "" {
		return truncate(fp, maxIdentifierLength)
	}
	if ip := ClientIP(ctx); ip != "" {
		return truncate(ip, maxIdentifierLength)
	}
	return "unknown"
}

func ClientIP(ctx *fiber.Ctx) string {
	if fwd := ctx.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	return ctx.IP()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func SetAuthCookies(ctx *fiber.Ctx, opts CookieOptions, accessToken, refreshToken string) {
	SetAccessCookie(ctx, opts, accessToken)
	if refreshToken != "" {
		ctx.Cookie(authCookie(RefreshTokenCookie, refreshToken, opts.RefreshTTL, opts.Secure))
	}
}

func SetAccessCookie(ctx *fiber.Ctx, opts CookieOptions, accessToken string) {
	ctx.Cookie(authCookie(AccessTokenCookie, accessToken, opts.AccessTTL, opts.Secure))
}

func ClearAuthCookies(ctx *fiber.Ctx, opts CookieOptions) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		ctx.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   opts.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

func authCookie(name, value string, ttl time.Duration, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
