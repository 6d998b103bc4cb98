// helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Simpan raw JWT di Locals dari middleware
const LocRawToken = "raw_token"

const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
)

// GetRawAccessToken mengembalikan access token dari:
// 1) Locals("raw_token") yang diset middleware
// 2) Authorization header "Bearer <token>"
// 3) cookie "access_token"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if tok := BearerFromHeader(c.Get(fiber.HeaderAuthorization)); tok != "" {
		return tok
	}
	return strings.TrimSpace(c.Cookies(CookieAccessToken))
}

// BearerFromHeader: toleran spasi ganda, case-insensitive, dan kutip.
func BearerFromHeader(auth string) string {
	fields := strings.Fields(strings.TrimSpace(auth))
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return strings.Trim(strings.TrimSpace(fields[1]), "\"'")
}

// Refresh token: cookie dulu, lalu body {"refresh_token": "..."} (pola localStorage).
func GetRefreshToken(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies(CookieRefreshToken)); v != "" {
		return v
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err == nil {
			return strings.TrimSpace(body.RefreshToken)
		}
	}
	return ""
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
