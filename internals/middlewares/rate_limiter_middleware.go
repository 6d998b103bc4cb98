package middlewares

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"attendku_backend/internals/configs"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
)

/*
   Semua limiter per-IP memakai c.IP(). IP asli dari X-Forwarded-For hanya
   dipakai kalau request datang dari TRUSTED_PROXIES (lihat ProxyConfig).

   Satu kelas bisa berada di belakang NAT kampus yang sama, jadi:
   - global: per IP, batasnya cukup longgar untuk satu kelas (RATE_LIMIT_GLOBAL)
   - login: per IP + identifier (RATE_LIMIT_LOGIN), ditambah batas kasar per IP
     (RATE_LIMIT_LOGIN_IP) untuk password spraying
   - scan: per user
*/

func limitReached(msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return helper.JsonError(c, fiber.StatusTooManyRequests, msg)
	}
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// ProxyConfig mengisi setting proxy Fiber. Tanpa trusted proxy, header
// X-Forwarded-For tidak pernah dipercaya.
func ProxyConfig(cfg fiber.Config, trusted []string) fiber.Config {
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = trusted
	if len(trusted) > 0 {
		cfg.ProxyHeader = fiber.HeaderXForwardedFor
	}
	return cfg
}

// Global limiter: jalan sebelum auth, jadi key-nya IP.
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        orDefault(configs.RateLimitGlobal, 600),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: limitReached("❌ Too many requests. Please try again later."),
	})
}

type loginKeyBody struct {
	Identifier string `json:"identifier" form:"identifier"`
	Email      string `json:"email" form:"email"`
	RollNumber string `json:"roll_number" form:"roll_number"`
}

// loginIdentifier membaca identifier dari body tanpa mengganggu handler.
func loginIdentifier(c *fiber.Ctx) string {
	if len(c.Body()) == 0 {
		return ""
	}
	var b loginKeyBody
	if err := c.BodyParser(&b); err != nil {
		return ""
	}
	for _, v := range []string{b.Identifier, b.Email, b.RollNumber} {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			return v
		}
	}
	return ""
}

// Rate limiter login per akun (per IP + identifier)
func LoginRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        orDefault(configs.RateLimitLogin, 5),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP() + "|" + loginIdentifier(c)
		},
		LimitReached: limitReached("❌ Too many login attempts. Try again in a minute."),
	})
}

// Batas kasar login per IP, cukup untuk satu kelas login bersamaan.
func LoginIPRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        orDefault(configs.RateLimitLoginIP, 60),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login-ip:" + c.IP()
		},
		LimitReached: limitReached("❌ Too many login attempts from this network. Try again in a minute."),
	})
}

// Rate limiter scan QR: key per user.
func ScanRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if uid, ok := c.Locals(helperAuth.LocUserID).(string); ok && uid != "" {
				return "scan:" + uid
			}
			return "scan-ip:" + c.IP()
		},
		LimitReached: limitReached("❌ Too many scan attempts. Please wait a moment."),
	})
}
