// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/configs"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret string
	// true → token di-blacklist (logout)
	BlacklistChecker func(raw string) (bool, error)
	// nil → skip cek status user
	UserActiveChecker   func(ctx context.Context, userID uuid.UUID) error
	AllowCookieFallback bool
	Leeway              time.Duration
}

// AuthJWT: verifikasi Bearer HS256 + blacklist + locals.
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Ambil token
		raw := helper.BearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if raw == "" && opts.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies(helper.CookieAccessToken))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - No token provided")
		}

		if opts.Secret == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		// 2) Parse & verifikasi signature (HMAC only)
		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(opts.Secret), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid token")
		}

		// refresh token tidak boleh dipakai sebagai access token
		if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Wrong token type")
		}

		// 3) exp
		if err := validateTokenExpiry(claims, opts.Leeway); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 4) blacklist
		if opts.BlacklistChecker != nil {
			blacklisted, err := opts.BlacklistChecker(raw)
			if err != nil {
				log.Println("[ERROR] DB error saat cek blacklist:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			if blacklisted {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
			}
		}

		// 5) user id & status
		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		if opts.UserActiveChecker != nil {
			if err := opts.UserActiveChecker(c.UserContext(), userID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
				}
				if errors.Is(err, errUserInactive) {
					return fiber.NewError(fiber.StatusForbidden, "Account is inactive")
				}
				log.Println("[ERROR] ensureUserActive:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
		}

		// 6) simpan ke locals
		helper.SetRawAccessToken(c, raw)
		storeClaimsToLocals(c, userID, claims)
		return c.Next()
	}
}

// AuthMiddleware: AuthJWT dengan config aplikasi + blacklist DB + cek user aktif.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return AuthJWT(AuthJWTOpts{
		Secret:           configs.JWTSecret,
		BlacklistChecker: helperAuth.BlacklistChecker(db, configs.JWTSecret),
		UserActiveChecker: func(ctx context.Context, userID uuid.UUID) error {
			return ensureUserActive(ctx, db, userID)
		},
		AllowCookieFallback: true,
		Leeway:              30 * time.Second,
	})
}
