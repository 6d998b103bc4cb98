// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "attendku_backend/internals/features/users/auth/controller"
	rateLimiter "attendku_backend/internals/middlewares"
	authMiddleware "attendku_backend/internals/middlewares/auth"
)

// Base: /api/auth
func AuthRoutes(r fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	// 🔓 Public
	r.Post("/login", rateLimiter.LoginIPRateLimiter(), rateLimiter.LoginRateLimiter(), authController.Login)
	r.Post("/login-google", rateLimiter.LoginIPRateLimiter(), authController.LoginGoogle)
	r.Post("/refresh-token", authController.RefreshToken)

	// 🔐 Protected
	protected := r.Group("", authMiddleware.AuthMiddleware(db))
	protected.Post("/logout", authController.Logout)
	protected.Post("/change-password", authController.ChangePassword)
	protected.Get("/me", authController.Me)
	protected.Patch("/me", authController.UpdateProfile)
}
