package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "attendku_backend/internals/features/users/auth/route"
)

// /api/auth/*
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	authRoute.AuthRoutes(api.Group("/auth"), db)
}
