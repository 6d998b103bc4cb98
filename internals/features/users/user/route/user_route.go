package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/features/users/user/controller"
)

// Base: /api/admin/users (AuthMiddleware + admin sudah di level group)
func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserController(db)

	g := r.Group("/users")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Patch("/:id/activate", ctrl.SetActive(true))
	g.Patch("/:id/deactivate", ctrl.SetActive(false))
	g.Delete("/:id", ctrl.Delete)
}
