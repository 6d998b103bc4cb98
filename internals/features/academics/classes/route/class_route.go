package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/features/academics/classes/controller"
)

// Base: /api/admin/classes
func ClassAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewClassController(db)

	g := r.Group("/classes")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
