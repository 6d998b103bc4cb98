package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/features/academics/teachers/controller"
)

// Base: /api/admin/teachers
func TeacherAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewTeacherController(db)

	g := r.Group("/teachers")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
