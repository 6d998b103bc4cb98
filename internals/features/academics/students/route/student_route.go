package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/features/academics/students/controller"
)

// Base: /api/admin/students
func StudentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewStudentController(db)

	g := r.Group("/students")
	g.Get("/", ctrl.List)
	g.Get("/import/template", ctrl.ImportTemplate)
	g.Post("/import", ctrl.Import)
	g.Get("/:id", ctrl.Detail)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
