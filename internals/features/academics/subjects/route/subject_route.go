package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/features/academics/subjects/controller"
)

// Base: /api/admin/subjects
func SubjectAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSubjectController(db)

	g := r.Group("/subjects")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}

// Base: /api/faculty/subjects (list diampu / kelas perwalian)
func SubjectFacultyRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSubjectController(db)
	r.Get("/subjects", ctrl.List)
}
