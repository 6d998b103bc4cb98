package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/features/reports/controller"
)

// Base: /api/students
func ReportStudentRoutes(r fiber.Router, db *gorm.DB) {
	rep := controller.NewReportController(db)
	dash := controller.NewDashboardController(db)

	r.Get("/attendance/summary", rep.MySummary)
	r.Get("/dashboard", dash.Student)
}

// Base: /api/faculty
func ReportFacultyRoutes(r fiber.Router, db *gorm.DB) {
	rep := controller.NewReportController(db)
	dash := controller.NewDashboardController(db)

	r.Get("/dashboard", dash.Faculty)

	g := r.Group("/classes/:id")
	g.Get("/report", rep.ClassReport)
	g.Get("/report/export", rep.ExportClassReport)
	g.Get("/defaulters", rep.Defaulters)
}

// Base: /api/admin
func ReportAdminRoutes(r fiber.Router, db *gorm.DB) {
	dash := controller.NewDashboardController(db)
	r.Get("/dashboard", dash.Admin)
}
