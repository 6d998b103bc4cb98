package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/features/attendance/attendances/controller"
	appMiddleware "attendku_backend/internals/middlewares"
)

// Base: /api/students
func AttendanceStudentRoutes(r fiber.Router, db *gorm.DB) {
	scan := controller.NewScanController(db)
	ctrl := controller.NewAttendanceController(db)

	g := r.Group("/attendance")
	g.Get("/", ctrl.MyHistory)
	g.Post("/scan", appMiddleware.ScanRateLimiter(), scan.Scan)
}

// Base: /api/faculty
func AttendanceFacultyRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAttendanceController(db)

	r.Post("/sessions/:id/attendance", ctrl.ManualMark)
	r.Post("/sessions/:id/attendance/bulk", ctrl.ManualMarkBulk)
}
