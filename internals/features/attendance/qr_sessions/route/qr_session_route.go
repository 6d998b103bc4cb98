package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "attendku_backend/internals/databases"
	"attendku_backend/internals/features/attendance/qr_sessions/controller"
	"attendku_backend/internals/features/attendance/qr_sessions/service"
)

// Base: /api/faculty/sessions
func QRSessionFacultyRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewQRSessionController(db, service.NewSessionCache(database.Redis))

	g := r.Group("/sessions")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/:id", ctrl.Detail)
	g.Get("/:id/qr.png", ctrl.QRImage)
	g.Post("/:id/refresh", ctrl.Refresh)
	g.Post("/:id/close", ctrl.Close)
	g.Get("/:id/attendance", ctrl.Attendance)
	g.Get("/:id/export", ctrl.Export)
}
