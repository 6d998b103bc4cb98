package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/attendance/requests/controller"
	"attendku_backend/internals/helpers/storage"
	authMiddleware "attendku_backend/internals/middlewares/auth"
)

// Base: /api/students
func RequestStudentRoutes(r fiber.Router, db *gorm.DB, st storage.Storage) {
	ctrl := controller.NewRequestController(db, st)

	g := r.Group("/requests")
	g.Get("/", ctrl.MyRequests)
	g.Post("/", ctrl.Create)
}

// Base: /api/faculty: hanya wali kelas & admin yang memutuskan
func RequestFacultyRoutes(r fiber.Router, db *gorm.DB, st storage.Storage) {
	ctrl := controller.NewRequestController(db, st)

	g := r.Group("/requests", authMiddleware.OnlyRolesSlice(
		constants.RoleErrorClassTeacher("attendance requests"),
		constants.ClassTeacherAndAdmin,
	))
	g.Get("/", ctrl.ClassRequests)
	g.Post("/:id/approve", ctrl.Approve)
	g.Post("/:id/reject", ctrl.Reject)
}
