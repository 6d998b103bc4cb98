package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "attendku_backend/internals/features/attendance/attendances/route"
	requestRoute "attendku_backend/internals/features/attendance/requests/route"
	reportRoute "attendku_backend/internals/features/reports/route"
	"attendku_backend/internals/helpers/storage"
)

// /api/students/* (role student)
func StudentRoutes(g fiber.Router, db *gorm.DB, st storage.Storage) {
	attendanceRoute.AttendanceStudentRoutes(g, db)
	reportRoute.ReportStudentRoutes(g, db)
	requestRoute.RequestStudentRoutes(g, db, st)
}
