package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subjectRoute "attendku_backend/internals/features/academics/subjects/route"
	attendanceRoute "attendku_backend/internals/features/attendance/attendances/route"
	qrRoute "attendku_backend/internals/features/attendance/qr_sessions/route"
	requestRoute "attendku_backend/internals/features/attendance/requests/route"
	reportRoute "attendku_backend/internals/features/reports/route"
	"attendku_backend/internals/helpers/storage"
)

// /api/faculty/* (class_teacher, subject_teacher, admin)
func FacultyRoutes(g fiber.Router, db *gorm.DB, st storage.Storage) {
	subjectRoute.SubjectFacultyRoutes(g, db)
	attendanceRoute.AttendanceFacultyRoutes(g, db)
	qrRoute.QRSessionFacultyRoutes(g, db)
	requestRoute.RequestFacultyRoutes(g, db, st)
	reportRoute.ReportFacultyRoutes(g, db)
}
