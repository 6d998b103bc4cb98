package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classRoute "attendku_backend/internals/features/academics/classes/route"
	studentRoute "attendku_backend/internals/features/academics/students/route"
	subjectRoute "attendku_backend/internals/features/academics/subjects/route"
	teacherRoute "attendku_backend/internals/features/academics/teachers/route"
	reportRoute "attendku_backend/internals/features/reports/route"
	userRoute "attendku_backend/internals/features/users/user/route"
)

// /api/admin/* (role admin)
func AdminRoutes(g fiber.Router, db *gorm.DB) {
	reportRoute.ReportAdminRoutes(g, db)
	userRoute.UserAdminRoutes(g, db)
	teacherRoute.TeacherAdminRoutes(g, db)
	classRoute.ClassAdminRoutes(g, db)
	subjectRoute.SubjectAdminRoutes(g, db)
	studentRoute.StudentAdminRoutes(g, db)
}
