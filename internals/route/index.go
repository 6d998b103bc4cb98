// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/helpers/storage"
	rateLimiter "attendku_backend/internals/middlewares"
	authMiddleware "attendku_backend/internals/middlewares/auth"
	routeDetails "attendku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	api := app.Group("/api", rateLimiter.GlobalRateLimiter())
	st := storage.NewFromEnv()

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(api, db)

	// ===================== STUDENT =====================
	log.Println("[INFO] Setting up STUDENT group...")
	students := api.Group("/students",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorStudent("this feature"), constants.StudentOnly),
	)
	routeDetails.StudentRoutes(students, db, st)

	// ===================== FACULTY =====================
	log.Println("[INFO] Setting up FACULTY group...")
	faculty := api.Group("/faculty",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorFaculty("this feature"), constants.FacultyAndAdmin),
	)
	routeDetails.FacultyRoutes(faculty, db, st)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := api.Group("/admin",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("this feature"), constants.AdminOnly),
	)
	routeDetails.AdminRoutes(admin, db)
}
