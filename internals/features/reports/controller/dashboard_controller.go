package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/configs"
	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/reports/service"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
	"attendku_backend/internals/helpers/dbtime"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type roleCount struct {
	Role  string `gorm:"column:role" json:"role"`
	Total int64  `gorm:"column:total" json:"total"`
}

// counter: beberapa COUNT berurutan, error pertama disimpan.
type counter struct{ err error }

func (k *counter) count(q *gorm.DB, dst *int64) {
	if k.err == nil {
		k.err = q.Count(dst).Error
	}
}

/* GET /api/admin/dashboard */
func (dc *DashboardController) Admin(c *fiber.Ctx) error {
	db := dc.DB.WithContext(c.UserContext())
	today := dbtime.Today()
	now := time.Now()

	var roles []roleCount
	if err := db.Table("users").Select("role, COUNT(*) AS total").
		Where("deleted_at IS NULL").Group("role").Scan(&roles).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load dashboard")
	}
	usersByRole := map[string]int64{}
	for _, r := range constants.AllRoles {
		usersByRole[r] = 0
	}
	for _, r := range roles {
		usersByRole[r.Role] = r.Total
	}

	var classes, subjects, presentToday, activeSessions, pending int64
	var k counter
	k.count(db.Table("classes").Where("class_deleted_at IS NULL"), &classes)
	k.count(db.Table("subjects").Where("subject_deleted_at IS NULL"), &subjects)
	k.count(db.Table("attendances").Where("attendance_date = ? AND attendance_status IN ?", today,
		[]string{constants.AttendancePresent, constants.AttendanceLate}), &presentToday)
	k.count(db.Table("qr_sessions").Where("qr_session_is_active = TRUE AND qr_session_valid_until > ? AND qr_session_deleted_at IS NULL", now), &activeSessions)
	k.count(db.Table("attendance_requests").Where("attendance_request_status = ? AND attendance_request_deleted_at IS NULL", constants.RequestPending), &pending)
	if k.err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load dashboard")
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"date":             dbtime.FormatDate(today),
		"users_by_role":    usersByRole,
		"classes":          classes,
		"subjects":         subjects,
		"present_today":    presentToday,
		"active_sessions":  activeSessions,
		"pending_requests": pending,
	})
}

/* GET /api/faculty/dashboard */
func (dc *DashboardController) Faculty(c *fiber.Ctx) error {
	db := dc.DB.WithContext(c.UserContext())
	tid, err := helperAuth.GetTeacherIDSmart(c, dc.DB)
	if err != nil {
		return err
	}
	now := time.Now()

	type subjectRow struct {
		SubjectID   uuid.UUID `gorm:"column:subject_id" json:"subject_id"`
		SubjectCode string    `gorm:"column:subject_code" json:"subject_code"`
		SubjectName string    `gorm:"column:subject_name" json:"subject_name"`
		ClassCode   string    `gorm:"column:class_code" json:"class_code"`
		Sessions    int64     `gorm:"column:sessions" json:"sessions_held"`
	}
	var subjects []subjectRow
	if err := db.Table("subjects s").
		Select(`s.subject_id, s.subject_code, s.subject_name, c.class_code,
			(SELECT COUNT(DISTINCT q.qr_session_date) FROM qr_sessions q
			  WHERE q.qr_session_subject_id = s.subject_id AND q.qr_session_deleted_at IS NULL) AS sessions`).
		Joins("JOIN classes c ON c.class_id = s.subject_class_id").
		Where("s.subject_teacher_id = ? AND s.subject_deleted_at IS NULL", tid).
		Order("s.subject_code ASC").
		Scan(&subjects).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load dashboard")
	}

	var active int64
	var k counter
	k.count(db.Table("qr_sessions").
		Where("qr_session_teacher_id = ? AND qr_session_is_active = TRUE AND qr_session_valid_until > ? AND qr_session_deleted_at IS NULL", tid, now), &active)

	out := fiber.Map{
		"subjects":        subjects,
		"active_sessions": active,
	}

	// khusus wali kelas
	var homeClassIDs []uuid.UUID
	if k.err == nil {
		k.err = db.Table("classes").Where("class_teacher_id = ? AND class_deleted_at IS NULL", tid).Pluck("class_id", &homeClassIDs).Error
	}
	if len(homeClassIDs) > 0 {
		var pending int64
		k.count(db.Table("attendance_requests").
			Where("attendance_request_class_id IN ? AND attendance_request_status = ? AND attendance_request_deleted_at IS NULL",
				homeClassIDs, constants.RequestPending), &pending)
		out["home_class_ids"] = homeClassIDs
		out["pending_requests"] = pending
	}
	if k.err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load dashboard")
	}
	return helper.JsonOK(c, "ok", out)
}

/* GET /api/students/dashboard */
func (dc *DashboardController) Student(c *fiber.Ctx) error {
	db := dc.DB.WithContext(c.UserContext())
	studentID, err := helperAuth.GetStudentIDSmart(c, dc.DB)
	if err != nil {
		return err
	}

	var profile struct {
		StudentID         uuid.UUID `gorm:"column:student_id" json:"student_id"`
		StudentRollNumber string    `gorm:"column:student_roll_number" json:"student_roll_number"`
		FullName          string    `gorm:"column:full_name" json:"full_name"`
		ClassID           uuid.UUID `gorm:"column:class_id" json:"class_id"`
		ClassCode         string    `gorm:"column:class_code" json:"class_code"`
		ClassName         string    `gorm:"column:class_name" json:"class_name"`
	}
	if err := db.Table("students st").
		Select("st.student_id, st.student_roll_number, u.full_name, c.class_id, c.class_code, c.class_name").
		Joins("JOIN users u ON u.id = st.student_user_id").
		Joins("JOIN classes c ON c.class_id = st.student_class_id").
		Where("st.student_id = ?", studentID).
		Take(&profile).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load profile")
	}

	type todayRow struct {
		SubjectCode string    `gorm:"column:subject_code" json:"subject_code"`
		SubjectName string    `gorm:"column:subject_name" json:"subject_name"`
		Status      string    `gorm:"column:attendance_status" json:"status"`
		MarkedAt    time.Time `gorm:"column:attendance_marked_at" json:"marked_at"`
	}
	var today []todayRow
	db.Table("attendances a").
		Select("s.subject_code, s.subject_name, a.attendance_status, a.attendance_marked_at").
		Joins("JOIN subjects s ON s.subject_id = a.attendance_subject_id").
		Where("a.attendance_student_id = ? AND a.attendance_date = ?", studentID, dbtime.Today()).
		Order("a.attendance_marked_at ASC").
		Scan(&today)

	rows, err := service.LoadStats(c.UserContext(), dc.DB, service.Filter{ClassID: profile.ClassID, StudentID: &studentID})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load summary")
	}
	overall := float64(100)
	below := false
	if all := service.Aggregate(rows, configs.AttendanceThreshold); len(all) > 0 {
		overall, below = all[0].Percentage, all[0].BelowThreshold
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"profile":            profile,
		"today":              today,
		"overall_percentage": overall,
		"below_threshold":    below,
		"threshold":          configs.AttendanceThreshold,
	})
}
