package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "attendku_backend/internals/databases"
	"attendku_backend/internals/features/attendance/attendances/dto"
	"attendku_backend/internals/features/attendance/attendances/model"
	"attendku_backend/internals/features/attendance/attendances/repository"
	"attendku_backend/internals/features/attendance/attendances/service"
	qrService "attendku_backend/internals/features/attendance/qr_sessions/service"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
	"attendku_backend/internals/helpers/dbtime"
)

type ScanController struct {
	DB  *gorm.DB
	Svc *service.ScanService
}

func NewScanController(db *gorm.DB) *ScanController {
	return &ScanController{
		DB: db,
		Svc: &service.ScanService{
			Repo:        repository.NewScanRepo(db),
			Cache:       qrService.NewSessionCache(database.Redis),
			Locker:      service.NewRedisLocker(database.Redis),
			IsDuplicate: func(err error) bool { return helper.IsUniqueViolationOn(err, model.UniqueAttendanceIndex) },
		},
	}
}

// mapScanError: sentinel → status
func mapScanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingToken):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoStudent), errors.Is(err, service.ErrStudentInactive), errors.Is(err, service.ErrWrongClass):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionClosed), errors.Is(err, service.ErrTokenExpired):
		return helper.JsonError(c, fiber.StatusGone, err.Error())
	case errors.Is(err, service.ErrDeviceUsed), errors.Is(err, service.ErrAlreadyMarked), errors.Is(err, service.ErrScanInProgress):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		log.Printf("[SCAN] unexpected error: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to record attendance")
	}
}

// POST /api/students/attendance/scan
func (sc *ScanController) Scan(c *fiber.Ctx) error {
	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}

	studentID, err := helperAuth.GetStudentIDSmart(c, sc.DB)
	if err != nil {
		return err
	}
	userID, _ := helperAuth.GetUserIDFromToken(c)

	res, err := sc.Svc.Scan(c.UserContext(), service.ScanInput{
		StudentID: studentID,
		UserID:    userID,
		Token:     req.Token,
		DeviceID:  req.DeviceID,
	})
	if err != nil {
		return mapScanError(c, err)
	}

	out := dto.ScanResponse{
		AttendanceID: res.Attendance.AttendanceID,
		SubjectID:    res.Attendance.AttendanceSubjectID,
		Date:         dbtime.FormatDate(res.Attendance.AttendanceDate),
		Status:       res.Attendance.AttendanceStatus,
		MarkedAt:     res.Attendance.AttendanceMarkedAt,
	}
	var subj struct {
		SubjectCode string `gorm:"column:subject_code"`
		SubjectName string `gorm:"column:subject_name"`
	}
	if err := sc.DB.WithContext(c.UserContext()).Table("subjects").
		Select("subject_code, subject_name").
		Where("subject_id = ?", out.SubjectID).
		Take(&subj).Error; err == nil {
		out.SubjectCode, out.SubjectName = subj.SubjectCode, subj.SubjectName
	}
	return helper.JsonCreated(c, "Attendance marked", out)
}
