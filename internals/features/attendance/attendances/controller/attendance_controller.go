package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/attendance/attendances/dto"
	"attendku_backend/internals/features/attendance/attendances/model"
	"attendku_backend/internals/features/attendance/attendances/service"
	qrModel "attendku_backend/internals/features/attendance/qr_sessions/model"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
	"attendku_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	DB *gorm.DB
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{DB: db}
}

/* =========================================
   STUDENT: riwayat presensi sendiri
========================================= */

// GET /api/students/attendance?subject_id=&from=&to=&status=
func (ac *AttendanceController) MyHistory(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentIDSmart(c, ac.DB)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "date", "desc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"date":      "a.attendance_date",
		"marked_at": "a.attendance_marked_at",
	}, "date")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	q := ac.DB.WithContext(c.UserContext()).Table("attendances a").
		Joins("JOIN subjects s ON s.subject_id = a.attendance_subject_id").
		Where("a.attendance_student_id = ?", studentID)

	if v := strings.TrimSpace(c.Query("subject_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "subject_id tidak valid")
		}
		q = q.Where("a.attendance_subject_id = ?", id)
	}
	from, err := dbtime.ParseDatePtr(c.Query("from"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "from harus YYYY-MM-DD")
	}
	to, err := dbtime.ParseDatePtr(c.Query("to"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "to harus YYYY-MM-DD")
	}
	if from != nil {
		q = q.Where("a.attendance_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("a.attendance_date <= ?", *to)
	}
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		q = q.Where("a.attendance_status = ?", st)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count attendance")
	}
	var rows []dto.AttendanceHistoryRow
	if err := q.Select("a.*, s.subject_code, s.subject_name").
		Order(order).Limit(p.Limit()).Offset(p.Offset()).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch attendance")
	}
	return helper.JsonList(c, "ok", rows, p.Pagination(total))
}

/* =========================================
   FACULTY: presensi manual per sesi
========================================= */

func (ac *AttendanceController) sessionForMarking(c *fiber.Ctx) (*qrModel.QRSessionModel, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	db := ac.DB.WithContext(c.UserContext())
	var s qrModel.QRSessionModel
	if err := db.First(&s, "qr_session_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}
	if helperAuth.IsAdmin(c) {
		return &s, nil
	}
	tid, err := helperAuth.GetTeacherIDSmart(c, ac.DB)
	if err != nil {
		return nil, err
	}
	if s.QRSessionTeacherID == tid {
		return &s, nil
	}
	ok, err := helperAuth.IsClassTeacherOf(db, s.QRSessionClassID, tid)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check session ownership")
	}
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, "Session belongs to another teacher")
	}
	return &s, nil
}

func (ac *AttendanceController) mark(tx *gorm.DB, s *qrModel.QRSessionModel, item dto.ManualMarkRequest, by uuid.UUID, now time.Time) (*model.AttendanceModel, error) {
	var n int64
	if err := tx.Table("students").
		Where("student_id = ? AND student_class_id = ? AND student_deleted_at IS NULL", item.StudentID, s.QRSessionClassID).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Student "+item.StudentID.String()+" is not in this class")
	}
	sessionID := s.QRSessionID
	row := &model.AttendanceModel{
		AttendanceStudentID: item.StudentID,
		AttendanceSubjectID: s.QRSessionSubjectID,
		AttendanceDate:      dbtime.AsDate(s.QRSessionDate),
		AttendanceClassID:   s.QRSessionClassID,
		AttendanceSessionID: &sessionID,
		AttendanceStatus:    strings.ToLower(item.Status),
		AttendanceSource:    constants.SourceManual,
		AttendanceMarkedBy:  &by,
		AttendanceMarkedAt:  now,
		AttendanceRemarks:   item.Remarks,
	}
	if err := service.Upsert(tx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// POST /api/faculty/sessions/:id/attendance {student_id, status, remarks?}
func (ac *AttendanceController) ManualMark(c *fiber.Ctx) error {
	s, err := ac.sessionForMarking(c)
	if err != nil {
		return err
	}
	var req dto.ManualMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	row, err := ac.mark(ac.DB.WithContext(c.UserContext()), s, req, userID, time.Now().UTC())
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Attendance saved", row)
}

// POST /api/faculty/sessions/:id/attendance/bulk {items:[...]}
func (ac *AttendanceController) ManualMarkBulk(c *fiber.Ctx) error {
	s, err := ac.sessionForMarking(c)
	if err != nil {
		return err
	}
	var req dto.ManualBulkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	for i := range req.Items {
		req.Items[i].Status = strings.ToLower(strings.TrimSpace(req.Items[i].Status))
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	saved := make([]*model.AttendanceModel, 0, len(req.Items))
	err = ac.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		for _, it := range req.Items {
			row, err := ac.mark(tx, s, it, userID, now)
			if err != nil {
				return err
			}
			saved = append(saved, row)
		}
		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "Attendance saved", fiber.Map{"saved": len(saved), "items": saved})
}
