package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/attendance/requests/dto"
	"attendku_backend/internals/features/attendance/requests/model"
	"attendku_backend/internals/features/attendance/requests/service"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
	"attendku_backend/internals/helpers/dbtime"
	"attendku_backend/internals/helpers/storage"
)

type RequestController struct {
	DB      *gorm.DB
	Storage storage.Storage
}

func NewRequestController(db *gorm.DB, st storage.Storage) *RequestController {
	return &RequestController{DB: db, Storage: st}
}

func listQuery(db *gorm.DB) *gorm.DB {
	return db.Table("attendance_requests r").
		Joins("JOIN students st ON st.student_id = r.attendance_request_student_id").
		Joins("JOIN users u ON u.id = st.student_user_id").
		Joins("LEFT JOIN subjects sb ON sb.subject_id = r.attendance_request_subject_id").
		Where("r.attendance_request_deleted_at IS NULL")
}

const listSelect = "r.*, st.student_roll_number, u.full_name AS student_name, sb.subject_code, sb.subject_name"

var requestSorts = map[string]string{
	"created_at": "r.attendance_request_created_at",
	"date":       "r.attendance_request_date",
}

/* =========================================
   STUDENT
========================================= */

// POST /api/students/requests (JSON atau multipart dengan "proof")
func (rc *RequestController) Create(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentIDSmart(c, rc.DB)
	if err != nil {
		return err
	}

	var req dto.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}

	date, err := dbtime.ParseDate(req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "date harus YYYY-MM-DD")
	}
	if req.Type == constants.RequestTypeCorrection && date.After(dbtime.Today()) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Correction date cannot be in the future")
	}

	db := rc.DB.WithContext(c.UserContext())
	var st struct {
		StudentClassID uuid.UUID `gorm:"column:student_class_id"`
	}
	if err := db.Table("students").Select("student_class_id").
		Where("student_id = ?", studentID).Take(&st).Error; err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, "No student record linked to this account")
	}

	var subjectID *uuid.UUID
	if s := strings.TrimSpace(req.SubjectID); s != "" {
		id, _ := uuid.Parse(s)
		var n int64
		if err := db.Table("subjects").
			Where("subject_id = ? AND subject_class_id = ? AND subject_deleted_at IS NULL", id, st.StudentClassID).
			Count(&n).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check subject")
		}
		if n == 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Subject is not part of your class")
		}
		subjectID = &id
	} else if req.Type == constants.RequestTypeCorrection {
		return helper.JsonError(c, fiber.StatusBadRequest, "subject_id is required for a correction")
	}

	// tolak duplikat yang masih pending
	dup := db.Model(&model.AttendanceRequestModel{}).
		Where("attendance_request_student_id = ? AND attendance_request_date = ? AND attendance_request_type = ? AND attendance_request_status = ?",
			studentID, date, req.Type, constants.RequestPending)
	if subjectID != nil {
		dup = dup.Where("attendance_request_subject_id = ?", *subjectID)
	} else {
		dup = dup.Where("attendance_request_subject_id IS NULL")
	}
	var n int64
	if err := dup.Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check existing requests")
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "A pending request already exists for this date")
	}

	var proofURL *string
	if fh, err := c.FormFile("proof"); err == nil && fh != nil {
		url, err := storage.UploadProof(c.UserContext(), rc.Storage, fh)
		if err != nil {
			return err
		}
		proofURL = &url
	}

	m := model.AttendanceRequestModel{
		AttendanceRequestStudentID: studentID,
		AttendanceRequestClassID:   st.StudentClassID,
		AttendanceRequestSubjectID: subjectID,
		AttendanceRequestType:      req.Type,
		AttendanceRequestDate:      date,
		AttendanceRequestReason:    strings.TrimSpace(req.Reason),
		AttendanceRequestProofURL:  proofURL,
		AttendanceRequestStatus:    constants.RequestPending,
	}
	if err := db.Create(&m).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Request submitted", m)
}

// GET /api/students/requests?status=
func (rc *RequestController) MyRequests(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentIDSmart(c, rc.DB)
	if err != nil {
		return err
	}
	q := listQuery(rc.DB.WithContext(c.UserContext())).Where("r.attendance_request_student_id = ?", studentID)
	return rc.list(c, q)
}

/* =========================================
   FACULTY (wali kelas / admin)
========================================= */

// GET /api/faculty/requests?status=&class_id=
func (rc *RequestController) ClassRequests(c *fiber.Ctx) error {
	q := listQuery(rc.DB.WithContext(c.UserContext()))
	if !helperAuth.IsAdmin(c) {
		tid, err := helperAuth.GetTeacherIDSmart(c, rc.DB)
		if err != nil {
			return err
		}
		q = q.Where("r.attendance_request_class_id IN (?)",
			rc.DB.Table("classes").Select("class_id").Where("class_teacher_id = ? AND class_deleted_at IS NULL", tid))
	}
	if v := strings.TrimSpace(c.Query("class_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "class_id tidak valid")
		}
		q = q.Where("r.attendance_request_class_id = ?", id)
	}
	return rc.list(c, q)
}

func (rc *RequestController) list(c *fiber.Ctx, q *gorm.DB) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(requestSorts, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("status"))); s != "" {
		q = q.Where("r.attendance_request_status = ?", s)
	}
	if t := strings.ToLower(strings.TrimSpace(c.Query("type"))); t != "" {
		q = q.Where("r.attendance_request_type = ?", t)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count requests")
	}
	var rows []dto.RequestRow
	if err := q.Select(listSelect).Order(order).Limit(p.Limit()).Offset(p.Offset()).Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch requests")
	}
	return helper.JsonList(c, "ok", rows, p.Pagination(total))
}

// canDecide: admin, atau wali kelas dari kelas request.
func (rc *RequestController) canDecide(c *fiber.Ctx, id uuid.UUID) error {
	db := rc.DB.WithContext(c.UserContext())
	var r model.AttendanceRequestModel
	if err := db.Select("attendance_request_id, attendance_request_class_id").
		First(&r, "attendance_request_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Request not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load request")
	}
	if helperAuth.IsAdmin(c) {
		return nil
	}
	tid, err := helperAuth.GetTeacherIDSmart(c, rc.DB)
	if err != nil {
		return err
	}
	ok, err := helperAuth.IsClassTeacherOf(db, r.AttendanceRequestClassID, tid)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check class teacher")
	}
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "Only the class teacher can decide this request")
	}
	return nil
}

func (rc *RequestController) decide(c *fiber.Ctx, approve bool) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request id")
	}
	var req dto.DecideRequest
	_ = c.BodyParser(&req)
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}
	if err := rc.canDecide(c, id); err != nil {
		return err
	}
	reviewer, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var (
		out      *model.AttendanceRequestModel
		subjects []uuid.UUID
	)
	err = rc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var err error
		if approve {
			out, subjects, err = service.Approve(tx, id, reviewer, req.Remarks, now)
		} else {
			out, err = service.Reject(tx, id, reviewer, req.Remarks, now)
		}
		return err
	})
	switch {
	case errors.Is(err, service.ErrNotPending):
		return helper.JsonError(c, fiber.StatusConflict, "Request already "+out.AttendanceRequestStatus)
	case errors.Is(err, service.ErrNoSubjects), errors.Is(err, service.ErrMissingSubject):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
	case err != nil:
		log.Printf("[REQUEST] decide %s: %v", id, err)
		return helper.WritePGError(c, err)
	}

	msg := "Request rejected"
	if approve {
		msg = "Request approved"
	}
	return helper.JsonUpdated(c, msg, dto.DecisionResult{
		Request:        *out,
		AffectedRows:   len(subjects),
		AffectedSubIDs: subjects,
		DecidedAt:      now,
	})
}

// POST /api/faculty/requests/:id/approve
func (rc *RequestController) Approve(c *fiber.Ctx) error { return rc.decide(c, true) }

// POST /api/faculty/requests/:id/reject
func (rc *RequestController) Reject(c *fiber.Ctx) error { return rc.decide(c, false) }
