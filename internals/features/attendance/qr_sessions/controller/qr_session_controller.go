package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"attendku_backend/internals/configs"
	"attendku_backend/internals/constants"
	subjectModel "attendku_backend/internals/features/academics/subjects/model"
	"attendku_backend/internals/features/attendance/qr_sessions/dto"
	"attendku_backend/internals/features/attendance/qr_sessions/model"
	"attendku_backend/internals/features/attendance/qr_sessions/service"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
	"attendku_backend/internals/helpers/dbtime"
	"attendku_backend/internals/helpers/excel"
)

type QRSessionController struct {
	DB    *gorm.DB
	Cache *service.SessionCache
	Now   func() time.Time
}

func NewQRSessionController(db *gorm.DB, cache *service.SessionCache) *QRSessionController {
	return &QRSessionController{DB: db, Cache: cache, Now: time.Now}
}

func (qc *QRSessionController) now() time.Time {
	if qc.Now != nil {
		return qc.Now()
	}
	return time.Now()
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	return id, nil
}

func (qc *QRSessionController) toResponse(s model.QRSessionModel, subjectCode, subjectName, classCode string) dto.SessionResponse {
	now := qc.now()
	out := dto.SessionResponse{
		QRSessionModel: s,
		SubjectCode:    subjectCode,
		SubjectName:    subjectName,
		ClassCode:      classCode,
		ScanPayload:    service.ScanPayload(configs.PublicAppURL, s.QRSessionToken),
		IsOpen:         s.IsOpenAt(now),
		ServerTime:     now.UTC(),
	}
	if out.IsOpen {
		out.ExpiresIn = int64(s.QRSessionValidUntil.Sub(now).Seconds())
	}
	return out
}

// loadOwned: sesi milik dosen pemanggil (admin boleh semua).
func (qc *QRSessionController) loadOwned(c *fiber.Ctx, id uuid.UUID) (*model.QRSessionModel, error) {
	db := qc.DB.WithContext(c.UserContext())
	var s model.QRSessionModel
	if err := db.First(&s, "qr_session_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}
	if helperAuth.IsAdmin(c) {
		return &s, nil
	}
	teacherID, err := helperAuth.GetTeacherIDSmart(c, qc.DB)
	if err != nil {
		return nil, err
	}
	if s.QRSessionTeacherID != teacherID {
		// wali kelas boleh melihat sesi kelasnya
		ok, err := helperAuth.IsClassTeacherOf(db, s.QRSessionClassID, teacherID)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check session ownership")
		}
		if !ok {
			return nil, fiber.NewError(fiber.StatusForbidden, "Session belongs to another teacher")
		}
	}
	return &s, nil
}

func (qc *QRSessionController) subjectInfo(c *fiber.Ctx, subjectID uuid.UUID) (code, name, classCode string) {
	var row struct {
		SubjectCode string `gorm:"column:subject_code"`
		SubjectName string `gorm:"column:subject_name"`
		ClassCode   string `gorm:"column:class_code"`
	}
	_ = qc.DB.WithContext(c.UserContext()).Table("subjects s").
		Select("s.subject_code, s.subject_name, c.class_code").
		Joins("JOIN classes c ON c.class_id = s.subject_class_id").
		Where("s.subject_id = ?", subjectID).
		Take(&row).Error
	return row.SubjectCode, row.SubjectName, row.ClassCode
}

/* =========================
   CREATE
========================= */

// POST /api/faculty/sessions
func (qc *QRSessionController) Create(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}

	db := qc.DB.WithContext(c.UserContext())
	var subj subjectModel.SubjectModel
	if err := db.First(&subj, "subject_id = ?", req.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Subject not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load subject")
	}

	var teacherID uuid.UUID
	if helperAuth.IsAdmin(c) {
		if subj.SubjectTeacherID == nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Subject has no teacher assigned")
		}
		teacherID = *subj.SubjectTeacherID
	} else {
		tid, err := helperAuth.GetTeacherIDSmart(c, qc.DB)
		if err != nil {
			return err
		}
		if subj.SubjectTeacherID == nil || *subj.SubjectTeacherID != tid {
			return helper.JsonError(c, fiber.StatusForbidden, "You do not teach this subject")
		}
		teacherID = tid
	}

	now := qc.now()
	ttl := service.ClampTTL(req.TTLMinutes, configs.QRDefaultTTL, configs.QRMaxTTL)
	userID, _ := helperAuth.GetUserIDFromToken(c)

	s := model.QRSessionModel{
		QRSessionToken:      service.NewToken(),
		QRSessionSubjectID:  subj.SubjectID,
		QRSessionClassID:    subj.SubjectClassID,
		QRSessionTeacherID:  teacherID,
		QRSessionDate:       dbtime.DateOf(now),
		QRSessionValidUntil: now.Add(ttl).UTC(),
		QRSessionIsActive:   true,
		QRSessionTopic:      req.Topic,
		QRSessionMeta: datatypes.JSONMap{
			"created_by":  userID.String(),
			"ttl_seconds": int64(ttl.Seconds()),
			"rotations":   0,
		},
	}
	if err := db.Create(&s).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	qc.Cache.Put(c.UserContext(), &s)
	log.Printf("[QR] session %s opened subject=%s ttl=%s", s.QRSessionID, subj.SubjectCode, ttl)

	return helper.JsonCreated(c, "Session created", qc.toResponse(s, subj.SubjectCode, subj.SubjectName, ""))
}

/* =========================
   LIST & DETAIL
========================= */

// GET /api/faculty/sessions?subject_id=&date=&active=
func (qc *QRSessionController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "q.qr_session_created_at",
		"date":       "q.qr_session_date",
	}, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	q := qc.DB.WithContext(c.UserContext()).Table("qr_sessions q").
		Joins("JOIN subjects s ON s.subject_id = q.qr_session_subject_id").
		Joins("JOIN classes c ON c.class_id = q.qr_session_class_id").
		Where("q.qr_session_deleted_at IS NULL")

	if !helperAuth.IsAdmin(c) {
		tid, err := helperAuth.GetTeacherIDSmart(c, qc.DB)
		if err != nil {
			return err
		}
		q = q.Where("q.qr_session_teacher_id = ?", tid)
	}
	if v := strings.TrimSpace(c.Query("subject_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "subject_id tidak valid")
		}
		q = q.Where("q.qr_session_subject_id = ?", id)
	}
	if v := strings.TrimSpace(c.Query("date")); v != "" {
		d, err := dbtime.ParseDate(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "date harus YYYY-MM-DD")
		}
		q = q.Where("q.qr_session_date = ?", d)
	}
	if c.Query("active") == "true" {
		q = q.Where("q.qr_session_is_active = TRUE AND q.qr_session_valid_until > ?", qc.now())
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count sessions")
	}
	var rows []dto.SessionResponse
	if err := q.Select("q.*, s.subject_code, s.subject_name, c.class_code").
		Order(order).Limit(p.Limit()).Offset(p.Offset()).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch sessions")
	}
	out := make([]dto.SessionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, qc.toResponse(r.QRSessionModel, r.SubjectCode, r.SubjectName, r.ClassCode))
	}
	return helper.JsonList(c, "ok", out, p.Pagination(total))
}

// GET /api/faculty/sessions/:id
func (qc *QRSessionController) Detail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	s, err := qc.loadOwned(c, id)
	if err != nil {
		return err
	}
	code, name, classCode := qc.subjectInfo(c, s.QRSessionSubjectID)
	return helper.JsonOK(c, "ok", qc.toResponse(*s, code, name, classCode))
}

// GET /api/faculty/sessions/:id/qr.png?size=
func (qc *QRSessionController) QRImage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	s, err := qc.loadOwned(c, id)
	if err != nil {
		return err
	}
	if !s.IsOpenAt(qc.now()) {
		return helper.JsonError(c, fiber.StatusGone, "Session is closed or expired")
	}
	png, err := service.RenderPNG(service.ScanPayload(configs.PublicAppURL, s.QRSessionToken), c.QueryInt("size", service.DefaultQRSize))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render QR")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}

/* =========================
   REFRESH & CLOSE
========================= */

// POST /api/faculty/sessions/:id/refresh: token baru, valid_until direset
func (qc *QRSessionController) Refresh(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.RefreshSessionRequest
	_ = c.BodyParser(&req)
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}

	s, err := qc.loadOwned(c, id)
	if err != nil {
		return err
	}
	if !s.QRSessionIsActive {
		return helper.JsonError(c, fiber.StatusConflict, "Session already closed")
	}
	// hanya di hari yang sama
	now := qc.now()
	if !dbtime.DateOf(now).Equal(dbtime.AsDate(s.QRSessionDate)) {
		return helper.JsonError(c, fiber.StatusConflict, "Session date has passed; open a new session")
	}

	oldToken := s.QRSessionToken
	ttl := service.ClampTTL(req.TTLMinutes, configs.QRDefaultTTL, configs.QRMaxTTL)

	meta := s.QRSessionMeta
	if meta == nil {
		meta = datatypes.JSONMap{}
	}
	rot := 0
	switch v := meta["rotations"].(type) {
	case float64:
		rot = int(v)
	case int:
		rot = v
	}
	meta["rotations"] = rot + 1
	meta["ttl_seconds"] = int64(ttl.Seconds())

	s.QRSessionToken = service.NewToken()
	s.QRSessionValidUntil = now.Add(ttl).UTC()
	s.QRSessionMeta = meta

	if err := qc.DB.WithContext(c.UserContext()).Model(&model.QRSessionModel{}).
		Where("qr_session_id = ?", s.QRSessionID).
		Updates(map[string]any{
			"qr_session_token":       s.QRSessionToken,
			"qr_session_valid_until": s.QRSessionValidUntil,
			"qr_session_meta":        s.QRSessionMeta,
		}).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	qc.Cache.Delete(c.UserContext(), oldToken)
	qc.Cache.Put(c.UserContext(), s)

	code, name, classCode := qc.subjectInfo(c, s.QRSessionSubjectID)
	return helper.JsonUpdated(c, "Session token refreshed", qc.toResponse(*s, code, name, classCode))
}

// POST /api/faculty/sessions/:id/close {mark_absent?}
func (qc *QRSessionController) Close(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.CloseSessionRequest
	_ = c.BodyParser(&req)

	s, err := qc.loadOwned(c, id)
	if err != nil {
		return err
	}
	userID, _ := helperAuth.GetUserIDFromToken(c)
	now := qc.now().UTC()

	var marked int64
	err = qc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if s.QRSessionIsActive {
			if err := tx.Model(&model.QRSessionModel{}).
				Where("qr_session_id = ?", s.QRSessionID).
				Updates(map[string]any{
					"qr_session_is_active": false,
					"qr_session_closed_at": now,
				}).Error; err != nil {
				return err
			}
		}
		if !req.MarkAbsent {
			return nil
		}
		res := tx.Exec(`
			INSERT INTO attendances (
				attendance_student_id, attendance_subject_id, attendance_date,
				attendance_class_id, attendance_session_id,
				attendance_status, attendance_source,
				attendance_marked_by, attendance_marked_at,
				attendance_created_at, attendance_updated_at
			)
			SELECT st.student_id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
			FROM students st
			WHERE st.student_class_id = ?
			  AND st.student_deleted_at IS NULL
			  AND st.student_is_active = TRUE
			ON CONFLICT (attendance_student_id, attendance_subject_id, attendance_date) DO NOTHING`,
			s.QRSessionSubjectID, dbtime.AsDate(s.QRSessionDate), s.QRSessionClassID, s.QRSessionID,
			constants.AttendanceAbsent, constants.SourceManual,
			userID, now, now, now,
			s.QRSessionClassID,
		)
		marked = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}
	qc.Cache.Delete(c.UserContext(), s.QRSessionToken)
	log.Printf("[QR] session %s closed, absent rows=%d", s.QRSessionID, marked)

	return helper.JsonOK(c, "Session closed", fiber.Map{
		"qr_session_id": s.QRSessionID,
		"closed_at":     now,
		"absent_marked": marked,
	})
}

/* =========================
   ATTENDANCE OF SESSION
========================= */

func (qc *QRSessionController) sessionRows(c *fiber.Ctx, s *model.QRSessionModel) ([]dto.SessionAttendanceRow, error) {
	var rows []dto.SessionAttendanceRow
	err := qc.DB.WithContext(c.UserContext()).Table("students st").
		Select(`st.student_id, st.student_roll_number, u.full_name,
			a.attendance_id, a.attendance_status, a.attendance_source, a.attendance_marked_at`).
		Joins("JOIN users u ON u.id = st.student_user_id").
		Joins(`LEFT JOIN attendances a ON a.attendance_student_id = st.student_id
			AND a.attendance_subject_id = ? AND a.attendance_date = ?`, s.QRSessionSubjectID, s.QRSessionDate).
		Where("st.student_class_id = ? AND st.student_deleted_at IS NULL", s.QRSessionClassID).
		Order("st.student_roll_number ASC").
		Scan(&rows).Error
	return rows, err
}

// GET /api/faculty/sessions/:id/attendance
func (qc *QRSessionController) Attendance(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	s, err := qc.loadOwned(c, id)
	if err != nil {
		return err
	}
	rows, err := qc.sessionRows(c, s)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch attendance")
	}
	present := 0
	for _, r := range rows {
		if r.AttendanceStatus != nil && constants.IsCountedPresent(*r.AttendanceStatus) {
			present++
		}
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"session":  qc.toResponse(*s, "", "", ""),
		"total":    len(rows),
		"present":  present,
		"students": rows,
	})
}

// GET /api/faculty/sessions/:id/export (xlsx)
func (qc *QRSessionController) Export(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	s, err := qc.loadOwned(c, id)
	if err != nil {
		return err
	}
	rows, err := qc.sessionRows(c, s)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch attendance")
	}

	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		status, source, markedAt := "not marked", "", ""
		if r.AttendanceStatus != nil {
			status = *r.AttendanceStatus
		}
		if r.AttendanceSource != nil {
			source = *r.AttendanceSource
		}
		if r.AttendanceMarkedAt != nil {
			markedAt = dbtime.ToCampusTime(*r.AttendanceMarkedAt).Format("2006-01-02 15:04")
		}
		data = append(data, []any{r.StudentRollNumber, r.FullName, status, source, markedAt})
	}

	code, _, _ := qc.subjectInfo(c, s.QRSessionSubjectID)
	buf, err := excel.Build(excel.Sheet{
		Name:    "Attendance",
		Headers: []string{"Roll number", "Name", "Status", "Source", "Marked at"},
		Rows:    data,
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build workbook")
	}
	return excel.Send(c, fmt.Sprintf("attendance_%s_%s.xlsx", code, dbtime.FormatDate(s.QRSessionDate)), buf)
}
