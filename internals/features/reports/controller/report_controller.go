package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/configs"
	classModel "attendku_backend/internals/features/academics/classes/model"
	"attendku_backend/internals/features/reports/service"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
	"attendku_backend/internals/helpers/dbtime"
	"attendku_backend/internals/helpers/excel"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

func threshold(c *fiber.Ctx) (float64, error) {
	v := strings.TrimSpace(c.Query("threshold"))
	if v == "" {
		return configs.AttendanceThreshold, nil
	}
	t, err := strconv.ParseFloat(v, 64)
	if err != nil || t < 0 || t > 100 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "threshold harus 0..100")
	}
	return t, nil
}

// filterFromQuery: from/to/subject_id dari query string.
func filterFromQuery(c *fiber.Ctx, classID uuid.UUID) (service.Filter, error) {
	f := service.Filter{ClassID: classID}
	var err error
	if f.From, err = dbtime.ParseDatePtr(c.Query("from")); err != nil {
		return f, fiber.NewError(fiber.StatusBadRequest, "from harus YYYY-MM-DD")
	}
	if f.To, err = dbtime.ParseDatePtr(c.Query("to")); err != nil {
		return f, fiber.NewError(fiber.StatusBadRequest, "to harus YYYY-MM-DD")
	}
	if v := strings.TrimSpace(c.Query("subject_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "subject_id tidak valid")
		}
		f.SubjectID = &id
	}
	return f, nil
}

// loadClass: admin, atau wali kelas dari kelas tsb.
func (rc *ReportController) loadClass(c *fiber.Ctx) (*classModel.ClassModel, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid class id")
	}
	var cls classModel.ClassModel
	if err := rc.DB.WithContext(c.UserContext()).First(&cls, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Class not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load class")
	}
	if helperAuth.IsAdmin(c) {
		return &cls, nil
	}
	tid, err := helperAuth.GetTeacherIDSmart(c, rc.DB)
	if err != nil {
		return nil, err
	}
	if cls.ClassTeacherID == nil || *cls.ClassTeacherID != tid {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only the class teacher can view this report")
	}
	return &cls, nil
}

func (rc *ReportController) classSummaries(c *fiber.Ctx) (*classModel.ClassModel, []service.StudentSummary, float64, error) {
	cls, err := rc.loadClass(c)
	if err != nil {
		return nil, nil, 0, err
	}
	th, err := threshold(c)
	if err != nil {
		return nil, nil, 0, err
	}
	f, err := filterFromQuery(c, cls.ClassID)
	if err != nil {
		return nil, nil, 0, err
	}
	rows, err := service.LoadStats(c.UserContext(), rc.DB, f)
	if err != nil {
		return nil, nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to build report")
	}
	return cls, service.Aggregate(rows, th), th, nil
}

// GET /api/faculty/classes/:id/report?from=&to=&subject_id=
func (rc *ReportController) ClassReport(c *fiber.Ctx) error {
	cls, students, th, err := rc.classSummaries(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"class":     fiber.Map{"class_id": cls.ClassID, "class_code": cls.ClassCode, "class_name": cls.ClassName},
		"threshold": th,
		"students":  students,
	})
}

// GET /api/faculty/classes/:id/defaulters?threshold=
func (rc *ReportController) Defaulters(c *fiber.Ctx) error {
	cls, students, th, err := rc.classSummaries(c)
	if err != nil {
		return err
	}
	list := service.Defaulters(students, th)
	return helper.JsonOK(c, "ok", fiber.Map{
		"class_id":   cls.ClassID,
		"threshold":  th,
		"total":      len(list),
		"defaulters": list,
	})
}

// GET /api/faculty/classes/:id/report/export (xlsx: ringkasan + detail per subject)
func (rc *ReportController) ExportClassReport(c *fiber.Ctx) error {
	cls, students, th, err := rc.classSummaries(c)
	if err != nil {
		return err
	}

	summary := make([][]any, 0, len(students))
	detail := make([][]any, 0, len(students)*4)
	for _, s := range students {
		flag := ""
		if s.BelowThreshold {
			flag = "BELOW"
		}
		summary = append(summary, []any{s.StudentRollNumber, s.StudentName, s.Held, s.Attended, s.Excused, s.Percentage, flag})
		for _, sub := range s.Subjects {
			detail = append(detail, []any{s.StudentRollNumber, s.StudentName, sub.SubjectCode, sub.SubjectName,
				sub.Held, sub.Attended, sub.Excused, sub.Absent, sub.Percentage})
		}
	}

	buf, err := excel.Build(
		excel.Sheet{
			Name:    "Summary",
			Headers: []string{"Roll number", "Name", "Held", "Attended", "Excused", "Percentage", fmt.Sprintf("< %.0f%%", th)},
			Rows:    summary,
		},
		excel.Sheet{
			Name:    "By subject",
			Headers: []string{"Roll number", "Name", "Subject code", "Subject", "Held", "Attended", "Excused", "Absent", "Percentage"},
			Rows:    detail,
		},
	)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build workbook")
	}
	return excel.Send(c, fmt.Sprintf("report_%s_%s.xlsx", cls.ClassCode, dbtime.FormatDate(dbtime.Today())), buf)
}

// GET /api/students/attendance/summary
func (rc *ReportController) MySummary(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentIDSmart(c, rc.DB)
	if err != nil {
		return err
	}
	var st struct {
		StudentClassID uuid.UUID `gorm:"column:student_class_id"`
	}
	if err := rc.DB.WithContext(c.UserContext()).Table("students").
		Select("student_class_id").Where("student_id = ?", studentID).
		Take(&st).Error; err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, "No student record linked to this account")
	}

	f, err := filterFromQuery(c, st.StudentClassID)
	if err != nil {
		return err
	}
	f.StudentID = &studentID
	rows, err := service.LoadStats(c.UserContext(), rc.DB, f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build summary")
	}
	th := configs.AttendanceThreshold
	all := service.Aggregate(rows, th)
	if len(all) == 0 {
		return helper.JsonOK(c, "ok", service.StudentSummary{StudentID: studentID, Percentage: 100, Subjects: []service.SubjectSummary{}})
	}
	return helper.JsonOK(c, "ok", all[0])
}
