package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/academics/subjects/dto"
	"attendku_backend/internals/features/academics/subjects/model"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
)

type SubjectController struct {
	DB *gorm.DB
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{DB: db}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid subject id")
	}
	return id, nil
}

func ensureClassExists(db *gorm.DB, classID uuid.UUID) error {
	var n int64
	if err := db.Table("classes").Where("class_id = ? AND class_deleted_at IS NULL", classID).Count(&n).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check class")
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "subject_class_id not found")
	}
	return nil
}

// pengampu harus akun dosen (class_teacher / subject_teacher)
func ensureTeacher(db *gorm.DB, teacherID uuid.UUID) error {
	var role string
	if err := db.Table("teachers t").
		Select("u.role").
		Joins("JOIN users u ON u.id = t.teacher_user_id AND u.deleted_at IS NULL").
		Where("t.teacher_id = ? AND t.teacher_deleted_at IS NULL", teacherID).
		Scan(&role).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check teacher")
	}
	if !constants.IsTeacherRole(role) {
		return fiber.NewError(fiber.StatusBadRequest, "subject_teacher_id must belong to a teacher")
	}
	return nil
}

func listQuery(db *gorm.DB) *gorm.DB {
	return db.Table("subjects s").
		Joins("JOIN classes c ON c.class_id = s.subject_class_id").
		Joins("LEFT JOIN teachers t ON t.teacher_id = s.subject_teacher_id").
		Joins("LEFT JOIN users u ON u.id = t.teacher_user_id").
		Where("s.subject_deleted_at IS NULL")
}

const listSelect = "s.*, c.class_code, c.class_name, u.full_name AS teacher_name"

// GET /api/admin/subjects?class_id=&teacher_id=&q=
// GET /api/faculty/subjects (dosen: hanya yang diampu)
func (sc *SubjectController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "subject_code", "asc", helper.AdminOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"subject_code": "s.subject_code",
		"subject_name": "s.subject_name",
		"class_code":   "c.class_code",
	}, "subject_code")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	db := sc.DB.WithContext(c.UserContext())
	q := listQuery(db)

	if helperAuth.IsTeacher(c) {
		teacherID, err := helperAuth.GetTeacherIDSmart(c, db)
		if err != nil {
			return err
		}
		q = q.Where("s.subject_teacher_id = ? OR c.class_teacher_id = ?", teacherID, teacherID)
	} else if tid := strings.TrimSpace(c.Query("teacher_id")); tid != "" {
		id, err := uuid.Parse(tid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid teacher_id")
		}
		q = q.Where("s.subject_teacher_id = ?", id)
	}
	if cid := strings.TrimSpace(c.Query("class_id")); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class_id")
		}
		q = q.Where("s.subject_class_id = ?", id)
	}
	if s := p.Search; s != "" {
		like := "%" + s + "%"
		q = q.Where("s.subject_code ILIKE ? OR s.subject_name ILIKE ?", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count subjects")
	}
	var rows []dto.SubjectRow
	if err := q.Select(listSelect).Order(order).Limit(p.Limit()).Offset(p.Offset()).Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch subjects")
	}
	return helper.JsonList(c, "ok", rows, p.Pagination(total))
}

// GET /api/admin/subjects/:id
func (sc *SubjectController) Detail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var row dto.SubjectRow
	res := listQuery(sc.DB.WithContext(c.UserContext())).Select(listSelect).Where("s.subject_id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch subject")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Subject not found")
	}
	return helper.JsonOK(c, "ok", row)
}

// POST /api/admin/subjects
func (sc *SubjectController) Create(c *fiber.Ctx) error {
	var req dto.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}
	db := sc.DB.WithContext(c.UserContext())
	if err := ensureClassExists(db, req.SubjectClassID); err != nil {
		return err
	}
	if req.SubjectTeacherID != nil {
		if err := ensureTeacher(db, *req.SubjectTeacherID); err != nil {
			return err
		}
	}

	m, err := req.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := db.Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Subject code already exists in this class")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Subject created", m)
}

// PATCH /api/admin/subjects/:id
func (sc *SubjectController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}
	db := sc.DB.WithContext(c.UserContext())
	if req.SubjectTeacherID != nil {
		if err := ensureTeacher(db, *req.SubjectTeacherID); err != nil {
			return err
		}
	}
	updates, err := req.Updates()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	res := db.Model(&model.SubjectModel{}).Where("subject_id = ?", id).Updates(updates)
	if res.Error != nil {
		if helper.IsUniqueViolation(res.Error) {
			return helper.JsonError(c, fiber.StatusConflict, "Subject code already exists in this class")
		}
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Subject not found")
	}
	var m model.SubjectModel
	_ = db.First(&m, "subject_id = ?", id).Error
	return helper.JsonUpdated(c, "Subject updated", m)
}

// DELETE /api/admin/subjects/:id
func (sc *SubjectController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := sc.DB.WithContext(c.UserContext())
	var m model.SubjectModel
	if err := db.First(&m, "subject_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Subject not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch subject")
	}
	if err := db.Delete(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete subject")
	}
	return helper.JsonDeleted(c, "Subject deleted", fiber.Map{"subject_id": id})
}
