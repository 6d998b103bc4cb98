package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/academics/classes/dto"
	"attendku_backend/internals/features/academics/classes/model"
	helper "attendku_backend/internals/helpers"
)

type ClassController struct {
	DB *gorm.DB
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid class id")
	}
	return id, nil
}

// wali kelas harus teacher dengan role class_teacher
func ensureClassTeacher(db *gorm.DB, teacherID uuid.UUID) error {
	var role string
	err := db.Table("teachers t").
		Select("u.role").
		Joins("JOIN users u ON u.id = t.teacher_user_id AND u.deleted_at IS NULL").
		Where("t.teacher_id = ? AND t.teacher_deleted_at IS NULL", teacherID).
		Scan(&role).Error
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check class teacher")
	}
	if role == "" {
		return fiber.NewError(fiber.StatusBadRequest, "class_teacher_id not found")
	}
	if role != constants.RoleClassTeacher {
		return fiber.NewError(fiber.StatusBadRequest, "class_teacher_id must belong to a class teacher")
	}
	return nil
}

func withDetail(q *gorm.DB) *gorm.DB {
	return q.Select(`c.*,
			u.full_name AS class_teacher_name,
			(SELECT COUNT(*) FROM students s WHERE s.student_class_id = c.class_id AND s.student_deleted_at IS NULL) AS student_count,
			(SELECT COUNT(*) FROM subjects sj WHERE sj.subject_class_id = c.class_id AND sj.subject_deleted_at IS NULL) AS subject_count`).
		Joins("LEFT JOIN teachers t ON t.teacher_id = c.class_teacher_id").
		Joins("LEFT JOIN users u ON u.id = t.teacher_user_id")
}

func baseQuery(db *gorm.DB) *gorm.DB {
	return db.Table("classes c").Where("c.class_deleted_at IS NULL")
}

// GET /api/admin/classes?q=&department=&year=
func (cc *ClassController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "class_code", "asc", helper.AdminOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"class_code":       "c.class_code",
		"class_name":       "c.class_name",
		"class_year":       "c.class_year",
		"class_created_at": "c.class_created_at",
	}, "class_code")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	q := baseQuery(cc.DB.WithContext(c.UserContext()))
	if s := p.Search; s != "" {
		like := "%" + s + "%"
		q = q.Where("c.class_code ILIKE ? OR c.class_name ILIKE ?", like, like)
	}
	if d := strings.TrimSpace(c.Query("department")); d != "" {
		q = q.Where("c.class_department = ?", d)
	}
	if y := c.QueryInt("year"); y > 0 {
		q = q.Where("c.class_year = ?", y)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count classes")
	}
	var rows []dto.ClassDetail
	if err := withDetail(q).Order(order).Limit(p.Limit()).Offset(p.Offset()).Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch classes")
	}
	return helper.JsonList(c, "ok", rows, p.Pagination(total))
}

// GET /api/admin/classes/:id
func (cc *ClassController) Detail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var row dto.ClassDetail
	res := withDetail(baseQuery(cc.DB.WithContext(c.UserContext()))).Where("c.class_id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch class")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
	}
	return helper.JsonOK(c, "ok", row)
}

// POST /api/admin/classes
func (cc *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}
	db := cc.DB.WithContext(c.UserContext())
	if req.ClassTeacherID != nil {
		if err := ensureClassTeacher(db, *req.ClassTeacherID); err != nil {
			return err
		}
	}

	m := req.ToModel()
	if err := db.Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Class code already exists")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Class created", m)
}

// PATCH /api/admin/classes/:id
func (cc *ClassController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}
	db := cc.DB.WithContext(c.UserContext())
	if req.ClassTeacherID != nil {
		if err := ensureClassTeacher(db, *req.ClassTeacherID); err != nil {
			return err
		}
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	res := db.Model(&model.ClassModel{}).Where("class_id = ?", id).Updates(updates)
	if res.Error != nil {
		if helper.IsUniqueViolation(res.Error) {
			return helper.JsonError(c, fiber.StatusConflict, "Class code already exists")
		}
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
	}
	var m model.ClassModel
	_ = db.First(&m, "class_id = ?", id).Error
	return helper.JsonUpdated(c, "Class updated", m)
}

// DELETE /api/admin/classes/:id: ditolak kalau masih ada mahasiswa
func (cc *ClassController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := cc.DB.WithContext(c.UserContext())

	var m model.ClassModel
	if err := db.First(&m, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch class")
	}
	var n int64
	if err := db.Table("students").Where("student_class_id = ? AND student_deleted_at IS NULL", id).Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check students")
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Class still has students")
	}
	if err := db.Delete(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete class")
	}
	return helper.JsonDeleted(c, "Class deleted", fiber.Map{"class_id": id})
}
