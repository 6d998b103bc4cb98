package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/academics/teachers/dto"
	"attendku_backend/internals/features/academics/teachers/model"
	userModel "attendku_backend/internals/features/users/user/model"
	userService "attendku_backend/internals/features/users/user/service"
	helper "attendku_backend/internals/helpers"
)

type TeacherController struct {
	DB *gorm.DB
}

func NewTeacherController(db *gorm.DB) *TeacherController {
	return &TeacherController{DB: db}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid teacher id")
	}
	return id, nil
}

func baseQuery(db *gorm.DB) *gorm.DB {
	return db.Table("teachers t").
		Joins("JOIN users u ON u.id = t.teacher_user_id AND u.deleted_at IS NULL").
		Where("t.teacher_deleted_at IS NULL")
}

const rowSelect = "t.*, u.user_name, u.full_name, u.email, u.role, u.is_active"

// GET /api/admin/teachers?q=&department=&subject_code=
func (tc *TeacherController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "full_name", "asc", helper.AdminOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"full_name":             "u.full_name",
		"teacher_employee_code": "t.teacher_employee_code",
		"teacher_created_at":    "t.teacher_created_at",
	}, "full_name")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	q := baseQuery(tc.DB.WithContext(c.UserContext()))
	if s := p.Search; s != "" {
		like := "%" + s + "%"
		q = q.Where("u.full_name ILIKE ? OR u.email ILIKE ? OR t.teacher_employee_code ILIKE ?", like, like, like)
	}
	if d := strings.TrimSpace(c.Query("department")); d != "" {
		q = q.Where("t.teacher_department = ?", d)
	}
	if code := strings.ToUpper(strings.TrimSpace(c.Query("subject_code"))); code != "" {
		q = q.Where("? = ANY(t.teacher_subject_codes)", code)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count teachers")
	}
	var rows []dto.TeacherRow
	if err := q.Select(rowSelect).Order(order).Limit(p.Limit()).Offset(p.Offset()).Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch teachers")
	}
	return helper.JsonList(c, "ok", rows, p.Pagination(total))
}

// GET /api/admin/teachers/:id
func (tc *TeacherController) Detail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var row dto.TeacherRow
	res := baseQuery(tc.DB.WithContext(c.UserContext())).Select(rowSelect).Where("t.teacher_id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch teacher")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
	}
	return helper.JsonOK(c, "ok", row)
}

// POST /api/admin/teachers: link user yang ada (user_id) atau buat akun baru (account)
func (tc *TeacherController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Account != nil {
		req.Account.Role = strings.ToLower(strings.TrimSpace(req.Account.Role))
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}

	var created model.TeacherModel
	err := tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var userID uuid.UUID
		if req.UserID != nil {
			var u userModel.UserModel
			if err := tx.First(&u, "id = ?", *req.UserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusBadRequest, "user_id not found")
				}
				return err
			}
			if !constants.IsTeacherRole(u.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "User role must be class_teacher or subject_teacher")
			}
			userID = u.ID
		} else {
			u, err := userService.CreateUser(tx, userService.NewUser{
				UserName: req.Account.UserName,
				FullName: req.Account.FullName,
				Email:    req.Account.Email,
				Password: req.Account.Password,
				Role:     req.Account.Role,
			})
			if err != nil {
				return err
			}
			userID = u.ID
		}

		created = req.ToModel(userID)
		return tx.Create(&created).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Teacher, employee code, email or user name already exists")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Teacher created", created)
}

// PATCH /api/admin/teachers/:id
func (tc *TeacherController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	db := tc.DB.WithContext(c.UserContext())
	res := db.Model(&model.TeacherModel{}).Where("teacher_id = ?", id).Updates(updates)
	if res.Error != nil {
		if helper.IsUniqueViolation(res.Error) {
			return helper.JsonError(c, fiber.StatusConflict, "Employee code already exists")
		}
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
	}
	var m model.TeacherModel
	_ = db.First(&m, "teacher_id = ?", id).Error
	return helper.JsonUpdated(c, "Teacher updated", m)
}

// DELETE /api/admin/teachers/:id: lepas dari kelas & mapel dulu
func (tc *TeacherController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.TeacherModel{}, "teacher_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Table("classes").Where("class_teacher_id = ?", id).Update("class_teacher_id", nil).Error; err != nil {
			return err
		}
		return tx.Table("subjects").Where("subject_teacher_id = ?", id).Update("subject_teacher_id", nil).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Teacher not found")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete teacher")
	}
	return helper.JsonDeleted(c, "Teacher deleted", fiber.Map{"teacher_id": id})
}
