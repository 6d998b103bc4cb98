package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/academics/students/dto"
	"attendku_backend/internals/features/academics/students/model"
	"attendku_backend/internals/features/academics/students/service"
	userModel "attendku_backend/internals/features/users/user/model"
	userService "attendku_backend/internals/features/users/user/service"
	helper "attendku_backend/internals/helpers"
	"attendku_backend/internals/helpers/excel"
)

type StudentController struct {
	DB *gorm.DB
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid student id")
	}
	return id, nil
}

func ensureClassExists(db *gorm.DB, classID uuid.UUID) error {
	var n int64
	if err := db.Table("classes").
		Where("class_id = ? AND class_deleted_at IS NULL", classID).
		Count(&n).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check class")
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Class not found")
	}
	return nil
}

func baseQuery(db *gorm.DB) *gorm.DB {
	return db.Table("students s").
		Joins("JOIN users u ON u.id = s.student_user_id AND u.deleted_at IS NULL").
		Joins("JOIN classes c ON c.class_id = s.student_class_id").
		Where("s.student_deleted_at IS NULL")
}

const rowSelect = "s.*, u.user_name, u.full_name, u.email, c.class_code, c.class_name"

// GET /api/admin/students?q=&class_id=&is_active=
func (sc *StudentController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "student_roll_number", "asc", helper.AdminOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"student_roll_number": "s.student_roll_number",
		"full_name":           "u.full_name",
		"student_created_at":  "s.student_created_at",
	}, "student_roll_number")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	q := baseQuery(sc.DB.WithContext(c.UserContext()))
	if s := p.Search; s != "" {
		like := "%" + s + "%"
		q = q.Where("u.full_name ILIKE ? OR u.email ILIKE ? OR s.student_roll_number ILIKE ?", like, like, like)
	}
	if v := strings.TrimSpace(c.Query("class_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "class_id tidak valid")
		}
		q = q.Where("s.student_class_id = ?", id)
	}
	if v := strings.TrimSpace(c.Query("is_active")); v != "" {
		q = q.Where("s.student_is_active = ?", v == "true" || v == "1")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count students")
	}
	var rows []dto.StudentRow
	if err := q.Select(rowSelect).Order(order).Limit(p.Limit()).Offset(p.Offset()).Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}
	return helper.JsonList(c, "ok", rows, p.Pagination(total))
}

// GET /api/admin/students/:id
func (sc *StudentController) Detail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var row dto.StudentRow
	res := baseQuery(sc.DB.WithContext(c.UserContext())).Select(rowSelect).Where("s.student_id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch student")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	return helper.JsonOK(c, "ok", row)
}

// POST /api/admin/students
func (sc *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}

	var created model.StudentModel
	err := sc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := ensureClassExists(tx, req.StudentClassID); err != nil {
			return err
		}

		var userID uuid.UUID
		if req.UserID != nil {
			var u userModel.UserModel
			if err := tx.First(&u, "id = ?", *req.UserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusBadRequest, "user_id not found")
				}
				return err
			}
			if u.Role != constants.RoleStudent {
				return fiber.NewError(fiber.StatusBadRequest, "User role must be student")
			}
			userID = u.ID
		} else {
			roll := strings.ToUpper(strings.TrimSpace(req.StudentRollNumber))
			password := roll
			if req.Password != nil && *req.Password != "" {
				password = *req.Password
			}
			u, err := userService.CreateUser(tx, userService.NewUser{
				UserName: strings.ToLower(roll),
				FullName: *req.FullName,
				Email:    *req.Email,
				Password: password,
				Role:     constants.RoleStudent,
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
			return helper.JsonError(c, fiber.StatusConflict, "Roll number, email or user already registered")
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "Student created", created)
}

// PATCH /api/admin/students/:id
func (sc *StudentController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStudentRequest
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

	db := sc.DB.WithContext(c.UserContext())
	if req.StudentClassID != nil {
		if err := ensureClassExists(db, *req.StudentClassID); err != nil {
			return err
		}
	}
	res := db.Model(&model.StudentModel{}).Where("student_id = ?", id).Updates(updates)
	if res.Error != nil {
		if helper.IsUniqueViolation(res.Error) {
			return helper.JsonError(c, fiber.StatusConflict, "Roll number already exists")
		}
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	var m model.StudentModel
	_ = db.First(&m, "student_id = ?", id).Error
	return helper.JsonUpdated(c, "Student updated", m)
}

// DELETE /api/admin/students/:id (soft delete, riwayat absensi tetap)
func (sc *StudentController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	res := sc.DB.WithContext(c.UserContext()).Delete(&model.StudentModel{}, "student_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete student")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	return helper.JsonDeleted(c, "Student deleted", fiber.Map{"student_id": id})
}

// POST /api/admin/students/import (multipart, field "file")
func (sc *StudentController) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File xlsx wajib diunggah (field: file)")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, "Only .xlsx files are supported")
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gagal membuka file")
	}
	defer f.Close()

	rows, bad, err := service.ParseRoster(f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	res, err := service.ImportRoster(c.UserContext(), sc.DB, rows)
	if err != nil {
		log.Printf("[IMPORT] roster aborted after %d rows: %v", res.Imported, err)
		return helper.JsonError(c, fiber.StatusInternalServerError,
			fmt.Sprintf("Import stopped by a database error after %d imported rows", res.Imported))
	}
	res.Errors = append(bad, res.Errors...)
	return helper.JsonOK(c, "Import finished", res)
}

// GET /api/admin/students/import/template
func (sc *StudentController) ImportTemplate(c *fiber.Ctx) error {
	f, err := service.RosterTemplate()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build template")
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build template")
	}
	return excel.Send(c, "roster_template.xlsx", buf)
}
