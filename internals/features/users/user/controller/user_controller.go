package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	authHelper "attendku_backend/internals/features/users/auth/helper"
	"attendku_backend/internals/features/users/user/dto"
	"attendku_backend/internals/features/users/user/model"
	"attendku_backend/internals/features/users/user/service"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

// GET /api/admin/users?q=&role=&is_active=&page=&per_page=
func (uc *UserController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "created_at",
		"user_name":  "user_name",
		"full_name":  "full_name",
		"role":       "role",
	}, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	q := uc.DB.WithContext(c.UserContext()).Model(&model.UserModel{})
	if s := p.Search; s != "" {
		like := "%" + s + "%"
		q = q.Where("user_name ILIKE ? OR email ILIKE ? OR full_name ILIKE ?", like, like, like)
	}
	if role := strings.ToLower(strings.TrimSpace(c.Query("role"))); role != "" {
		if !constants.IsValidRole(role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid role filter")
		}
		q = q.Where("role = ?", role)
	}
	switch strings.ToLower(c.Query("is_active")) {
	case "true":
		q = q.Where("is_active = TRUE")
	case "false":
		q = q.Where("is_active = FALSE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}
	var users []model.UserModel
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&users).Error; err != nil {
		log.Println("[ERROR] Failed to fetch users:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve users")
	}
	return helper.JsonList(c, "Users fetched successfully", dto.FromModels(users), p.Pagination(total))
}

// GET /api/admin/users/:id
func (uc *UserController) Detail(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var user model.UserModel
	if err := uc.DB.WithContext(c.UserContext()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(user))
}

// POST /api/admin/users
func (uc *UserController) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}

	user, err := service.CreateUser(uc.DB.WithContext(c.UserContext()), service.NewUser{
		UserName: req.UserName,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email or user name already registered")
		}
		log.Println("[ERROR] create user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}
	log.Printf("[SUCCESS] user %s created with role %s", user.UserName, user.Role)
	return helper.JsonCreated(c, "User created", dto.FromModel(*user))
}

// PATCH /api/admin/users/:id
func (uc *UserController) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Role != nil {
		r := strings.ToLower(strings.TrimSpace(*req.Role))
		req.Role = &r
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}

	updates := map[string]any{}
	if req.UserName != nil {
		updates["user_name"] = strings.TrimSpace(*req.UserName)
	}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Password != nil {
		hash, err := authHelper.HashPassword(*req.Password)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
		}
		updates["password"] = hash
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	db := uc.DB.WithContext(c.UserContext())
	res := db.Model(&model.UserModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	var user model.UserModel
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload user")
	}
	return helper.JsonUpdated(c, "User updated", dto.FromModel(user))
}

// PATCH /api/admin/users/:id/activate | /deactivate
func (uc *UserController) SetActive(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return err
		}
		if me, _ := helperAuth.GetUserIDFromToken(c); me == id && !active {
			return helper.JsonError(c, fiber.StatusBadRequest, "You cannot deactivate your own account")
		}
		res := uc.DB.WithContext(c.UserContext()).Model(&model.UserModel{}).
			Where("id = ?", id).
			Update("is_active", active)
		if res.Error != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update status")
		}
		if res.RowsAffected == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonUpdated(c, "User status updated", fiber.Map{"id": id, "is_active": active})
	}
}

// DELETE /api/admin/users/:id (soft delete)
func (uc *UserController) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if me, _ := helperAuth.GetUserIDFromToken(c); me == id {
		return helper.JsonError(c, fiber.StatusBadRequest, "You cannot delete your own account")
	}
	res := uc.DB.WithContext(c.UserContext()).Delete(&model.UserModel{}, "id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonDeleted(c, "User deleted", fiber.Map{"id": id})
}
