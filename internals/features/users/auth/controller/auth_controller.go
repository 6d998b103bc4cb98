package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/configs"
	classModel "attendku_backend/internals/features/academics/classes/model"
	studentModel "attendku_backend/internals/features/academics/students/model"
	teacherModel "attendku_backend/internals/features/academics/teachers/model"
	"attendku_backend/internals/features/users/auth/dto"
	authHelper "attendku_backend/internals/features/users/auth/helper"
	authRepo "attendku_backend/internals/features/users/auth/repository"
	"attendku_backend/internals/features/users/auth/service"
	userModel "attendku_backend/internals/features/users/user/model"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
)

type AuthController struct {
	DB  *gorm.DB
	Svc *service.AuthService
}

func NewAuthController(db *gorm.DB) *AuthController {
	svc := service.NewAuthService(
		authRepo.NewAuthRepo(db, configs.JWTSecret),
		service.TokenIssuer{
			AccessSecret:  configs.JWTSecret,
			RefreshSecret: configs.JWTRefreshSecret,
			AccessTTL:     configs.AccessTTL,
			RefreshTTL:    configs.RefreshTTL,
		},
		service.GoogleVerifier(configs.GoogleClientID),
	)
	return &AuthController{DB: db, Svc: svc}
}

func clientInfo(c *fiber.Ctx) service.ClientInfo {
	return service.ClientInfo{UserAgent: c.Get(fiber.HeaderUserAgent), IP: c.IP()}
}

// mapAuthError: sentinel error service → status HTTP
func mapAuthError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAccountInactive):
		return helper.JsonError(c, fiber.StatusForbidden, "Account is inactive. Contact the administrator.")
	case errors.Is(err, service.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "No account registered for this email")
	case errors.Is(err, service.ErrRefreshInvalid):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid or expired")
	case errors.Is(err, service.ErrWrongPassword):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Current password incorrect")
	case errors.Is(err, service.ErrGoogleToken):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID Token")
	case errors.Is(err, service.ErrGoogleDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Google login is not configured")
	default:
		log.Printf("[AUTH] unexpected error: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func setRefreshCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.CookieRefreshToken,
		Value:    token,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/api/auth",
		Expires:  expires,
	})
}

func clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.CookieRefreshToken,
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/api/auth",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})
}

func writeTokens(c *fiber.Ctx, msg string, res *service.LoginResult) error {
	setRefreshCookie(c, res.Tokens.RefreshToken, res.Tokens.RefreshExpiresAt)
	return helper.JsonOK(c, msg, fiber.Map{
		"access_token":  res.Tokens.AccessToken,
		"refresh_token": res.Tokens.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    int64(time.Until(res.Tokens.AccessExpiresAt).Seconds()),
		"user":          res.User,
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	identifier := strings.TrimSpace(req.ResolvedIdentifier())
	if err := authHelper.ValidateLoginInput(identifier, req.Password); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := ac.Svc.Login(c.UserContext(), identifier, req.Password, clientInfo(c))
	if err != nil {
		return mapAuthError(c, err)
	}
	return writeTokens(c, "Login successful", res)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.LoginGoogleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.IDToken) == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "id_token is required")
	}

	res, err := ac.Svc.LoginGoogle(c.UserContext(), req.IDToken, clientInfo(c))
	if err != nil {
		return mapAuthError(c, err)
	}
	return writeTokens(c, "Login successful", res)
}

// POST /api/auth/refresh-token
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	raw := helper.GetRefreshToken(c)
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token is missing")
	}
	res, err := ac.Svc.Refresh(c.UserContext(), raw, clientInfo(c))
	if err != nil {
		if errors.Is(err, service.ErrRefreshInvalid) {
			clearRefreshCookie(c)
		}
		return mapAuthError(c, err)
	}
	return writeTokens(c, "Token refreshed", res)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	access := helper.GetRawAccessToken(c)
	refresh := helper.GetRefreshToken(c)

	if err := ac.Svc.Logout(c.UserContext(), access, refresh); err != nil {
		log.Printf("[AUTH] logout: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to logout")
	}
	clearRefreshCookie(c)
	return helper.JsonOK(c, "Logout successful", nil)
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}
	if err := authHelper.ValidateNewPassword(req.CurrentPassword, req.NewPassword); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := ac.Svc.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return mapAuthError(c, err)
	}
	return helper.JsonUpdated(c, "Password changed successfully", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ac.DB.WithContext(c.UserContext())

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	out := fiber.Map{"user": user}

	var st studentModel.StudentModel
	if err := db.Where("student_user_id = ?", userID).Take(&st).Error; err == nil {
		var cls classModel.ClassModel
		_ = db.Select("class_id, class_code, class_name, class_year, class_semester, class_section").
			Take(&cls, "class_id = ?", st.StudentClassID).Error
		out["student"] = st
		out["class"] = cls
	}

	var tc teacherModel.TeacherModel
	if err := db.Where("teacher_user_id = ?", userID).Take(&tc).Error; err == nil {
		var homeClasses []classModel.ClassModel
		_ = db.Where("class_teacher_id = ?", tc.TeacherID).Order("class_code ASC").Find(&homeClasses).Error
		out["teacher"] = tc
		out["home_classes"] = homeClasses
	}

	return helper.JsonOK(c, "ok", out)
}

// PATCH /api/auth/me
func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if failed, resp := helper.ValidateStruct(c, &req); failed {
		return resp
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.UserName != nil {
		updates["user_name"] = strings.TrimSpace(*req.UserName)
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ac.DB.WithContext(c.UserContext()).Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "Profile updated", updates)
}
