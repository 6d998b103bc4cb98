// file: internals/helpers/auth/locals.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"attendku_backend/internals/constants"
)

// Nama locals yang diisi middleware AuthJWT
const (
	LocUserID    = "user_id"
	LocRole      = "userRole"
	LocUserName  = "user_name"
	LocStudentID = "student_id"
	LocTeacherID = "teacher_id"
	LocClaims    = "jwt_claims"
)

func localUUID(c *fiber.Ctx, key string) (uuid.UUID, bool) {
	switch t := c.Locals(key).(type) {
	case uuid.UUID:
		return t, t != uuid.Nil
	case string:
		id, err := uuid.Parse(strings.TrimSpace(t))
		if err != nil || id == uuid.Nil {
			return uuid.Nil, false
		}
		return id, true
	default:
		return uuid.Nil, false
	}
}

// Ambil user_id dari c.Locals("user_id").
// Return 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - not logged in")
	}
	id, ok := localUUID(c, LocUserID)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid user ID in token")
	}
	return id, nil
}

// student_id dari token (kosong kalau user bukan student)
func GetStudentIDFromToken(c *fiber.Ctx) (uuid.UUID, bool) {
	return localUUID(c, LocStudentID)
}

// teacher_id dari token (kosong kalau user bukan guru)
func GetTeacherIDFromToken(c *fiber.Ctx) (uuid.UUID, bool) {
	return localUUID(c, LocTeacherID)
}

func GetRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocRole).(string)
	return strings.ToLower(strings.TrimSpace(role))
}

func IsAdmin(c *fiber.Ctx) bool        { return GetRole(c) == constants.RoleAdmin }
func IsStudent(c *fiber.Ctx) bool      { return GetRole(c) == constants.RoleStudent }
func IsClassTeacher(c *fiber.Ctx) bool { return GetRole(c) == constants.RoleClassTeacher }
func IsTeacher(c *fiber.Ctx) bool      { return constants.IsTeacherRole(GetRole(c)) }
