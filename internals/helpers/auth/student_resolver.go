package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Coba dari token dulu (claim student_id), kalau nggak ada → fallback ke DB.
func GetStudentIDSmart(c *fiber.Ctx, db *gorm.DB) (uuid.UUID, error) {
	if sid, ok := GetStudentIDFromToken(c); ok {
		return sid, nil
	}
	userID, err := GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, err
	}
	if db == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusInternalServerError, "DB context not available")
	}

	var row struct {
		StudentID uuid.UUID `gorm:"column:student_id"`
	}
	err = db.WithContext(c.UserContext()).
		Table("students").
		Select("student_id").
		Where("student_user_id = ? AND student_deleted_at IS NULL", userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "No student record linked to this account")
	}
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to resolve student")
	}
	return row.StudentID, nil
}

// Versi guru: claim teacher_id, fallback ke tabel teachers.
func GetTeacherIDSmart(c *fiber.Ctx, db *gorm.DB) (uuid.UUID, error) {
	if tid, ok := GetTeacherIDFromToken(c); ok {
		return tid, nil
	}
	userID, err := GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, err
	}
	if db == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusInternalServerError, "DB context not available")
	}

	var row struct {
		TeacherID uuid.UUID `gorm:"column:teacher_id"`
	}
	err = db.WithContext(c.UserContext()).
		Table("teachers").
		Select("teacher_id").
		Where("teacher_user_id = ? AND teacher_deleted_at IS NULL", userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "No teacher record linked to this account")
	}
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to resolve teacher")
	}
	return row.TeacherID, nil
}

// IsClassTeacherOf: teacherID adalah wali kelas classID. Error DB dikembalikan
// apa adanya (bukan dianggap "bukan wali kelas").
func IsClassTeacherOf(db *gorm.DB, classID, teacherID uuid.UUID) (bool, error) {
	var n int64
	err := db.Table("classes").
		Where("class_id = ? AND class_teacher_id = ? AND class_deleted_at IS NULL", classID, teacherID).
		Count(&n).Error
	return n > 0, err
}
