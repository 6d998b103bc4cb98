package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// --- PG error mapping ---
// pgx (*pgconn.PgError) dan lib/pq sama-sama expose SQLState().
type pgSQLErr interface {
	SQLState() string
	Error() string
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func sqlState(err error) string {
	var pgErr pgSQLErr
	if errors.As(err, &pgErr) {
		return pgErr.SQLState()
	}
	return ""
}

// IsUniqueViolation: 23505, dengan fallback string untuk error yang sudah dibungkus.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if sqlState(err) == pgUniqueViolation {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "sqlstate 23505")
}

// IsUniqueViolationOn: sama, tapi hanya untuk index/constraint tertentu.
func IsUniqueViolationOn(err error, constraint string) bool {
	return IsUniqueViolation(err) && strings.Contains(err.Error(), constraint)
}

func MapPGError(err error) (int, string) {
	switch {
	case IsUniqueViolation(err):
		return fiber.StatusConflict, "Data duplikat (unique violation)."
	case sqlState(err) == pgForeignKeyViolation:
		return fiber.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
	case sqlState(err) == pgCheckViolation:
		return fiber.StatusBadRequest, "Nilai tidak valid (check violation)."
	}
	return fiber.StatusInternalServerError, "Database error"
}

func WritePGError(c *fiber.Ctx, err error) error {
	code, msg := MapPGError(err)
	return JsonError(c, code, msg)
}
