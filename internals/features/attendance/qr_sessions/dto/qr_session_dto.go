package dto

import (
	"time"

	"github.com/google/uuid"

	"attendku_backend/internals/features/attendance/qr_sessions/model"
)

type CreateSessionRequest struct {
	SubjectID  uuid.UUID `json:"subject_id" validate:"required"`
	TTLMinutes *int      `json:"ttl_minutes" validate:"omitempty,min=1"`
	Topic      *string   `json:"topic" validate:"omitempty,max=255"`
}

type RefreshSessionRequest struct {
	TTLMinutes *int `json:"ttl_minutes" validate:"omitempty,min=1"`
}

type CloseSessionRequest struct {
	MarkAbsent bool `json:"mark_absent"`
}

// SessionResponse: sesi + payload QR + info mapel.
type SessionResponse struct {
	model.QRSessionModel
	SubjectCode string    `json:"subject_code" gorm:"column:subject_code"`
	SubjectName string    `json:"subject_name" gorm:"column:subject_name"`
	ClassCode   string    `json:"class_code" gorm:"column:class_code"`
	ScanPayload string    `json:"scan_payload,omitempty" gorm:"-"`
	IsOpen      bool      `json:"is_open" gorm:"-"`
	ExpiresIn   int64     `json:"expires_in_seconds" gorm:"-"`
	ServerTime  time.Time `json:"server_time" gorm:"-"`
}

// SessionAttendanceRow: satu baris daftar hadir sesi (termasuk yang belum absen).
type SessionAttendanceRow struct {
	StudentID          uuid.UUID  `json:"student_id" gorm:"column:student_id"`
	StudentRollNumber  string     `json:"student_roll_number" gorm:"column:student_roll_number"`
	FullName           string     `json:"full_name" gorm:"column:full_name"`
	AttendanceID       *uuid.UUID `json:"attendance_id,omitempty" gorm:"column:attendance_id"`
	AttendanceStatus   *string    `json:"attendance_status,omitempty" gorm:"column:attendance_status"`
	AttendanceSource   *string    `json:"attendance_source,omitempty" gorm:"column:attendance_source"`
	AttendanceMarkedAt *time.Time `json:"attendance_marked_at,omitempty" gorm:"column:attendance_marked_at"`
}
