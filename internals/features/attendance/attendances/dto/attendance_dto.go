package dto

import (
	"time"

	"github.com/google/uuid"

	"attendku_backend/internals/features/attendance/attendances/model"
)

type ScanRequest struct {
	Token    string `json:"token" validate:"required,max=2048"`
	DeviceID string `json:"device_id" validate:"omitempty,max=120"`
}

type ManualMarkRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=present absent late excused"`
	Remarks   *string   `json:"remarks" validate:"omitempty,max=500"`
}

// Bulk: beberapa mahasiswa sekaligus
type ManualBulkRequest struct {
	Items []ManualMarkRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

type AttendanceHistoryRow struct {
	model.AttendanceModel
	SubjectCode string `json:"subject_code" gorm:"column:subject_code"`
	SubjectName string `json:"subject_name" gorm:"column:subject_name"`
}

type ScanResponse struct {
	AttendanceID uuid.UUID `json:"attendance_id"`
	SubjectID    uuid.UUID `json:"subject_id"`
	SubjectCode  string    `json:"subject_code,omitempty"`
	SubjectName  string    `json:"subject_name,omitempty"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	MarkedAt     time.Time `json:"marked_at"`
}
