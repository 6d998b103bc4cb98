package dto

import (
	"time"

	"github.com/google/uuid"

	"attendku_backend/internals/features/attendance/requests/model"
)

// JSON atau multipart (field file: "proof")
type CreateRequest struct {
	Type      string `json:"type" form:"type" validate:"required,oneof=leave correction"`
	Date      string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	SubjectID string `json:"subject_id" form:"subject_id" validate:"omitempty,uuid"`
	Reason    string `json:"reason" form:"reason" validate:"required,min=3,max=1000"`
}

type DecideRequest struct {
	Remarks *string `json:"remarks" validate:"omitempty,max=500"`
}

type RequestRow struct {
	model.AttendanceRequestModel
	StudentRollNumber string  `json:"student_roll_number" gorm:"column:student_roll_number"`
	StudentName       string  `json:"student_name" gorm:"column:student_name"`
	SubjectCode       *string `json:"subject_code,omitempty" gorm:"column:subject_code"`
	SubjectName       *string `json:"subject_name,omitempty" gorm:"column:subject_name"`
}

type DecisionResult struct {
	Request        model.AttendanceRequestModel `json:"request"`
	AffectedRows   int                          `json:"affected_rows"`
	AffectedSubIDs []uuid.UUID                  `json:"affected_subject_ids,omitempty"`
	DecidedAt      time.Time                    `json:"decided_at"`
}
