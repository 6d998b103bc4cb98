// file: internals/features/attendance/requests/model/attendance_request_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================
   Model: attendance_requests
   Izin (leave) atau koreksi presensi (correction).
========================================= */

type AttendanceRequestModel struct {
	AttendanceRequestID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_request_id" json:"attendance_request_id"`

	AttendanceRequestStudentID uuid.UUID  `gorm:"type:uuid;not null;index;column:attendance_request_student_id" json:"attendance_request_student_id"`
	AttendanceRequestClassID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_attendance_requests_class_status,priority:1;column:attendance_request_class_id" json:"attendance_request_class_id"`
	AttendanceRequestSubjectID *uuid.UUID `gorm:"type:uuid;column:attendance_request_subject_id" json:"attendance_request_subject_id,omitempty"`

	// leave | correction
	AttendanceRequestType   string    `gorm:"type:varchar(12);not null;check:attendance_request_type IN ('leave','correction');column:attendance_request_type" json:"attendance_request_type"`
	AttendanceRequestDate   time.Time `gorm:"type:date;not null;column:attendance_request_date" json:"attendance_request_date"`
	AttendanceRequestReason string    `gorm:"type:text;not null;column:attendance_request_reason" json:"attendance_request_reason"`

	AttendanceRequestProofURL *string `gorm:"type:text;column:attendance_request_proof_url" json:"attendance_request_proof_url,omitempty"`

	// pending | approved | rejected
	AttendanceRequestStatus string `gorm:"type:varchar(10);not null;default:'pending';index:idx_attendance_requests_class_status,priority:2;column:attendance_request_status" json:"attendance_request_status"`

	AttendanceRequestReviewedBy *uuid.UUID        `gorm:"type:uuid;column:attendance_request_reviewed_by" json:"attendance_request_reviewed_by,omitempty"`
	AttendanceRequestReviewedAt *time.Time        `gorm:"type:timestamptz;column:attendance_request_reviewed_at" json:"attendance_request_reviewed_at,omitempty"`
	AttendanceRequestRemarks    *string           `gorm:"type:text;column:attendance_request_remarks" json:"attendance_request_remarks,omitempty"`
	AttendanceRequestSnapshot   datatypes.JSONMap `gorm:"type:jsonb;column:attendance_request_snapshot" json:"attendance_request_snapshot,omitempty"`

	AttendanceRequestCreatedAt time.Time      `gorm:"column:attendance_request_created_at;autoCreateTime" json:"attendance_request_created_at"`
	AttendanceRequestUpdatedAt time.Time      `gorm:"column:attendance_request_updated_at;autoUpdateTime" json:"attendance_request_updated_at"`
	AttendanceRequestDeletedAt gorm.DeletedAt `gorm:"column:attendance_request_deleted_at;index" json:"attendance_request_deleted_at,omitempty"`
}

func (AttendanceRequestModel) TableName() string { return "attendance_requests" }
