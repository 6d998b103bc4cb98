// file: internals/features/attendance/attendances/model/attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================
   Model: attendances
   Satu baris per (student, subject, tanggal).
========================================= */

type AttendanceModel struct {
	AttendanceID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_id" json:"attendance_id"`

	AttendanceStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_student_subject_date,priority:1;column:attendance_student_id" json:"attendance_student_id"`
	AttendanceSubjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_student_subject_date,priority:2;index:idx_attendance_subject_date,priority:1;column:attendance_subject_id" json:"attendance_subject_id"`
	AttendanceDate      time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_student_subject_date,priority:3;index:idx_attendance_subject_date,priority:2;column:attendance_date" json:"attendance_date"`

	AttendanceClassID   uuid.UUID  `gorm:"type:uuid;not null;index;column:attendance_class_id" json:"attendance_class_id"`
	AttendanceSessionID *uuid.UUID `gorm:"type:uuid;index;column:attendance_session_id" json:"attendance_session_id,omitempty"`

	// present | absent | late | excused
	AttendanceStatus string `gorm:"type:varchar(10);not null;default:'present';check:attendance_status IN ('present','absent','late','excused');column:attendance_status" json:"attendance_status"`
	// qr | manual | request
	AttendanceSource string `gorm:"type:varchar(10);not null;default:'qr';column:attendance_source" json:"attendance_source"`

	AttendanceDeviceID *string    `gorm:"type:varchar(120);column:attendance_device_id" json:"attendance_device_id,omitempty"`
	AttendanceMarkedBy *uuid.UUID `gorm:"type:uuid;column:attendance_marked_by" json:"attendance_marked_by,omitempty"`
	AttendanceMarkedAt time.Time  `gorm:"type:timestamptz;not null;column:attendance_marked_at" json:"attendance_marked_at"`
	AttendanceRemarks  *string    `gorm:"type:text;column:attendance_remarks" json:"attendance_remarks,omitempty"`

	AttendanceCreatedAt time.Time `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`
}

func (AttendanceModel) TableName() string { return "attendances" }

const UniqueAttendanceIndex = "uq_attendance_student_subject_date"
