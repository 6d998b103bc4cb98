// file: internals/features/attendance/qr_sessions/model/qr_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================
   Model: qr_sessions
   Satu sesi presensi QR untuk (subject, tanggal).
========================================= */

type QRSessionModel struct {
	QRSessionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:qr_session_id" json:"qr_session_id"`

	// token yang di-encode ke QR (rotasi lewat refresh)
	QRSessionToken string `gorm:"type:varchar(64);not null;uniqueIndex;column:qr_session_token" json:"qr_session_token"`

	QRSessionSubjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_qr_sessions_subject_date,priority:1;column:qr_session_subject_id" json:"qr_session_subject_id"`
	QRSessionClassID   uuid.UUID `gorm:"type:uuid;not null;index;column:qr_session_class_id" json:"qr_session_class_id"`
	QRSessionTeacherID uuid.UUID `gorm:"type:uuid;not null;index;column:qr_session_teacher_id" json:"qr_session_teacher_id"`

	// tanggal kalender zona kampus
	QRSessionDate       time.Time `gorm:"type:date;not null;index:idx_qr_sessions_subject_date,priority:2;column:qr_session_date" json:"qr_session_date"`
	QRSessionValidUntil time.Time `gorm:"type:timestamptz;not null;column:qr_session_valid_until" json:"qr_session_valid_until"`
	QRSessionIsActive   bool      `gorm:"not null;default:true;column:qr_session_is_active" json:"qr_session_is_active"`

	QRSessionTopic    *string           `gorm:"type:text;column:qr_session_topic" json:"qr_session_topic,omitempty"`
	QRSessionMeta     datatypes.JSONMap `gorm:"type:jsonb;column:qr_session_meta" json:"qr_session_meta,omitempty"`
	QRSessionClosedAt *time.Time        `gorm:"type:timestamptz;column:qr_session_closed_at" json:"qr_session_closed_at,omitempty"`

	QRSessionCreatedAt time.Time      `gorm:"column:qr_session_created_at;autoCreateTime" json:"qr_session_created_at"`
	QRSessionUpdatedAt time.Time      `gorm:"column:qr_session_updated_at;autoUpdateTime" json:"qr_session_updated_at"`
	QRSessionDeletedAt gorm.DeletedAt `gorm:"column:qr_session_deleted_at;index" json:"qr_session_deleted_at,omitempty"`
}

func (QRSessionModel) TableName() string { return "qr_sessions" }

// IsOpenAt: aktif dan belum lewat valid_until.
func (m *QRSessionModel) IsOpenAt(now time.Time) bool {
	return m.QRSessionIsActive && now.Before(m.QRSessionValidUntil)
}
