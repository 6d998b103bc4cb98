package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Filter struct {
	ClassID   uuid.UUID
	StudentID *uuid.UUID
	SubjectID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// LoadStats: held = tanggal sesi distinct per subject; attended/excused/absent
// dihitung dari baris presensi pada tanggal-tanggal tersebut.
func LoadStats(ctx context.Context, db *gorm.DB, f Filter) ([]StatRow, error) {
	db = db.WithContext(ctx)
	held := db.Table("qr_sessions").
		Select("DISTINCT qr_session_subject_id AS subject_id, qr_session_date AS d").
		Where("qr_session_class_id = ? AND qr_session_deleted_at IS NULL", f.ClassID)
	if f.From != nil {
		held = held.Where("qr_session_date >= ?", *f.From)
	}
	if f.To != nil {
		held = held.Where("qr_session_date <= ?", *f.To)
	}

	q := db.Table("students st").
		Select(`st.student_id, st.student_roll_number, u.full_name AS student_name,
			sb.subject_id, sb.subject_code, sb.subject_name,
			COUNT(DISTINCT h.d) AS held,
			COUNT(a.attendance_id) FILTER (WHERE a.attendance_status IN ('present','late')) AS attended,
			COUNT(a.attendance_id) FILTER (WHERE a.attendance_status = 'excused') AS excused,
			COUNT(a.attendance_id) FILTER (WHERE a.attendance_status = 'absent') AS absent`).
		Joins("JOIN users u ON u.id = st.student_user_id").
		Joins("JOIN subjects sb ON sb.subject_class_id = st.student_class_id AND sb.subject_deleted_at IS NULL").
		Joins("LEFT JOIN (?) h ON h.subject_id = sb.subject_id", held).
		Joins(`LEFT JOIN attendances a ON a.attendance_student_id = st.student_id
			AND a.attendance_subject_id = sb.subject_id AND a.attendance_date = h.d`).
		Where("st.student_class_id = ? AND st.student_deleted_at IS NULL", f.ClassID)

	if f.StudentID != nil {
		q = q.Where("st.student_id = ?", *f.StudentID)
	}
	if f.SubjectID != nil {
		q = q.Where("sb.subject_id = ?", *f.SubjectID)
	}

	var rows []StatRow
	err := q.Group("st.student_id, st.student_roll_number, u.full_name, sb.subject_id, sb.subject_code, sb.subject_name").
		Order("st.student_roll_number ASC, sb.subject_code ASC").
		Scan(&rows).Error
	return rows, err
}
