package service

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"attendku_backend/internals/features/attendance/attendances/model"
)

// Upsert: satu baris per (student, subject, date); baris lama ditimpa.
// Dipakai presensi manual dosen dan approval pengajuan.
func Upsert(tx *gorm.DB, row *model.AttendanceModel) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "attendance_student_id"},
			{Name: "attendance_subject_id"},
			{Name: "attendance_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"attendance_status",
			"attendance_source",
			"attendance_session_id",
			"attendance_marked_by",
			"attendance_marked_at",
			"attendance_remarks",
			"attendance_updated_at",
		}),
	}).Create(row).Error
}
