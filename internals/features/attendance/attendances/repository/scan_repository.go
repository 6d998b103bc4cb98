// internals/features/attendance/attendances/repository/scan_repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/features/attendance/attendances/model"
	"attendku_backend/internals/features/attendance/attendances/service"
	qrModel "attendku_backend/internals/features/attendance/qr_sessions/model"
)

// ScanRepo: implementasi GORM untuk service.ScanRepository.
type ScanRepo struct {
	DB *gorm.DB
}

func NewScanRepo(db *gorm.DB) *ScanRepo {
	return &ScanRepo{DB: db}
}

func (r *ScanRepo) FindStudent(ctx context.Context, studentID uuid.UUID) (*service.StudentInfo, error) {
	var row struct {
		StudentID       uuid.UUID `gorm:"column:student_id"`
		StudentClassID  uuid.UUID `gorm:"column:student_class_id"`
		StudentIsActive bool      `gorm:"column:student_is_active"`
	}
	err := r.DB.WithContext(ctx).Table("students").
		Select("student_id, student_class_id, student_is_active").
		Where("student_id = ? AND student_deleted_at IS NULL", studentID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &service.StudentInfo{StudentID: row.StudentID, ClassID: row.StudentClassID, IsActive: row.StudentIsActive}, nil
}

func (r *ScanRepo) FindSessionByToken(ctx context.Context, token string) (*qrModel.QRSessionModel, error) {
	var s qrModel.QRSessionModel
	if err := r.DB.WithContext(ctx).Where("qr_session_token = ?", token).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScanRepo) DeviceUsedByOther(ctx context.Context, sessionID uuid.UUID, deviceID string, studentID uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.AttendanceModel{}).
		Where("attendance_session_id = ? AND attendance_device_id = ? AND attendance_student_id <> ?", sessionID, deviceID, studentID).
		Count(&n).Error
	return n > 0, err
}

func (r *ScanRepo) FindAttendance(ctx context.Context, studentID, subjectID uuid.UUID, date time.Time) (*model.AttendanceModel, error) {
	var a model.AttendanceModel
	err := r.DB.WithContext(ctx).
		Where("attendance_student_id = ? AND attendance_subject_id = ? AND attendance_date = ?", studentID, subjectID, date).
		Take(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ScanRepo) CreateAttendance(ctx context.Context, row *model.AttendanceModel) error {
	return r.DB.WithContext(ctx).Create(row).Error
}
