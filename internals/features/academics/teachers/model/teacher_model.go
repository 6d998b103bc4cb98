// file: internals/features/academics/teachers/model/teacher_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TeacherModel merepresentasikan tabel teachers (profil dosen/guru yang menempel ke users)
type TeacherModel struct {
	TeacherID     uuid.UUID `json:"teacher_id" gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:teacher_id"`
	TeacherUserID uuid.UUID `json:"teacher_user_id" gorm:"type:uuid;not null;uniqueIndex:uq_teachers_user,where:teacher_deleted_at IS NULL;column:teacher_user_id"`

	TeacherEmployeeCode string         `json:"teacher_employee_code" gorm:"type:varchar(40);not null;uniqueIndex:uq_teachers_employee_code,where:teacher_deleted_at IS NULL;column:teacher_employee_code"`
	TeacherDepartment   *string        `json:"teacher_department,omitempty" gorm:"type:text;column:teacher_department"`
	TeacherDesignation  *string        `json:"teacher_designation,omitempty" gorm:"type:text;column:teacher_designation"`
	TeacherPhone        *string        `json:"teacher_phone,omitempty" gorm:"type:varchar(20);column:teacher_phone"`
	TeacherSubjectCodes pq.StringArray `json:"teacher_subject_codes" gorm:"type:text[];not null;default:'{}';column:teacher_subject_codes"`

	TeacherCreatedAt time.Time      `json:"teacher_created_at" gorm:"column:teacher_created_at;autoCreateTime"`
	TeacherUpdatedAt time.Time      `json:"teacher_updated_at" gorm:"column:teacher_updated_at;autoUpdateTime"`
	TeacherDeletedAt gorm.DeletedAt `json:"teacher_deleted_at,omitempty" gorm:"column:teacher_deleted_at;index"`
}

func (TeacherModel) TableName() string { return "teachers" }
