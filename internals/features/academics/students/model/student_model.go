// file: internals/features/academics/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentModel struct {
	StudentID     uuid.UUID `json:"student_id" gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_id"`
	StudentUserID uuid.UUID `json:"student_user_id" gorm:"type:uuid;not null;uniqueIndex:uq_students_user,where:student_deleted_at IS NULL;column:student_user_id"`

	// NIM / roll number, juga dipakai sebagai identifier login
	StudentRollNumber string    `json:"student_roll_number" gorm:"type:varchar(40);not null;uniqueIndex:uq_students_roll,where:student_deleted_at IS NULL;column:student_roll_number"`
	StudentClassID    uuid.UUID `json:"student_class_id" gorm:"type:uuid;not null;index;column:student_class_id"`

	StudentParentPhone   *string `json:"student_parent_phone,omitempty" gorm:"type:varchar(20);column:student_parent_phone"`
	StudentAdmissionYear *int    `json:"student_admission_year,omitempty" gorm:"column:student_admission_year"`
	StudentIsActive      bool    `json:"student_is_active" gorm:"not null;default:true;column:student_is_active"`

	StudentCreatedAt time.Time      `json:"student_created_at" gorm:"column:student_created_at;autoCreateTime"`
	StudentUpdatedAt time.Time      `json:"student_updated_at" gorm:"column:student_updated_at;autoUpdateTime"`
	StudentDeletedAt gorm.DeletedAt `json:"student_deleted_at,omitempty" gorm:"column:student_deleted_at;index"`
}

func (StudentModel) TableName() string { return "students" }
