// file: internals/features/academics/classes/model/class_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassModel: satu rombel/section (mis. "CSE-2A").
type ClassModel struct {
	ClassID   uuid.UUID `json:"class_id" gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:class_id"`
	ClassCode string    `json:"class_code" gorm:"type:varchar(40);not null;uniqueIndex:uq_classes_code,where:class_deleted_at IS NULL;column:class_code"`
	ClassName string    `json:"class_name" gorm:"type:text;not null;column:class_name"`

	ClassDepartment *string `json:"class_department,omitempty" gorm:"type:text;column:class_department"`
	ClassYear       int     `json:"class_year" gorm:"not null;default:1;column:class_year"`
	ClassSemester   int     `json:"class_semester" gorm:"not null;default:1;column:class_semester"`
	ClassSection    *string `json:"class_section,omitempty" gorm:"type:varchar(10);column:class_section"`

	// wali kelas (teachers.teacher_id)
	ClassTeacherID *uuid.UUID `json:"class_teacher_id,omitempty" gorm:"type:uuid;index;column:class_teacher_id"`
	ClassIsActive  bool       `json:"class_is_active" gorm:"not null;default:true;column:class_is_active"`

	ClassCreatedAt time.Time      `json:"class_created_at" gorm:"column:class_created_at;autoCreateTime"`
	ClassUpdatedAt time.Time      `json:"class_updated_at" gorm:"column:class_updated_at;autoUpdateTime"`
	ClassDeletedAt gorm.DeletedAt `json:"class_deleted_at,omitempty" gorm:"column:class_deleted_at;index"`
}

func (ClassModel) TableName() string { return "classes" }
