// file: internals/features/academics/subjects/model/subject_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/helpers/dbtime"
)

type SubjectModel struct {
	SubjectID   uuid.UUID `json:"subject_id" gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:subject_id"`
	SubjectCode string    `json:"subject_code" gorm:"type:varchar(40);not null;uniqueIndex:uq_subjects_class_code,where:subject_deleted_at IS NULL;column:subject_code"`
	SubjectName string    `json:"subject_name" gorm:"type:text;not null;column:subject_name"`

	SubjectClassID   uuid.UUID  `json:"subject_class_id" gorm:"type:uuid;not null;index;uniqueIndex:uq_subjects_class_code,where:subject_deleted_at IS NULL;column:subject_class_id"`
	SubjectTeacherID *uuid.UUID `json:"subject_teacher_id,omitempty" gorm:"type:uuid;index;column:subject_teacher_id"`
	SubjectCredits   int        `json:"subject_credits" gorm:"not null;default:3;column:subject_credits"`

	// jadwal mingguan (opsional): 1=Senin ... 7=Minggu
	SubjectDayOfWeek *int        `json:"subject_day_of_week,omitempty" gorm:"column:subject_day_of_week;check:subject_day_of_week BETWEEN 1 AND 7"`
	SubjectStartTime *dbtime.Tod `json:"subject_start_time,omitempty" gorm:"type:time;column:subject_start_time"`
	SubjectEndTime   *dbtime.Tod `json:"subject_end_time,omitempty" gorm:"type:time;column:subject_end_time"`
	SubjectRoom      *string     `json:"subject_room,omitempty" gorm:"type:text;column:subject_room"`

	SubjectCreatedAt time.Time      `json:"subject_created_at" gorm:"column:subject_created_at;autoCreateTime"`
	SubjectUpdatedAt time.Time      `json:"subject_updated_at" gorm:"column:subject_updated_at;autoUpdateTime"`
	SubjectDeletedAt gorm.DeletedAt `json:"subject_deleted_at,omitempty" gorm:"column:subject_deleted_at;index"`
}

func (SubjectModel) TableName() string { return "subjects" }
