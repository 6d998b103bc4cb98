package dto

import (
	"strings"

	"github.com/google/uuid"

	"attendku_backend/internals/features/academics/classes/model"
)

type CreateClassRequest struct {
	ClassCode       string     `json:"class_code" validate:"required,min=2,max=40"`
	ClassName       string     `json:"class_name" validate:"required,min=2,max=120"`
	ClassDepartment *string    `json:"class_department" validate:"omitempty,max=120"`
	ClassYear       int        `json:"class_year" validate:"omitempty,min=1,max=8"`
	ClassSemester   int        `json:"class_semester" validate:"omitempty,min=1,max=16"`
	ClassSection    *string    `json:"class_section" validate:"omitempty,max=10"`
	ClassTeacherID  *uuid.UUID `json:"class_teacher_id"`
}

func (r CreateClassRequest) ToModel() model.ClassModel {
	m := model.ClassModel{
		ClassCode:       strings.ToUpper(strings.TrimSpace(r.ClassCode)),
		ClassName:       strings.TrimSpace(r.ClassName),
		ClassDepartment: r.ClassDepartment,
		ClassYear:       r.ClassYear,
		ClassSemester:   r.ClassSemester,
		ClassSection:    r.ClassSection,
		ClassTeacherID:  r.ClassTeacherID,
		ClassIsActive:   true,
	}
	if m.ClassYear == 0 {
		m.ClassYear = 1
	}
	if m.ClassSemester == 0 {
		m.ClassSemester = 1
	}
	return m
}

type UpdateClassRequest struct {
	ClassCode       *string    `json:"class_code" validate:"omitempty,min=2,max=40"`
	ClassName       *string    `json:"class_name" validate:"omitempty,min=2,max=120"`
	ClassDepartment *string    `json:"class_department" validate:"omitempty,max=120"`
	ClassYear       *int       `json:"class_year" validate:"omitempty,min=1,max=8"`
	ClassSemester   *int       `json:"class_semester" validate:"omitempty,min=1,max=16"`
	ClassSection    *string    `json:"class_section" validate:"omitempty,max=10"`
	ClassTeacherID  *uuid.UUID `json:"class_teacher_id"`
	ClearTeacher    bool       `json:"clear_class_teacher"`
	ClassIsActive   *bool      `json:"class_is_active"`
}

func (r UpdateClassRequest) Updates() map[string]any {
	u := map[string]any{}
	if r.ClassCode != nil {
		u["class_code"] = strings.ToUpper(strings.TrimSpace(*r.ClassCode))
	}
	if r.ClassName != nil {
		u["class_name"] = strings.TrimSpace(*r.ClassName)
	}
	if r.ClassDepartment != nil {
		u["class_department"] = *r.ClassDepartment
	}
	if r.ClassYear != nil {
		u["class_year"] = *r.ClassYear
	}
	if r.ClassSemester != nil {
		u["class_semester"] = *r.ClassSemester
	}
	if r.ClassSection != nil {
		u["class_section"] = *r.ClassSection
	}
	if r.ClassTeacherID != nil {
		u["class_teacher_id"] = *r.ClassTeacherID
	} else if r.ClearTeacher {
		u["class_teacher_id"] = nil
	}
	if r.ClassIsActive != nil {
		u["class_is_active"] = *r.ClassIsActive
	}
	return u
}

type ClassDetail struct {
	model.ClassModel
	ClassTeacherName *string `json:"class_teacher_name,omitempty" gorm:"column:class_teacher_name"`
	StudentCount     int64   `json:"student_count" gorm:"column:student_count"`
	SubjectCount     int64   `json:"subject_count" gorm:"column:subject_count"`
}
