package dto

import (
	"strings"

	"github.com/google/uuid"

	"attendku_backend/internals/features/academics/students/model"
)

type CreateStudentRequest struct {
	// link user yang sudah ada …
	UserID *uuid.UUID `json:"user_id"`
	// … atau buat akun baru (password default = roll number)
	FullName *string `json:"full_name" validate:"required_without=UserID,omitempty,min=2,max=120"`
	Email    *string `json:"email" validate:"required_without=UserID,omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`

	StudentRollNumber    string    `json:"student_roll_number" validate:"required,min=2,max=40"`
	StudentClassID       uuid.UUID `json:"student_class_id" validate:"required"`
	StudentParentPhone   *string   `json:"student_parent_phone" validate:"omitempty,max=20"`
	StudentAdmissionYear *int      `json:"student_admission_year" validate:"omitempty,min=1990,max=2100"`
}

func (r CreateStudentRequest) ToModel(userID uuid.UUID) model.StudentModel {
	return model.StudentModel{
		StudentUserID:        userID,
		StudentRollNumber:    strings.ToUpper(strings.TrimSpace(r.StudentRollNumber)),
		StudentClassID:       r.StudentClassID,
		StudentParentPhone:   r.StudentParentPhone,
		StudentAdmissionYear: r.StudentAdmissionYear,
		StudentIsActive:      true,
	}
}

type UpdateStudentRequest struct {
	StudentRollNumber    *string    `json:"student_roll_number" validate:"omitempty,min=2,max=40"`
	StudentClassID       *uuid.UUID `json:"student_class_id"`
	StudentParentPhone   *string    `json:"student_parent_phone" validate:"omitempty,max=20"`
	StudentAdmissionYear *int       `json:"student_admission_year" validate:"omitempty,min=1990,max=2100"`
	StudentIsActive      *bool      `json:"student_is_active"`
}

func (r UpdateStudentRequest) Updates() map[string]any {
	u := map[string]any{}
	if r.StudentRollNumber != nil {
		u["student_roll_number"] = strings.ToUpper(strings.TrimSpace(*r.StudentRollNumber))
	}
	if r.StudentClassID != nil {
		u["student_class_id"] = *r.StudentClassID
	}
	if r.StudentParentPhone != nil {
		u["student_parent_phone"] = *r.StudentParentPhone
	}
	if r.StudentAdmissionYear != nil {
		u["student_admission_year"] = *r.StudentAdmissionYear
	}
	if r.StudentIsActive != nil {
		u["student_is_active"] = *r.StudentIsActive
	}
	return u
}

type StudentRow struct {
	model.StudentModel
	UserName  string `json:"user_name" gorm:"column:user_name"`
	FullName  string `json:"full_name" gorm:"column:full_name"`
	Email     string `json:"email" gorm:"column:email"`
	ClassCode string `json:"class_code" gorm:"column:class_code"`
	ClassName string `json:"class_name" gorm:"column:class_name"`
}
