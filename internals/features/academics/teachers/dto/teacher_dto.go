package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"attendku_backend/internals/features/academics/teachers/model"
)

// NewAccount: dipakai kalau user belum ada (dibuat sekalian).
type NewAccount struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	FullName string `json:"full_name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=class_teacher subject_teacher"`
}

type CreateTeacherRequest struct {
	UserID  *uuid.UUID  `json:"user_id" validate:"required_without=Account"`
	Account *NewAccount `json:"account" validate:"required_without=UserID,omitempty"`

	TeacherEmployeeCode string   `json:"teacher_employee_code" validate:"required,min=2,max=40"`
	TeacherDepartment   *string  `json:"teacher_department" validate:"omitempty,max=120"`
	TeacherDesignation  *string  `json:"teacher_designation" validate:"omitempty,max=120"`
	TeacherPhone        *string  `json:"teacher_phone" validate:"omitempty,max=20"`
	TeacherSubjectCodes []string `json:"teacher_subject_codes" validate:"omitempty,dive,min=1,max=40"`
}

func NormalizeCodes(in []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (r CreateTeacherRequest) ToModel(userID uuid.UUID) model.TeacherModel {
	return model.TeacherModel{
		TeacherUserID:       userID,
		TeacherEmployeeCode: strings.ToUpper(strings.TrimSpace(r.TeacherEmployeeCode)),
		TeacherDepartment:   r.TeacherDepartment,
		TeacherDesignation:  r.TeacherDesignation,
		TeacherPhone:        r.TeacherPhone,
		TeacherSubjectCodes: NormalizeCodes(r.TeacherSubjectCodes),
	}
}

type UpdateTeacherRequest struct {
	TeacherEmployeeCode *string  `json:"teacher_employee_code" validate:"omitempty,min=2,max=40"`
	TeacherDepartment   *string  `json:"teacher_department" validate:"omitempty,max=120"`
	TeacherDesignation  *string  `json:"teacher_designation" validate:"omitempty,max=120"`
	TeacherPhone        *string  `json:"teacher_phone" validate:"omitempty,max=20"`
	TeacherSubjectCodes []string `json:"teacher_subject_codes" validate:"omitempty,dive,min=1,max=40"`
}

func (r UpdateTeacherRequest) Updates() map[string]any {
	u := map[string]any{}
	if r.TeacherEmployeeCode != nil {
		u["teacher_employee_code"] = strings.ToUpper(strings.TrimSpace(*r.TeacherEmployeeCode))
	}
	if r.TeacherDepartment != nil {
		u["teacher_department"] = *r.TeacherDepartment
	}
	if r.TeacherDesignation != nil {
		u["teacher_designation"] = *r.TeacherDesignation
	}
	if r.TeacherPhone != nil {
		u["teacher_phone"] = *r.TeacherPhone
	}
	if r.TeacherSubjectCodes != nil {
		u["teacher_subject_codes"] = NormalizeCodes(r.TeacherSubjectCodes)
	}
	return u
}

type TeacherRow struct {
	model.TeacherModel
	UserName string `json:"user_name" gorm:"column:user_name"`
	FullName string `json:"full_name" gorm:"column:full_name"`
	Email    string `json:"email" gorm:"column:email"`
	Role     string `json:"role" gorm:"column:role"`
	IsActive bool   `json:"is_active" gorm:"column:is_active"`
}
