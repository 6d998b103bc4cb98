package dto

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"attendku_backend/internals/features/academics/subjects/model"
	"attendku_backend/internals/helpers/dbtime"
)

type CreateSubjectRequest struct {
	SubjectCode      string     `json:"subject_code" validate:"required,min=2,max=40"`
	SubjectName      string     `json:"subject_name" validate:"required,min=2,max=160"`
	SubjectClassID   uuid.UUID  `json:"subject_class_id" validate:"required"`
	SubjectTeacherID *uuid.UUID `json:"subject_teacher_id"`
	SubjectCredits   int        `json:"subject_credits" validate:"omitempty,min=1,max=10"`
	SubjectDayOfWeek *int       `json:"subject_day_of_week" validate:"omitempty,min=1,max=7"`
	SubjectStartTime *string    `json:"subject_start_time" validate:"omitempty,datetime=15:04"`
	SubjectEndTime   *string    `json:"subject_end_time" validate:"omitempty,datetime=15:04"`
	SubjectRoom      *string    `json:"subject_room" validate:"omitempty,max=60"`
}

var ErrScheduleOrder = errors.New("subject_end_time must be after subject_start_time")

func parseTodPtr(s *string) (*dbtime.Tod, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := dbtime.ParseTod(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r CreateSubjectRequest) ToModel() (model.SubjectModel, error) {
	start, err := parseTodPtr(r.SubjectStartTime)
	if err != nil {
		return model.SubjectModel{}, err
	}
	end, err := parseTodPtr(r.SubjectEndTime)
	if err != nil {
		return model.SubjectModel{}, err
	}
	if start != nil && end != nil && !start.Before(*end) {
		return model.SubjectModel{}, ErrScheduleOrder
	}
	credits := r.SubjectCredits
	if credits == 0 {
		credits = 3
	}
	return model.SubjectModel{
		SubjectCode:      strings.ToUpper(strings.TrimSpace(r.SubjectCode)),
		SubjectName:      strings.TrimSpace(r.SubjectName),
		SubjectClassID:   r.SubjectClassID,
		SubjectTeacherID: r.SubjectTeacherID,
		SubjectCredits:   credits,
		SubjectDayOfWeek: r.SubjectDayOfWeek,
		SubjectStartTime: start,
		SubjectEndTime:   end,
		SubjectRoom:      r.SubjectRoom,
	}, nil
}

type UpdateSubjectRequest struct {
	SubjectCode      *string    `json:"subject_code" validate:"omitempty,min=2,max=40"`
	SubjectName      *string    `json:"subject_name" validate:"omitempty,min=2,max=160"`
	SubjectTeacherID *uuid.UUID `json:"subject_teacher_id"`
	SubjectCredits   *int       `json:"subject_credits" validate:"omitempty,min=1,max=10"`
	SubjectDayOfWeek *int       `json:"subject_day_of_week" validate:"omitempty,min=1,max=7"`
	SubjectStartTime *string    `json:"subject_start_time" validate:"omitempty,datetime=15:04"`
	SubjectEndTime   *string    `json:"subject_end_time" validate:"omitempty,datetime=15:04"`
	SubjectRoom      *string    `json:"subject_room" validate:"omitempty,max=60"`
}

func (r UpdateSubjectRequest) Updates() (map[string]any, error) {
	u := map[string]any{}
	if r.SubjectCode != nil {
		u["subject_code"] = strings.ToUpper(strings.TrimSpace(*r.SubjectCode))
	}
	if r.SubjectName != nil {
		u["subject_name"] = strings.TrimSpace(*r.SubjectName)
	}
	if r.SubjectTeacherID != nil {
		u["subject_teacher_id"] = *r.SubjectTeacherID
	}
	if r.SubjectCredits != nil {
		u["subject_credits"] = *r.SubjectCredits
	}
	if r.SubjectDayOfWeek != nil {
		u["subject_day_of_week"] = *r.SubjectDayOfWeek
	}
	if r.SubjectStartTime != nil {
		t, err := parseTodPtr(r.SubjectStartTime)
		if err != nil {
			return nil, err
		}
		u["subject_start_time"] = t
	}
	if r.SubjectEndTime != nil {
		t, err := parseTodPtr(r.SubjectEndTime)
		if err != nil {
			return nil, err
		}
		u["subject_end_time"] = t
	}
	if r.SubjectRoom != nil {
		u["subject_room"] = *r.SubjectRoom
	}
	return u, nil
}

type SubjectRow struct {
	model.SubjectModel
	ClassCode   string  `json:"class_code" gorm:"column:class_code"`
	ClassName   string  `json:"class_name" gorm:"column:class_name"`
	TeacherName *string `json:"teacher_name,omitempty" gorm:"column:teacher_name"`
}
