package dto

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func strp(s string) *string { return &s }

func TestCreateSubjectToModel(t *testing.T) {
	m, err := CreateSubjectRequest{
		SubjectCode:      " cs201 ",
		SubjectName:      " Data Structures ",
		SubjectClassID:   uuid.New(),
		SubjectStartTime: strp("09:00"),
		SubjectEndTime:   strp(""),
	}.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}
	if m.SubjectCode != "CS201" || m.SubjectName != "Data Structures" || m.SubjectCredits != 3 {
		t.Fatalf("model = %+v", m)
	}
	if m.SubjectStartTime == nil || m.SubjectStartTime.String() != "09:00" || m.SubjectEndTime != nil {
		t.Fatalf("times = %v %v", m.SubjectStartTime, m.SubjectEndTime)
	}

	if _, err := (CreateSubjectRequest{SubjectStartTime: strp("9am")}).ToModel(); err == nil {
		t.Fatalf("expected time parse error")
	}
	if _, err := (CreateSubjectRequest{SubjectStartTime: strp("11:00"), SubjectEndTime: strp("10:00")}).ToModel(); !errors.Is(err, ErrScheduleOrder) {
		t.Fatalf("err = %v, want ErrScheduleOrder", err)
	}
}

func TestUpdateSubjectUpdates(t *testing.T) {
	u, err := UpdateSubjectRequest{SubjectCode: strp("ma201"), SubjectEndTime: strp("10:30")}.Updates()
	if err != nil {
		t.Fatalf("Updates: %v", err)
	}
	if u["subject_code"] != "MA201" || len(u) != 2 {
		t.Fatalf("updates = %v", u)
	}
	if _, err := (UpdateSubjectRequest{SubjectStartTime: strp("xx")}).Updates(); err == nil {
		t.Fatalf("expected error")
	}
}
