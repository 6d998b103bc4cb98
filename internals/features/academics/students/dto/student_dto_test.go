package dto

import (
	"testing"

	"github.com/google/uuid"

	helper "attendku_backend/internals/helpers"
)

func TestCreateStudentValidation(t *testing.T) {
	uid := uuid.New()
	name, email := "Asha Verma", "asha@example.edu"
	bad := "nope"

	tests := []struct {
		name  string
		req   CreateStudentRequest
		valid bool
	}{
		{"link existing user", CreateStudentRequest{UserID: &uid, StudentRollNumber: "21CS001", StudentClassID: uuid.New()}, true},
		{"new account", CreateStudentRequest{FullName: &name, Email: &email, StudentRollNumber: "21CS001", StudentClassID: uuid.New()}, true},
		{"neither user nor account", CreateStudentRequest{StudentRollNumber: "21CS001", StudentClassID: uuid.New()}, false},
		{"bad email", CreateStudentRequest{FullName: &name, Email: &bad, StudentRollNumber: "21CS001", StudentClassID: uuid.New()}, false},
		{"missing roll number", CreateStudentRequest{UserID: &uid, StudentClassID: uuid.New()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := helper.Validator.Struct(tt.req)
			if (err == nil) != tt.valid {
				t.Fatalf("valid = %v, err = %v", tt.valid, err)
			}
		})
	}
}

func TestStudentToModelAndUpdates(t *testing.T) {
	m := CreateStudentRequest{StudentRollNumber: " 21cs009 "}.ToModel(uuid.New())
	if m.StudentRollNumber != "21CS009" || !m.StudentIsActive {
		t.Fatalf("model = %+v", m)
	}

	off := false
	roll := "21cs010"
	u := UpdateStudentRequest{StudentRollNumber: &roll, StudentIsActive: &off}.Updates()
	if u["student_roll_number"] != "21CS010" || u["student_is_active"] != false || len(u) != 2 {
		t.Fatalf("updates = %v", u)
	}
}
