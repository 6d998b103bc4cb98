package model

import "github.com/google/uuid"

// UserLinks: record akademik yang menempel ke user (bukan tabel).
type UserLinks struct {
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	TeacherID *uuid.UUID
}
