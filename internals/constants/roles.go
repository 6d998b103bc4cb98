package constants

import "fmt"

const (
	RoleStudent        = "student"
	RoleClassTeacher   = "class_teacher"
	RoleSubjectTeacher = "subject_teacher"
	RoleAdmin          = "admin"
)

// Template pesan error role
const (
	ErrOnlyFacultyCanAccess      = "❌ Only teachers or admins can access %s."
	ErrOnlyClassTeacherCanAccess = "❌ Only class teachers or admins can access %s."
	ErrOnlyAdminsCanAccess       = "❌ Only admins can access %s."
	ErrOnlyStudentsCanAccess     = "❌ Only students can access %s."
)

func RoleErrorFaculty(feature string) string {
	return fmt.Sprintf(ErrOnlyFacultyCanAccess, feature)
}

func RoleErrorClassTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyClassTeacherCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleClassTeacher,
		RoleSubjectTeacher,
		RoleAdmin,
	}

	TeacherRoles = []string{
		RoleClassTeacher,
		RoleSubjectTeacher,
	}

	FacultyAndAdmin = []string{
		RoleClassTeacher,
		RoleSubjectTeacher,
		RoleAdmin,
	}

	ClassTeacherAndAdmin = []string{
		RoleClassTeacher,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	StudentOnly = []string{
		RoleStudent,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsTeacherRole(role string) bool {
	return role == RoleClassTeacher || role == RoleSubjectTeacher
}
