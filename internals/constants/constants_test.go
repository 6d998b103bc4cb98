package constants

import (
	"strings"
	"testing"
)

func TestRoles(t *testing.T) {
	for _, r := range AllRoles {
		if !IsValidRole(r) {
			t.Errorf("%s should be valid", r)
		}
	}
	if IsValidRole("superuser") || IsValidRole("") {
		t.Errorf("unknown role accepted")
	}
	if !IsTeacherRole(RoleClassTeacher) || !IsTeacherRole(RoleSubjectTeacher) || IsTeacherRole(RoleAdmin) {
		t.Errorf("IsTeacherRole mismatch")
	}
	if msg := RoleErrorFaculty("QR sessions"); !strings.Contains(msg, "QR sessions") {
		t.Errorf("message = %q", msg)
	}
}

func TestIsCountedPresent(t *testing.T) {
	want := map[string]bool{
		AttendancePresent: true,
		AttendanceLate:    true,
		AttendanceAbsent:  false,
		AttendanceExcused: false,
	}
	for s, w := range want {
		if IsCountedPresent(s) != w {
			t.Errorf("IsCountedPresent(%s) != %v", s, w)
		}
	}
}

func TestDetectFileType(t *testing.T) {
	cases := map[string]string{
		"note.JPG":  FileTypeImage,
		"scan.webp": FileTypeImage,
		"cert.pdf":  FileTypePDF,
		"run.exe":   FileTypeUnknown,
		"noext":     FileTypeUnknown,
	}
	for in, want := range cases {
		if got := DetectFileTypeFromExt(in); got != want {
			t.Errorf("DetectFileTypeFromExt(%s) = %s, want %s", in, got, want)
		}
	}
}
