package service

import (
	"testing"

	"github.com/google/uuid"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name                    string
		held, attended, excused int
		want                    float64
	}{
		{"no sessions", 0, 0, 0, 100},
		{"all excused", 3, 0, 3, 100},
		{"full", 10, 10, 0, 100},
		{"three of four", 4, 3, 0, 75},
		{"excused removed from held", 5, 3, 1, 75},
		{"rounded", 3, 2, 0, 66.67},
		{"never above 100", 2, 5, 0, 100},
		{"none attended", 4, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.held, tt.attended, tt.excused); got != tt.want {
				t.Fatalf("Percentage(%d,%d,%d) = %v, want %v", tt.held, tt.attended, tt.excused, got, tt.want)
			}
		})
	}
}

func TestAggregateAndDefaulters(t *testing.T) {
	s1, s2 := uuid.New(), uuid.New()
	ds, os := uuid.New(), uuid.New()

	rows := []StatRow{
		{StudentID: s2, StudentRollNumber: "21CS002", SubjectID: os, SubjectCode: "CS202", Held: 4, Attended: 1},
		{StudentID: s1, StudentRollNumber: "21CS001", SubjectID: os, SubjectCode: "CS202", Held: 4, Attended: 4},
		{StudentID: s1, StudentRollNumber: "21CS001", SubjectID: ds, SubjectCode: "CS201", Held: 4, Attended: 2, Excused: 1, Absent: 1},
		{StudentID: s2, StudentRollNumber: "21CS002", SubjectID: ds, SubjectCode: "CS201", Held: 4, Attended: 3, Absent: 1},
	}

	got := Aggregate(rows, 75)
	if len(got) != 2 {
		t.Fatalf("students = %d, want 2", len(got))
	}
	if got[0].StudentRollNumber != "21CS001" {
		t.Fatalf("not sorted by roll number: %s first", got[0].StudentRollNumber)
	}

	first := got[0]
	// held 8, excused 1, attended 6 → 6/7
	if first.Held != 8 || first.Attended != 6 || first.Excused != 1 {
		t.Fatalf("totals = %+v", first)
	}
	if first.Percentage != 85.71 || first.BelowThreshold {
		t.Fatalf("percentage = %v below=%v", first.Percentage, first.BelowThreshold)
	}
	if first.Subjects[0].SubjectCode != "CS201" {
		t.Fatalf("subjects not sorted by code")
	}
	if first.Subjects[0].Percentage != 66.67 || !first.Subjects[0].BelowThreshold {
		t.Fatalf("CS201 summary = %+v", first.Subjects[0])
	}

	second := got[1]
	// 4/8
	if second.Percentage != 50 || !second.BelowThreshold {
		t.Fatalf("second = %+v", second)
	}

	def := Defaulters(got, 75)
	if len(def) != 1 || def[0].StudentID != s2 {
		t.Fatalf("defaulters = %+v", def)
	}
	if len(Defaulters(got, 40)) != 0 {
		t.Fatalf("no defaulters expected at 40%%")
	}
}

func TestDefaultersEmptyIsNotNil(t *testing.T) {
	if d := Defaulters(nil, 75); d == nil {
		t.Fatalf("want empty slice, got nil")
	}
}
