package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"attendku_backend/internals/constants"
)

func TestTargetStatus(t *testing.T) {
	if got := TargetStatus(constants.RequestTypeCorrection); got != constants.AttendancePresent {
		t.Errorf("correction → %q, want present", got)
	}
	if got := TargetStatus(constants.RequestTypeLeave); got != constants.AttendanceExcused {
		t.Errorf("leave → %q, want excused", got)
	}
}

func TestSnapshot(t *testing.T) {
	by := uuid.New()
	subj := uuid.New()
	at := time.Date(2026, 3, 10, 15, 4, 5, 0, time.FixedZone("IST", 5*3600+1800))
	remarks := "ok, medical note seen"

	snap := Snapshot(constants.RequestApproved, by, at, &remarks, []uuid.UUID{subj}, map[string]string{subj.String(): constants.AttendanceAbsent})

	if snap["decision"] != constants.RequestApproved {
		t.Errorf("decision = %v", snap["decision"])
	}
	if snap["decided_by"] != by.String() {
		t.Errorf("decided_by = %v", snap["decided_by"])
	}
	if snap["decided_at"] != "2026-03-10T09:34:05Z" {
		t.Errorf("decided_at = %v (must be UTC)", snap["decided_at"])
	}
	ids, ok := snap["subject_ids"].([]string)
	if !ok || len(ids) != 1 || ids[0] != subj.String() {
		t.Errorf("subject_ids = %v", snap["subject_ids"])
	}
	if snap["remarks"] != remarks {
		t.Errorf("remarks = %v", snap["remarks"])
	}
	prev, ok := snap["previous_status"].(map[string]any)
	if !ok || prev[subj.String()] != constants.AttendanceAbsent {
		t.Errorf("previous_status = %v", snap["previous_status"])
	}
}

func TestSnapshot_Minimal(t *testing.T) {
	snap := Snapshot(constants.RequestRejected, uuid.New(), time.Now(), nil, nil, nil)
	if _, ok := snap["remarks"]; ok {
		t.Errorf("remarks should be omitted")
	}
	if _, ok := snap["previous_status"]; ok {
		t.Errorf("previous_status should be omitted")
	}
	if ids := snap["subject_ids"].([]string); len(ids) != 0 {
		t.Errorf("subject_ids = %v", ids)
	}
}
