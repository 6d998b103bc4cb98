package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func workbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := r
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func TestParseRoster(t *testing.T) {
	buf := workbook(t, [][]string{
		RosterHeader,
		{"21cs001", "Asha Verma", "Asha@Example.edu", "cse-2a"},
		{"", "", "", ""},
		{"21CS002", "", "ravi@example.edu", "CSE-2A"},
		{"21CS003", "Meera Iyer", "not-an-email", "CSE-2A"},
		{"21CS001", "Someone Else", "else@example.edu", "CSE-2A"},
		{"21CS004", "Kiran Rao", "kiran@example.edu", "CSE-2B"},
	})

	rows, bad, err := ParseRoster(buf)
	if err != nil {
		t.Fatalf("ParseRoster: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("valid rows = %d, want 2 (%+v)", len(rows), rows)
	}
	first := rows[0]
	if first.RollNumber != "21CS001" || first.Email != "asha@example.edu" || first.ClassCode != "CSE-2A" || first.Line != 2 {
		t.Fatalf("first row not normalized: %+v", first)
	}
	if rows[1].RollNumber != "21CS004" {
		t.Fatalf("second row = %+v", rows[1])
	}

	if len(bad) != 3 {
		t.Fatalf("row errors = %d, want 3 (%+v)", len(bad), bad)
	}
	wantLines := []int{4, 5, 6}
	for i, e := range bad {
		if e.Line != wantLines[i] {
			t.Errorf("error %d line = %d, want %d", i, e.Line, wantLines[i])
		}
	}
	if !strings.Contains(bad[2].Error, "duplicate") {
		t.Errorf("expected duplicate error, got %q", bad[2].Error)
	}
}

func TestParseRoster_NotExcel(t *testing.T) {
	if _, _, err := ParseRoster(strings.NewReader("roll_number,full_name\n")); err == nil {
		t.Fatalf("expected error for non-xlsx input")
	}
}

func TestRosterTemplateParses(t *testing.T) {
	f, err := RosterTemplate()
	if err != nil {
		t.Fatalf("RosterTemplate: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	rows, bad, err := ParseRoster(buf)
	if err != nil || len(bad) != 0 || len(rows) != 1 {
		t.Fatalf("template: rows=%v bad=%v err=%v", rows, bad, err)
	}
}

func TestImportRosterStopsOnDatabaseError(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=attendku dbname=attendku sslmode=disable"),
		&gorm.Config{DisableAutomaticPing: true, Logger: logger.Discard})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []RosterRow{
		{Line: 2, RollNumber: "21CS001", FullName: "Asha Verma", Email: "asha@example.edu", ClassCode: "CSE-2A"},
		{Line: 3, RollNumber: "21CS002", FullName: "Ravi Kumar", Email: "ravi@example.edu", ClassCode: "CSE-2A"},
	}
	res, err := ImportRoster(ctx, db, rows)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// error database bukan error per baris
	if res.Imported != 0 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}
}
