package excel

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestBuild(t *testing.T) {
	buf, err := Build(
		Sheet{Name: "Summary", Headers: []string{"roll_number", "percentage"}, Rows: [][]any{{"21CS001", 85.5}, {"21CS002", 50}}},
		Sheet{Headers: []string{"subject"}, Rows: [][]any{{"CS201"}}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) != 2 || names[0] != "Summary" || names[1] != "Sheet2" {
		t.Fatalf("sheets = %v", names)
	}

	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "roll_number" || rows[2][0] != "21CS002" {
		t.Fatalf("rows = %v", rows)
	}
	if v, _ := f.GetCellValue("Summary", "B2"); v != "85.5" {
		t.Fatalf("B2 = %q", v)
	}
}
