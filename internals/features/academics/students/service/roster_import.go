// internals/features/academics/students/service/roster_import.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/academics/students/model"
	userService "attendku_backend/internals/features/users/user/service"
	helper "attendku_backend/internals/helpers"
)

// Kolom roster: roll_number, full_name, email, class_code (baris 1 = header)
var RosterHeader = []string{"roll_number", "full_name", "email", "class_code"}

type RosterRow struct {
	Line       int    `json:"line"`
	RollNumber string `json:"roll_number"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	ClassCode  string `json:"class_code"`
}

type RowError struct {
	Line       int    `json:"line"`
	RollNumber string `json:"roll_number,omitempty"`
	Error      string `json:"error"`
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// ParseRoster membaca sheet pertama. Baris kosong dilewati, baris tak lengkap
// masuk ke daftar error (tidak menggagalkan seluruh import).
func ParseRoster(r io.Reader) ([]RosterRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[IMPORT] close workbook: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, errors.New("excel file does not contain any sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheet, err)
	}

	var (
		out  []RosterRow
		bad  []RowError
		seen = map[string]int{}
	)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		line := i + 1
		rr := RosterRow{
			Line:       line,
			RollNumber: strings.ToUpper(cell(row, 0)),
			FullName:   cell(row, 1),
			Email:      strings.ToLower(cell(row, 2)),
			ClassCode:  strings.ToUpper(cell(row, 3)),
		}
		if rr.RollNumber == "" && rr.FullName == "" && rr.Email == "" && rr.ClassCode == "" {
			continue
		}
		switch {
		case rr.RollNumber == "" || rr.FullName == "" || rr.Email == "" || rr.ClassCode == "":
			bad = append(bad, RowError{Line: line, RollNumber: rr.RollNumber, Error: "missing roll_number, full_name, email or class_code"})
			continue
		case !strings.Contains(rr.Email, "@"):
			bad = append(bad, RowError{Line: line, RollNumber: rr.RollNumber, Error: "invalid email"})
			continue
		}
		if prev, dup := seen[rr.RollNumber]; dup {
			bad = append(bad, RowError{Line: line, RollNumber: rr.RollNumber, Error: fmt.Sprintf("duplicate roll number (line %d)", prev)})
			continue
		}
		seen[rr.RollNumber] = line
		out = append(out, rr)
	}
	return out, bad, nil
}

// ImportRoster: satu transaksi per baris (user + student). Password awal = roll number.
// Error baris masuk ke res.Errors; error database menghentikan import.
func ImportRoster(ctx context.Context, db *gorm.DB, rows []RosterRow) (ImportResult, error) {
	res := ImportResult{Errors: []RowError{}}
	db = db.WithContext(ctx)

	classIDs := map[string]uuid.UUID{}
	lookupClass := func(code string) (uuid.UUID, error) {
		if id, ok := classIDs[code]; ok {
			return id, nil
		}
		var row struct {
			ClassID uuid.UUID `gorm:"column:class_id"`
		}
		err := db.Table("classes").Select("class_id").
			Where("class_code = ? AND class_deleted_at IS NULL", code).
			Take(&row).Error
		if err != nil {
			return uuid.Nil, err
		}
		classIDs[code] = row.ClassID
		return row.ClassID, nil
	}

	for _, rr := range rows {
		classID, err := lookupClass(rr.ClassCode)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res.Errors = append(res.Errors, RowError{Line: rr.Line, RollNumber: rr.RollNumber, Error: "unknown class_code " + rr.ClassCode})
			continue
		}
		if err != nil {
			return res, fmt.Errorf("line %d: resolve class: %w", rr.Line, err)
		}

		var exists int64
		if err := db.Table("students").
			Where("student_roll_number = ? AND student_deleted_at IS NULL", rr.RollNumber).
			Count(&exists).Error; err != nil {
			return res, fmt.Errorf("line %d: check roll number: %w", rr.Line, err)
		}
		if exists > 0 {
			res.Skipped++
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			u, err := userService.CreateUser(tx, userService.NewUser{
				UserName: strings.ToLower(rr.RollNumber),
				FullName: rr.FullName,
				Email:    rr.Email,
				Password: rr.RollNumber,
				Role:     constants.RoleStudent,
			})
			if err != nil {
				return err
			}
			return tx.Create(&model.StudentModel{
				StudentUserID:     u.ID,
				StudentRollNumber: rr.RollNumber,
				StudentClassID:    classID,
				StudentIsActive:   true,
			}).Error
		})
		if err != nil {
			msg := err.Error()
			if helper.IsUniqueViolation(err) {
				msg = "email or user name already exists"
			}
			res.Errors = append(res.Errors, RowError{Line: rr.Line, RollNumber: rr.RollNumber, Error: msg})
			continue
		}
		res.Imported++
	}
	log.Printf("[IMPORT] roster: imported=%d skipped=%d errors=%d", res.Imported, res.Skipped, len(res.Errors))
	return res, nil
}

// RosterTemplate: workbook kosong dengan header + satu baris contoh.
func RosterTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &RosterHeader); err != nil {
		return nil, err
	}
	example := []string{"21CS001", "Asha Verma", "asha@example.edu", "CSE-2A"}
	if err := f.SetSheetRow(sheet, "A2", &example); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "A", "D", 22)
	return f, nil
}
