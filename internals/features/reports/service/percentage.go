// internals/features/reports/service/percentage.go
package service

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Percentage: attended / (held - excused) * 100, dibulatkan 2 desimal.
// Tidak ada pertemuan efektif → 100.
func Percentage(held, attended, excused int) float64 {
	eff := held - excused
	if eff <= 0 {
		return 100
	}
	p := float64(attended) / float64(eff) * 100
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	return math.Round(p*100) / 100
}

// StatRow: satu baris hasil query (student × subject).
type StatRow struct {
	StudentID         uuid.UUID `gorm:"column:student_id"`
	StudentRollNumber string    `gorm:"column:student_roll_number"`
	StudentName       string    `gorm:"column:student_name"`
	SubjectID         uuid.UUID `gorm:"column:subject_id"`
	SubjectCode       string    `gorm:"column:subject_code"`
	SubjectName       string    `gorm:"column:subject_name"`
	Held              int       `gorm:"column:held"`
	Attended          int       `gorm:"column:attended"`
	Excused           int       `gorm:"column:excused"`
	Absent            int       `gorm:"column:absent"`
}

type SubjectSummary struct {
	SubjectID      uuid.UUID `json:"subject_id"`
	SubjectCode    string    `json:"subject_code"`
	SubjectName    string    `json:"subject_name"`
	Held           int       `json:"held"`
	Attended       int       `json:"attended"`
	Excused        int       `json:"excused"`
	Absent         int       `json:"absent"`
	Percentage     float64   `json:"percentage"`
	BelowThreshold bool      `json:"below_threshold"`
}

type StudentSummary struct {
	StudentID         uuid.UUID        `json:"student_id"`
	StudentRollNumber string           `json:"student_roll_number"`
	StudentName       string           `json:"student_name"`
	Held              int              `json:"held"`
	Attended          int              `json:"attended"`
	Excused           int              `json:"excused"`
	Percentage        float64          `json:"percentage"`
	BelowThreshold    bool             `json:"below_threshold"`
	Subjects          []SubjectSummary `json:"subjects"`
}

func summarize(r StatRow, threshold float64) SubjectSummary {
	p := Percentage(r.Held, r.Attended, r.Excused)
	return SubjectSummary{
		SubjectID:      r.SubjectID,
		SubjectCode:    r.SubjectCode,
		SubjectName:    r.SubjectName,
		Held:           r.Held,
		Attended:       r.Attended,
		Excused:        r.Excused,
		Absent:         r.Absent,
		Percentage:     p,
		BelowThreshold: p < threshold,
	}
}

// Aggregate mengelompokkan baris per mahasiswa (urut roll number), total
// dihitung dari jumlah held/attended/excused lintas subject.
func Aggregate(rows []StatRow, threshold float64) []StudentSummary {
	idx := map[uuid.UUID]int{}
	var out []StudentSummary
	for _, r := range rows {
		i, ok := idx[r.StudentID]
		if !ok {
			out = append(out, StudentSummary{
				StudentID:         r.StudentID,
				StudentRollNumber: r.StudentRollNumber,
				StudentName:       r.StudentName,
				Subjects:          []SubjectSummary{},
			})
			i = len(out) - 1
			idx[r.StudentID] = i
		}
		s := &out[i]
		s.Held += r.Held
		s.Attended += r.Attended
		s.Excused += r.Excused
		s.Subjects = append(s.Subjects, summarize(r, threshold))
	}
	for i := range out {
		out[i].Percentage = Percentage(out[i].Held, out[i].Attended, out[i].Excused)
		out[i].BelowThreshold = out[i].Percentage < threshold
		sort.Slice(out[i].Subjects, func(a, b int) bool {
			return out[i].Subjects[a].SubjectCode < out[i].Subjects[b].SubjectCode
		})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].StudentRollNumber < out[b].StudentRollNumber })
	return out
}

// Defaulters: mahasiswa dengan persentase total di bawah threshold.
func Defaulters(all []StudentSummary, threshold float64) []StudentSummary {
	out := []StudentSummary{}
	for _, s := range all {
		if s.Percentage < threshold {
			out = append(out, s)
		}
	}
	return out
}
