// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"sync"
	"time"

	"attendku_backend/internals/configs"
)

const DateLayout = "2006-01-02"

var (
	locOnce sync.Once
	campus  *time.Location
)

// CampusLocation: zona waktu kampus dari CAMPUS_TIMEZONE.
// Fallback: Asia/Kolkata, lalu UTC.
func CampusLocation() *time.Location {
	locOnce.Do(func() {
		campus = loadLocation(configs.CampusTimezone)
	})
	return campus
}

func loadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Asia/Kolkata"
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation("Asia/Kolkata"); err == nil {
		return loc
	}
	return time.UTC
}

// DateOf: tanggal kalender (00:00 UTC) dari t menurut zona kampus.
// Kolom DATE di Postgres disimpan dalam bentuk ini.
func DateOf(t time.Time) time.Time {
	lt := t.In(CampusLocation())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}

// AsDate menormalkan nilai kolom DATE (sudah tanggal kalender, 00:00 UTC)
// tanpa konversi zona. Jangan pakai DateOf untuk nilai seperti ini: di zona
// UTC-x tanggalnya mundur sehari.
func AsDate(d time.Time) time.Time {
	u := d.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Today = DateOf(now)
func Today() time.Time {
	return DateOf(time.Now())
}

// ParseDate menerima "YYYY-MM-DD".
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// ParseDatePtr: string kosong → nil.
func ParseDatePtr(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ToCampusTime mengonversi waktu dari DB ke zona kampus. Zero value dibiarkan.
func ToCampusTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(CampusLocation())
}
