package dbtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOfUsesCampusZone(t *testing.T) {
	campus = time.FixedZone("IST", 5*3600+1800)
	locOnce.Do(func() {})

	// 20:00 UTC = 01:30 besok di IST
	got := DateOf(time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC))
	want := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOf = %v, want %v", got, want)
	}
	if FormatDate(got) != "2026-03-11" {
		t.Fatalf("FormatDate = %s", FormatDate(got))
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-01-31 ")
	if err != nil || d.Day() != 31 || d.Location() != time.UTC {
		t.Fatalf("ParseDate = %v, %v", d, err)
	}
	if _, err := ParseDate("31/01/2026"); err == nil {
		t.Fatalf("expected error")
	}

	p, err := ParseDatePtr("")
	if p != nil || err != nil {
		t.Fatalf("empty should be nil, nil")
	}
	p, err = ParseDatePtr("2026-02-01")
	if err != nil || p == nil || FormatDate(*p) != "2026-02-01" {
		t.Fatalf("ParseDatePtr = %v, %v", p, err)
	}
}

func TestToCampusTimeZero(t *testing.T) {
	if !ToCampusTime(time.Time{}).IsZero() {
		t.Fatalf("zero time should stay zero")
	}
}

func TestTod(t *testing.T) {
	tod, err := ParseTod("09:30")
	if err != nil {
		t.Fatalf("ParseTod: %v", err)
	}
	if tod.String() != "09:30" {
		t.Fatalf("String = %s", tod)
	}
	v, _ := tod.Value()
	if v != "09:30:00" {
		t.Fatalf("Value = %v", v)
	}
	if later, _ := ParseTod("10:00:00"); !tod.Before(later) || later.Before(tod) {
		t.Fatalf("Before ordering broken")
	}
	if _, err := ParseTod("25:99"); err == nil {
		t.Fatalf("expected error")
	}

	var scanned Tod
	if err := scanned.Scan([]byte("14:05:00")); err != nil || scanned.String() != "14:05" {
		t.Fatalf("Scan = %v, %v", scanned, err)
	}
	if err := scanned.Scan(42); err == nil {
		t.Fatalf("expected unsupported type error")
	}

	var wrap struct {
		Start Tod `json:"start"`
	}
	if err := json.Unmarshal([]byte(`{"start":"08:15"}`), &wrap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, _ := json.Marshal(wrap)
	if string(b) != `{"start":"08:15"}` {
		t.Fatalf("marshal = %s", b)
	}
}

func TestAsDateKeepsCalendarDay(t *testing.T) {
	stored := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	ny := time.FixedZone("EST", -5*3600)

	if got := AsDate(stored); !got.Equal(stored) {
		t.Fatalf("AsDate = %v", got)
	}
	// driver bisa mengembalikan DATE dalam zona lain, hari kalendernya tetap
	if got := AsDate(stored.In(ny)); FormatDate(got) != "2026-03-10" {
		t.Fatalf("AsDate(in EST) = %s", FormatDate(got))
	}
}
