package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod: jam kuliah untuk kolom TIME, disimpan sebagai detik sejak 00:00.
type Tod int32

const secondsPerDay = 24 * 60 * 60

// ParseTod menerima "HH:mm" atau "HH:mm:ss".
func ParseTod(s string) (Tod, error) {
	s = strings.TrimSpace(s)
	layout := "15:04:05"
	if len(s) == 5 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("tod: invalid time %q", s)
	}
	return todOf(t), nil
}

func todOf(t time.Time) Tod {
	return Tod(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

func (t Tod) clock() (h, m, s int) {
	n := int(t) % secondsPerDay
	return n / 3600, n / 60 % 60, n % 60
}

func (t Tod) Before(o Tod) bool { return t < o }

func (t Tod) String() string {
	h, m, _ := t.clock()
	return fmt.Sprintf("%02d:%02d", h, m)
}

func (t *Tod) Scan(v any) error {
	var err error
	switch x := v.(type) {
	case nil:
		*t = 0
	case time.Time:
		*t = todOf(x)
	case []byte:
		*t, err = ParseTod(string(x))
	case string:
		*t, err = ParseTod(x)
	default:
		err = fmt.Errorf("tod: unsupported Scan type %T", v)
	}
	return err
}

func (t Tod) Value() (driver.Value, error) {
	h, m, s := t.clock()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), nil
}

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTod(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
