package utils

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateOnly stores a calendar date without a time component.
type DateOnly struct {
	time.Time
}

func NewDateOnly(year int, month time.Month, day int) DateOnly {
	return DateOnly{time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	if string(data) == `null` {
		*d = DateOnly{time.Time{}}
		return nil
	}
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	t, err := time.ParseInLocation("2006-01-02", str, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date format: %s", str)
	}
	*d = DateOnly{t}
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d DateOnly) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time.Format("2006-01-02"), nil
}

func (d *DateOnly) Scan(value interface{}) error {
	if value == nil {
		*d = DateOnly{time.Time{}}
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*d = DateOnly{v}
		return nil
	case string:
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return fmt.Errorf("cannot parse date string: %v", err)
		}
		*d = DateOnly{t}
		return nil
	case []byte:
		t, err := time.ParseInLocation("2006-01-02", string(v), time.Local)
		if err != nil {
			return fmt.Errorf("cannot parse date bytes: %v", err)
		}
		*d = DateOnly{t}
		return nil
	default:
		return fmt.Errorf("unsupported scan type for DateOnly: %T", value)
	}
}

func (d DateOnly) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}
