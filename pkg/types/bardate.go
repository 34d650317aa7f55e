package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the canonical text form of a BarDate.
const DateLayout = "2006-01-02"

// scanLayouts are tried in order when a date comes back from a database driver as text.
var scanLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339,
	time.RFC3339Nano,
}

// BarDate is a calendar date, stored as midnight UTC. It is the single key
// used to align every series in a replay.
type BarDate time.Time

func NewBarDate(year int, month time.Month, day int) BarDate {
	return BarDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// NewBarDateFromTime drops the clock part of t, keeping the calendar date in t's location.
func NewBarDateFromTime(t time.Time) BarDate {
	return NewBarDate(t.Year(), t.Month(), t.Day())
}

func ParseBarDate(s string) (BarDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return BarDate{}, err
	}

	return BarDate(t), nil
}

func MustParseBarDate(s string) BarDate {
	d, err := ParseBarDate(s)
	if err != nil {
		panic(fmt.Errorf("bar date parse error: %w", err))
	}

	return d
}

func (d BarDate) Time() time.Time {
	return time.Time(d)
}

func (d BarDate) IsZero() bool {
	return time.Time(d).IsZero()
}

// Compare returns -1, 0 or +1 when d is before, equal to or after o.
func (d BarDate) Compare(o BarDate) int {
	return time.Time(d).Compare(time.Time(o))
}

func (d BarDate) Before(o BarDate) bool {
	return time.Time(d).Before(time.Time(o))
}

func (d BarDate) After(o BarDate) bool {
	return time.Time(d).After(time.Time(o))
}

func (d BarDate) Equal(o BarDate) bool {
	return time.Time(d).Equal(time.Time(o))
}

// AddDays returns the date n calendar days after d.
func (d BarDate) AddDays(n int) BarDate {
	return BarDate(time.Time(d).AddDate(0, 0, n))
}

func (d BarDate) String() string {
	return time.Time(d).Format(DateLayout)
}

func (d BarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *BarDate) UnmarshalText(data []byte) error {
	v, err := ParseBarDate(string(data))
	if err != nil {
		return err
	}

	*d = v
	return nil
}

func (d BarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *BarDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	return d.UnmarshalText([]byte(s))
}

func (d *BarDate) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	return d.UnmarshalText([]byte(s))
}

// Value implements the driver.Valuer interface
func (d BarDate) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Scan implements the sql.Scanner interface
func (d *BarDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewBarDateFromTime(v)
		return nil

	case *time.Time:
		*d = NewBarDateFromTime(*v)
		return nil

	case string:
		return d.scanString(v)

	case []byte:
		return d.scanString(string(v))
	}

	return fmt.Errorf("bar date scan error, type %T is not supported, value: %+v", src, src)
}

func (d *BarDate) scanString(s string) error {
	for _, layout := range scanLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewBarDateFromTime(t)
			return nil
		}
	}

	return fmt.Errorf("bar date scan error, unsupported date format: %q", s)
}

// MaxBarDate returns the latest of the given dates, or the zero date for no input.
func MaxBarDate(dates ...BarDate) (latest BarDate) {
	for _, d := range dates {
		if d.After(latest) {
			latest = d
		}
	}

	return latest
}
