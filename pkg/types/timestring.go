package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeString is returned when a string is not a valid "HH:MM" time.
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString represents a time of day in "HH:MM" format.
// It is stored as a string to avoid timezone and date ambiguity when
// only the wall-clock time matters.
type TimeString string

// NewTimeString creates a TimeString from a time.Time, keeping only the
// hour and minute components.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString parses and validates a "HH:MM" string.
func NewTimeStringFromString(s string) (TimeString, error) {
	if _, err := time.Parse("15:04", s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(s), nil
}

// String returns the "HH:MM" representation.
func (t TimeString) String() string {
	return string(t)
}

// TotalMinutes returns minutes elapsed since midnight.
func (t TimeString) TotalMinutes() (int, error) {
	// "24:00" is a valid exclusive interval end produced by AddMinutes
	if string(t) == "24:00" {
		return 24 * 60, nil
	}
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes returns the time shifted forward by the given number of minutes.
// Returns an error if the result would cross midnight (>= 24:00) or be
// negative. Intervals in this service never roll over to the next day, so
// the error is the caller's signal to reject or skip.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.TotalMinutes()
	if err != nil {
		return "", err
	}
	total += minutes
	if total < 0 || total > 24*60 {
		return "", fmt.Errorf("%w: %s%+d minutes is outside the day", ErrInvalidTimeString, string(t), minutes)
	}
	// 24:00 is allowed only as an exclusive interval end; render it as such
	if total == 24*60 {
		return TimeString("24:00"), nil
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore reports whether t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// MinutesBetween returns other - t in minutes (negative if other is earlier).
func (t TimeString) MinutesBetween(other TimeString) (int, error) {
	a, err := t.TotalMinutes()
	if err != nil {
		return 0, err
	}
	b, err := other.TotalMinutes()
	if err != nil {
		return 0, err
	}
	return b - a, nil
}

// Value implements driver.Valuer so TimeString can be written to the database.
func (t TimeString) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan implements sql.Scanner so TimeString can be read from the database.
// Postgres TIME columns come back as time.Time from lib/pq.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		// Strip seconds if present ("10:00:00" -> "10:00")
		if len(v) > 5 {
			v = v[:5]
		}
		*t = TimeString(v)
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case nil:
		*t = ""
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}
