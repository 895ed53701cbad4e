package divination

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sorcererxstreme/chatbot/internal/model"
)

// ErrInvalidDate is returned when a string is not a recognised date or names a day
// that does not exist.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidTime is returned for birth times that are not HH or HH:MM.
var ErrInvalidTime = errors.New("invalid time")

var (
	// D/M/YYYY or D-M-YYYY, day first.
	dayFirstPattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	// YYYY-M-D, year first. Only the dash notation is accepted in this order.
	yearFirstPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	// Dates inside free text: day/month first only.
	inlineDatePattern = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	timePattern       = regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2}))?(?::\d{1,2})?$`)
)

// ParseDate reads a birth or target date. The separator and the position of the
// four-digit field decide the field order; no attempt is made to guess from calendar
// validity.
func ParseDate(text string) (model.CalendarDate, error) {
	s := strings.TrimSpace(text)
	if m := dayFirstPattern.FindStringSubmatch(s); m != nil {
		return newDate(m[1], m[2], m[3])
	}
	if m := yearFirstPattern.FindStringSubmatch(s); m != nil {
		return newDate(m[3], m[2], m[1])
	}
	return model.CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
}

// ExtractDateFromText returns the first day-first date mentioned in text, or nil.
func ExtractDateFromText(text string) *model.CalendarDate {
	m := inlineDatePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	d, err := newDate(m[1], m[2], m[3])
	if err != nil {
		return nil
	}
	return &d
}

// ParseTimeOfDay reads "HH:MM" (seconds ignored) or a bare hour.
func ParseTimeOfDay(text string) (model.TimeOfDay, error) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return model.TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, text)
	}
	h, _ := strconv.Atoi(m[1])
	var minute int
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if h > 23 || minute > 59 {
		return model.TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, text)
	}
	return model.TimeOfDay{Hour: h, Minute: minute}, nil
}

func newDate(day, month, year string) (model.CalendarDate, error) {
	d, _ := strconv.Atoi(day)
	m, _ := strconv.Atoi(month)
	y, _ := strconv.Atoi(year)
	if y < 1 || m < 1 || m > 12 || d < 1 || d > daysIn(m, y) {
		return model.CalendarDate{}, fmt.Errorf("%w: %s/%s/%s", ErrInvalidDate, day, month, year)
	}
	return model.CalendarDate{Day: d, Month: m, Year: y}, nil
}

func daysIn(month, year int) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
