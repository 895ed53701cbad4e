package divination

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sorcererxstreme/chatbot/internal/model"
)

// NoMainStar is reported when the life palace holds no primary star.
const NoMainStar = "Vô Chính Diệu"

// HoroscopeQuery is the input of the external chart capability.
type HoroscopeQuery struct {
	Day        int `json:"day"`
	Month      int `json:"month"`
	Year       int `json:"year"`
	DoubleHour int `json:"double_hour"` // 1..12
	GenderCode int `json:"gender"`      // +1 male, -1 female
}

// HoroscopeLookup computes a Tử Vi chart. Implementations live outside the core.
type HoroscopeLookup interface {
	Lookup(ctx context.Context, q HoroscopeQuery) (*model.ChartReading, error)
}

// DoubleHourIndex maps a clock hour to one of the twelve two-hour branches.
// Slot 0 is reported as 12.
func DoubleHourIndex(hour int) int {
	idx := ((hour + 1) / 2) % 12
	if idx == 0 {
		return 12
	}
	return idx
}

// GenderCode is +1 for male and -1 for everything else.
func GenderCode(g model.Gender) int {
	if g == model.GenderMale {
		return 1
	}
	return -1
}

// HoroscopeSummary asks lookup for a chart and condenses it. The computation is
// best-effort: a missing birth time, a failing lookup or a panicking one all yield nil.
func HoroscopeSummary(ctx context.Context, lookup HoroscopeLookup, date model.CalendarDate, t *model.TimeOfDay, gender model.Gender) (summary *model.HoroscopeSummary) {
	if lookup == nil || t == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("horoscope lookup panicked", "panic", r)
			summary = nil
		}
	}()

	reading, err := lookup.Lookup(ctx, HoroscopeQuery{
		Day:        date.Day,
		Month:      date.Month,
		Year:       date.Year,
		DoubleHour: DoubleHourIndex(t.Hour),
		GenderCode: GenderCode(gender),
	})
	if err != nil {
		slog.Warn("horoscope lookup failed", "err", err)
		return nil
	}
	if reading == nil {
		return nil
	}

	stars := NoMainStar
	if len(reading.PrimaryStars) > 0 {
		stars = strings.Join(reading.PrimaryStars, ", ")
	}
	return &model.HoroscopeSummary{
		DominantElement: reading.Element,
		StructureName:   reading.Structure,
		LifePalace:      reading.LifePalace,
		MainStars:       stars,
	}
}

// Profile runs every calculator for a subject. It returns nil when the subject has no
// usable birth date.
func Profile(ctx context.Context, lookup HoroscopeLookup, s *model.Subject) *model.CalculatedProfile {
	if !s.HasBirthDate() {
		return nil
	}
	d := *s.BirthDate
	return &model.CalculatedProfile{
		LifePathNumber: LifePathNumber(d),
		ZodiacSign:     ZodiacSign(d.Day, d.Month),
		Horoscope:      HoroscopeSummary(ctx, lookup, d, s.BirthTime, s.Gender),
	}
}

// DateProfile is the numerology and zodiac reading of a bare date.
func DateProfile(d model.CalendarDate) *model.CalculatedProfile {
	return &model.CalculatedProfile{
		LifePathNumber: LifePathNumber(d),
		ZodiacSign:     ZodiacSign(d.Day, d.Month),
	}
}
