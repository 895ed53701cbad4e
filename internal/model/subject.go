package model

import (
	"fmt"
	"strings"
)

// Gender as used by the horoscope chart.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// ParseGender accepts both English and Vietnamese spellings.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "nam":
		return GenderMale
	case "female", "nữ", "nu":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// CalendarDate is a plain day/month/year triple, no timezone attached.
type CalendarDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// String renders DD/MM/YYYY.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// TimeOfDay is the birth hour and minute.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Subject is a person the conversation is about: the asker or a partner.
// Raw fields are kept so they can feed the calculators; they must never reach a prompt.
type Subject struct {
	Name       string
	BirthDate  *CalendarDate
	BirthTime  *TimeOfDay
	Gender     Gender
	BirthPlace string

	// RawBirthDate/RawBirthTime hold the exact strings the client sent, so redaction
	// checks can compare against what the user actually typed.
	RawBirthDate string
	RawBirthTime string
}

// HasBirthDate reports whether calculators can run for this subject.
func (s *Subject) HasBirthDate() bool {
	return s != nil && s.BirthDate != nil
}
