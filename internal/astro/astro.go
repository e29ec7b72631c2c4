// Package astro computes the calendar-based placeholder sky used to flavour
// posts: sun sign, moon phase, season and Mercury retrograde. None of it is
// an ephemeris; the values follow fixed tables.
package astro

import (
	"math"
	"time"
)

// Snapshot is the astronomical context attached to a post.
type Snapshot struct {
	Date              time.Time `json:"date"`
	SunSign           string    `json:"sun_sign"`
	MoonPhase         string    `json:"moon_phase"`
	Season            string    `json:"season"`
	MercuryRetrograde bool      `json:"mercury_retrograde"`
}

// Compute builds the snapshot for t.
func Compute(t time.Time) Snapshot {
	return Snapshot{
		Date:              t,
		SunSign:           SunSign(t),
		MoonPhase:         MoonPhase(t),
		Season:            Season(t),
		MercuryRetrograde: MercuryRetrograde(t),
	}
}

type signBoundary struct {
	month time.Month
	day   int
	sign  string
}

// Each row is the last day (inclusive) of the named sign.
var signTable = []signBoundary{
	{time.January, 20, "Capricorn"},
	{time.February, 19, "Aquarius"},
	{time.March, 21, "Pisces"},
	{time.April, 20, "Aries"},
	{time.May, 21, "Taurus"},
	{time.June, 21, "Gemini"},
	{time.July, 23, "Cancer"},
	{time.August, 23, "Leo"},
	{time.September, 23, "Virgo"},
	{time.October, 23, "Libra"},
	{time.November, 22, "Scorpio"},
	{time.December, 22, "Sagittarius"},
}

// SunSign returns the tropical sun sign for the calendar date of t.
func SunSign(t time.Time) string {
	m, d := t.Month(), t.Day()
	for _, b := range signTable {
		if m < b.month || (m == b.month && d <= b.day) {
			return b.sign
		}
	}
	return "Capricorn"
}

// Signs lists the twelve signs in zodiac order starting at Aries.
func Signs() []string {
	return []string{"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
		"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces"}
}

// LunarCycle is the synodic month length in days.
const LunarCycle = 29.53

var moonReference = time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)

// DaysSinceReference returns whole days since the reference new moon, folded
// into [0, LunarCycle).
func DaysSinceReference(t time.Time) float64 {
	days := math.Floor(t.Sub(moonReference).Hours() / 24)
	d := math.Mod(days, LunarCycle)
	if d < 0 {
		d += LunarCycle
	}
	return d
}

// MoonPhase returns the phase name for t.
func MoonPhase(t time.Time) string {
	return PhaseForDays(DaysSinceReference(t))
}

// PhaseForDays maps a position in the lunar cycle to one of eight phases.
func PhaseForDays(days float64) string {
	switch {
	case days < 1:
		return "New Moon"
	case days < 7:
		return "Waxing Crescent"
	case days < 8:
		return "First Quarter"
	case days < 14:
		return "Waxing Gibbous"
	case days < 16:
		return "Full Moon"
	case days < 22:
		return "Waning Gibbous"
	case days < 23:
		return "Last Quarter"
	default:
		return "Waning Crescent"
	}
}

// IsWaning reports whether a phase name belongs to the waning half.
func IsWaning(phase string) bool {
	return len(phase) >= 6 && phase[:6] == "Waning"
}

// Season uses the northern hemisphere meteorological quadrants.
func Season(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}

type period struct {
	month    time.Month
	from, to int
}

// Approximate windows, repeated every year.
var retrogradePeriods = []period{
	{time.April, 1, 25},
	{time.August, 5, 28},
	{time.December, 1, 23},
}

// MercuryRetrograde reports whether t falls inside one of the yearly windows.
// A window runs from midnight of its first day to midnight of its last day.
func MercuryRetrograde(t time.Time) bool {
	for _, p := range retrogradePeriods {
		start := time.Date(t.Year(), p.month, p.from, 0, 0, 0, 0, t.Location())
		end := time.Date(t.Year(), p.month, p.to, 0, 0, 0, 0, t.Location())
		if !t.Before(start) && !t.After(end) {
			return true
		}
	}
	return false
}

var signThemes = map[string]string{
	"Aries":       "courage, initiative and fresh starts",
	"Taurus":      "stability, comfort and steady abundance",
	"Gemini":      "curiosity, communication and learning",
	"Cancer":      "home, emotional security and nurturing",
	"Leo":         "creativity, self-expression and heart-led leadership",
	"Virgo":       "healthy routines, service and practical refinement",
	"Libra":       "balance, partnership and harmony",
	"Scorpio":     "depth, transformation and emotional truth",
	"Sagittarius": "adventure, wisdom and expanding horizons",
	"Capricorn":   "ambition, structure and long-term goals",
	"Aquarius":    "innovation, community and independent thinking",
	"Pisces":      "intuition, compassion and spiritual connection",
}

// SignThemes returns a short description of what a sign season emphasises.
func SignThemes(sign string) string {
	if th, ok := signThemes[sign]; ok {
		return th
	}
	return "personal growth and self-discovery"
}
