package extract

import (
	"regexp"
	"strconv"
	"time"
)

var (
	dmyTimeExpr = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})\s+(\d{1,2}):(\d{2})`)
	ymdTimeExpr = regexp.MustCompile(`(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})\s+(\d{1,2}):(\d{2})`)
	// Schedule listings also print the kickoff first: "20:00 15/01/2025".
	timeDmyExpr = regexp.MustCompile(`(\d{1,2}):(\d{2})\s+(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	dmTimeExpr  = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})\s+(\d{1,2}):(\d{2})`)
)

// TimeInferencer recovers a kickoff date-time from free text. Patterns are
// tried in order; when none match it falls back to tomorrow at DefaultHour
// relative to Now. The fallback is policy: a fixture without an extractable
// time still needs an orderable date rather than failing the candidate.
type TimeInferencer struct {
	DefaultHour int
	Now         func() time.Time
}

func NewTimeInferencer(defaultHour int) *TimeInferencer {
	return &TimeInferencer{DefaultHour: defaultHour, Now: time.Now}
}

// Infer parses the first recognizable date-time in text. The year-less
// DD/MM HH:MM form is completed with refYear. The boolean reports whether a
// date was actually found in the text (false means the default was used).
func (ti *TimeInferencer) Infer(text string, refYear int) (time.Time, bool) {
	if m := dmyTimeExpr.FindStringSubmatch(text); m != nil {
		if t, ok := buildTime(m[3], m[2], m[1], m[4], m[5]); ok {
			return t, true
		}
	}
	if m := ymdTimeExpr.FindStringSubmatch(text); m != nil {
		if t, ok := buildTime(m[1], m[2], m[3], m[4], m[5]); ok {
			return t, true
		}
	}
	if m := timeDmyExpr.FindStringSubmatch(text); m != nil {
		if t, ok := buildTime(m[5], m[4], m[3], m[1], m[2]); ok {
			return t, true
		}
	}
	if m := dmTimeExpr.FindStringSubmatch(text); m != nil {
		if t, ok := buildTime(strconv.Itoa(refYear), m[2], m[1], m[3], m[4]); ok {
			return t, true
		}
	}
	return ti.Default(), false
}

// Default is tomorrow at DefaultHour:00 relative to the inferencer's clock.
func (ti *TimeInferencer) Default() time.Time {
	now := ti.Now()
	t := time.Date(now.Year(), now.Month(), now.Day(), ti.DefaultHour, 0, 0, 0, now.Location())
	return t.AddDate(0, 0, 1)
}

func buildTime(year, month, day, hour, minute string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	h, _ := strconv.Atoi(hour)
	mi, _ := strconv.Atoi(minute)

	if mo < 1 || mo > 12 || d < 1 || d > 31 || h > 23 || mi > 59 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(mo), d, h, mi, 0, 0, time.Local), true
}
