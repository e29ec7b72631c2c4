package astro

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layouts accepted for stored dates. Files written by the older generator
// carry ISO timestamps and plain dates without a zone.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseDate reads an RFC 3339 timestamp, or a zone-less ISO timestamp which is
// taken as local time. The empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	aux := struct {
		*plain
		Date string `json:"date"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := ParseDate(aux.Date)
	if err != nil {
		return err
	}
	s.Date = t
	return nil
}
