package schedule

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"
)

// CalendarFile is written into the output directory.
const CalendarFile = "content_calendar.json"

type Entry struct {
	Date      string `json:"date"`
	Topic     string `json:"topic"`
	Published bool   `json:"published"`
}

// Calendar plans one topic per day starting at start. With rotate the topics
// cycle in order; otherwise each day draws from rnd.
func Calendar(start time.Time, days int, topics []string, rotate bool, rnd *rand.Rand) []Entry {
	if days <= 0 || len(topics) == 0 {
		return nil
	}
	out := make([]Entry, 0, days)
	for i := 0; i < days; i++ {
		var topic string
		if rotate || rnd == nil {
			topic = topics[i%len(topics)]
		} else {
			topic = topics[rnd.IntN(len(topics))]
		}
		out = append(out, Entry{
			Date:  start.AddDate(0, 0, i).Format(time.DateOnly),
			Topic: topic,
		})
	}
	return out
}

// WriteCalendar saves entries as indented JSON under dir.
func WriteCalendar(dir string, entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode calendar: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write calendar: %w", err)
	}
	path := filepath.Join(dir, CalendarFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write calendar: %w", err)
	}
	return path, nil
}
