// Package schedule decides when posts are generated: cron expressions,
// admission control against the index, and the content calendar.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultCron fires at 09:00, 15:00 and 20:00.
const DefaultCron = "0 9,15,20 * * *"

// bits is a set of small integers, one bit per value.
type bits uint64

func (b bits) has(v int) bool { return b&(1<<uint(v)) != 0 }

// Cron is a parsed 5-field expression: minute hour day-of-month month day-of-week.
type Cron struct {
	expr   string
	minute bits
	hour   bits
	dom    bits
	month  bits
	dow    bits
	// Standard cron matches either day field when both are restricted.
	domStar, dowStar bool
}

func (c *Cron) String() string { return c.expr }

type fieldSpec struct {
	name     string
	min, max int
}

var fieldSpecs = [5]fieldSpec{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 6},
}

// ParseCron parses a cron expression. Fields accept *, lists, ranges and steps.
func ParseCron(expr string) (*Cron, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron: expected 5 fields, got %d", len(fields))
	}
	var sets [5]bits
	for i, f := range fields {
		b, err := parseField(f, fieldSpecs[i].min, fieldSpecs[i].max)
		if err != nil {
			return nil, fmt.Errorf("cron: %s: %w", fieldSpecs[i].name, err)
		}
		sets[i] = b
	}
	return &Cron{
		expr:    strings.Join(fields, " "),
		minute:  sets[0],
		hour:    sets[1],
		dom:     sets[2],
		month:   sets[3],
		dow:     sets[4],
		domStar: strings.HasPrefix(fields[2], "*"),
		dowStar: strings.HasPrefix(fields[4], "*"),
	}, nil
}

func (c *Cron) dayMatches(t time.Time) bool {
	dom, dow := c.dom.has(t.Day()), c.dow.has(int(t.Weekday()))
	if c.domStar || c.dowStar {
		return dom && dow
	}
	return dom || dow
}

// Next returns the first fire time strictly after from, or the zero time if
// none exists within five years.
func (c *Cron) Next(from time.Time) time.Time {
	t := from.Truncate(time.Minute).Add(time.Minute)
	limit := t.AddDate(5, 0, 0)
	loc := t.Location()

	for t.Before(limit) {
		switch {
		case !c.month.has(int(t.Month())):
			t = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, loc)
		case !c.dayMatches(t):
			t = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, loc)
		case !c.hour.has(t.Hour()):
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, loc)
		case !c.minute.has(t.Minute()):
			t = t.Add(time.Minute)
		default:
			return t
		}
	}
	return time.Time{}
}

func parseField(field string, min, max int) (bits, error) {
	var out bits
	for _, part := range strings.Split(field, ",") {
		b, err := parseRange(part, min, max)
		if err != nil {
			return 0, err
		}
		out |= b
	}
	if out == 0 {
		return 0, fmt.Errorf("empty field")
	}
	return out, nil
}

func parseRange(part string, min, max int) (bits, error) {
	step := 1
	hasStep := false
	if base, s, ok := strings.Cut(part, "/"); ok {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid step %q", s)
		}
		step, hasStep, part = n, true, base
	}

	lo, hi := min, max
	switch {
	case part == "*":
	case strings.Contains(part, "-"):
		a, b, _ := strings.Cut(part, "-")
		var err error
		if lo, err = strconv.Atoi(a); err != nil {
			return 0, fmt.Errorf("invalid range start %q", a)
		}
		if hi, err = strconv.Atoi(b); err != nil {
			return 0, fmt.Errorf("invalid range end %q", b)
		}
	default:
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q", part)
		}
		lo = v
		if !hasStep {
			hi = v
		}
	}
	if lo < min || hi > max || lo > hi {
		return 0, fmt.Errorf("range %d-%d out of bounds [%d, %d]", lo, hi, min, max)
	}

	var b bits
	for v := lo; v <= hi; v += step {
		b |= 1 << uint(v)
	}
	return b, nil
}
