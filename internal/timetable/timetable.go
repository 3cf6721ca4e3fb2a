// Package timetable expands a weekly class template into a date-keyed
// timetable.
package timetable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	// InputLayout is the layout of the range bounds accepted by the CLI.
	InputLayout = "2006-01-02"
	// KeyLayout is the dd-mm-yyyy layout of timetable keys.
	KeyLayout = "02-01-2006"
)

var (
	ErrInvalidRange   = errors.New("end date is before start date")
	ErrUnknownWeekday = errors.New("unknown weekday")
	ErrInvalidSlot    = errors.New("invalid time slot")
)

var slotPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d-([01]\d|2[0-3]):[0-5]\d$`)

// Slot is one class period. Room is nil when the period has no room.
type Slot struct {
	Subject string  `json:"subject"`
	Room    *string `json:"room"`
}

// Day maps "HH:MM-HH:MM" slot keys to periods. Zero-padded keys sort
// chronologically, which is the order encoding/json writes them in.
type Day map[string]Slot

// Weekly is a template of class days by weekday.
type Weekly map[time.Weekday]Day

// Entry is the classes of one calendar date.
type Entry struct {
	Date time.Time
	Day  Day
}

// Timetable is a date-ordered list of entries.
type Timetable []Entry

// Parse reads a weekly template from JSON of the form
// {"Monday": {"09:00-10:00": {"subject": "OS", "room": "Room 103"}}}.
func Parse(r io.Reader) (Weekly, error) {
	var raw map[string]Day
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}

	weekly := make(Weekly, len(raw))
	for name, day := range raw {
		wd, ok := parseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
		}
		for key := range day {
			if err := ValidateSlot(key); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		weekly[wd] = day
	}
	return weekly, nil
}

func parseWeekday(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(name)) {
			return d, true
		}
	}
	return 0, false
}

// ValidateSlot reports whether key is a well-formed "HH:MM-HH:MM" period
// that starts before it ends.
func ValidateSlot(key string) error {
	if !slotPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, key)
	}
	from, to, _ := strings.Cut(key, "-")
	if from >= to {
		return fmt.Errorf("%w: %q ends before it starts", ErrInvalidSlot, key)
	}
	return nil
}

// LunchBreak is the subject of the midday period in the built-in templates.
const LunchBreak = "Lunch Break"

// Class is a recurring period that occupies a room.
type Class struct {
	Weekday time.Weekday
	Slot    string
	Subject string
	Room    string
}

// Classes lists the room-occupying periods of weekly, ordered by weekday
// then slot. Periods without a room or subject and lunch breaks are left out.
func Classes(weekly Weekly) []Class {
	var out []Class
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day, ok := weekly[wd]
		if !ok {
			continue
		}
		keys := make([]string, 0, len(day))
		for k := range day {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			slot := day[k]
			if slot.Room == nil || *slot.Room == "" || slot.Subject == "" || slot.Subject == LunchBreak {
				continue
			}
			out = append(out, Class{Weekday: wd, Slot: k, Subject: slot.Subject, Room: *slot.Room})
		}
	}
	return out
}

// Expand returns, in calendar order, one entry for every date in
// [start, end] that is not a skip day and has a template day. Times of day
// are ignored.
func Expand(weekly Weekly, start, end time.Time, skip time.Weekday) (Timetable, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	var tt Timetable
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == skip {
			continue
		}
		day, ok := weekly[d.Weekday()]
		if !ok {
			continue
		}
		tt = append(tt, Entry{Date: d, Day: day})
	}
	return tt, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MarshalJSON encodes tt as one object keyed by dd-mm-yyyy, keeping
// calendar order.
func (tt Timetable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range tt {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Date.Format(KeyLayout))
		if err != nil {
			return nil, err
		}
		day, err := json.Marshal(e.Day)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(day)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Write encodes tt to w as indented JSON.
func Write(w io.Writer, tt Timetable) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(tt)
}
