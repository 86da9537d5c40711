package profit

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate reads an order timestamp in any of the export layouts.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateRange spans the order dates of a dataset.
type DateRange struct {
	From  time.Time
	To    time.Time
	Valid bool
}

func (d *DateRange) include(t time.Time) {
	if !d.Valid {
		d.From, d.To, d.Valid = t, t, true
		return
	}
	if t.Before(d.From) {
		d.From = t
	}
	if t.After(d.To) {
		d.To = t
	}
}

// Label renders the range compactly, e.g. "Mar 03 → 09, 2025".
func (d DateRange) Label() string {
	if !d.Valid {
		return "No dates found"
	}
	from, to := d.From, d.To
	switch {
	case sameDay(from, to):
		return from.Format("Jan 02, 2006")
	case from.Year() == to.Year() && from.Month() == to.Month():
		return fmt.Sprintf("%s → %s", from.Format("Jan 02"), to.Format("02, 2006"))
	case from.Year() == to.Year():
		return fmt.Sprintf("%s → %s", from.Format("Jan 02"), to.Format("Jan 02, 2006"))
	default:
		return fmt.Sprintf("%s → %s", from.Format("Jan 02, 2006"), to.Format("Jan 02, 2006"))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
