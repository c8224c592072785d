package journal

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const dateLayout = "2006-01-02"

// Filter narrows a list of aggregates. Zero fields match everything.
type Filter struct {
	Keyword string // case-insensitive substring of name or description
	Kind    Kind   // 0 means all kinds
	From    string // inclusive lower visit date, YYYY-MM-DD
	To      string // inclusive upper visit date, YYYY-MM-DD
}

// Active reports whether any criterion is set
func (f Filter) Active() bool {
	return f.Keyword != "" || f.Kind != 0 || f.From != "" || f.To != ""
}

// Apply returns the aggregates matching f in their original order.
// Locations without a parseable visit date pass the date bounds.
func (f Filter) Apply(in []Aggregate) []Aggregate {
	if !f.Active() {
		return in
	}

	fold := cases.Fold()
	keyword := fold.String(strings.TrimSpace(f.Keyword))
	from, hasFrom := parseDate(f.From)
	to, hasTo := parseDate(f.To)

	out := make([]Aggregate, 0, len(in))
	for _, a := range in {
		if keyword != "" {
			name := fold.String(a.Name)
			desc := ""
			if a.Description != nil {
				desc = fold.String(*a.Description)
			}
			if !strings.Contains(name, keyword) && !strings.Contains(desc, keyword) {
				continue
			}
		}
		if f.Kind != 0 && a.LocationType != f.Kind.String() {
			continue
		}
		if a.VisitDate != nil && (hasFrom || hasTo) {
			if visited, ok := parseDate(*a.VisitDate); ok {
				if hasFrom && visited.Before(from) {
					continue
				}
				if hasTo && visited.After(to) {
					continue
				}
			}
		}
		out = append(out, a)
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if len(s) > len(dateLayout) {
		// timestamps: keep the date part
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
