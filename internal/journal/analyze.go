package journal

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"geojournal/internal/content"
)

// Issue is one location that fails an integrity check
type Issue struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// StaleLocation is a location that has not been edited for a long time
type StaleLocation struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DaysSinceUpdate int64  `json:"days_since_update"`
}

// HealthBreakdown shows the sub-scores of the health formula
type HealthBreakdown struct {
	Completeness float64 `json:"completeness"`
	Integrity    float64 `json:"integrity"`
	Placement    float64 `json:"placement"`
	Dating       float64 `json:"dating"`
}

// Report is the integrity analysis of a journal
type Report struct {
	HealthScore     float64         `json:"health_score"`
	HealthBreakdown HealthBreakdown `json:"health_breakdown"`
	Total           int             `json:"total"`
	ByKind          map[string]int  `json:"by_kind"`
	MediaCount      int             `json:"media_count"`
	TagCount        int             `json:"tag_count"`

	// area/trajectory locations with no geometry row, e.g. a failed second write on create
	MissingGeometry []Issue `json:"missing_geometry"`
	// unknown type discriminators and coordinates that do not decode
	CorruptGeometry []Issue `json:"corrupt_geometry"`
	// media whose position lies outside [0, paragraph count]
	MediaOutOfRange []Issue         `json:"media_out_of_range"`
	Undated         []Issue         `json:"undated"`
	Stale           []StaleLocation `json:"stale"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	StaleDays int64
	Now       time.Time
}

// DefaultAnalyzerConfig returns sensible defaults
func DefaultAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{StaleDays: 365}
}

// Analyze checks every aggregate and computes a composite health score.
// A broken location never stops the others from being checked.
func Analyze(aggs []Aggregate, config *AnalyzerConfig) *Report {
	if config == nil {
		config = DefaultAnalyzerConfig()
	}
	now := config.Now
	if now.IsZero() {
		now = time.Now()
	}
	nowMs := now.UnixMilli()
	staleThresholdMs := config.StaleDays * 86_400_000

	r := &Report{
		Total:           len(aggs),
		ByKind:          map[string]int{},
		MissingGeometry: []Issue{},
		CorruptGeometry: []Issue{},
		MediaOutOfRange: []Issue{},
		Undated:         []Issue{},
		Stale:           []StaleLocation{},
	}
	tags := map[string]bool{}

	for _, a := range aggs {
		r.ByKind[a.LocationType]++
		r.MediaCount += len(a.Media)
		for _, t := range a.Tags {
			tags[t.ID] = true
		}

		if _, err := Resolve(a); err != nil {
			issue := Issue{ID: a.ID, Name: a.Name, Detail: err.Error()}
			if errors.Is(err, ErrMissingGeometry) {
				r.MissingGeometry = append(r.MissingGeometry, issue)
			} else {
				r.CorruptGeometry = append(r.CorruptGeometry, issue)
			}
		}

		paragraphs := len(content.Paragraphs(a.Description))
		for _, m := range a.Media {
			if m.Position == nil {
				continue
			}
			if p := *m.Position; p < 0 || p > paragraphs {
				r.MediaOutOfRange = append(r.MediaOutOfRange, Issue{
					ID:     a.ID,
					Name:   a.Name,
					Detail: fmt.Sprintf("media %s at position %d, %d paragraph(s)", m.ID, p, paragraphs),
				})
			}
		}

		if a.VisitDate == nil || *a.VisitDate == "" {
			r.Undated = append(r.Undated, Issue{ID: a.ID, Name: a.Name, Detail: "no visit date"})
		}

		if staleThresholdMs > 0 {
			if ageMs := nowMs - a.UpdatedAt; ageMs > staleThresholdMs {
				r.Stale = append(r.Stale, StaleLocation{
					ID:              a.ID,
					Name:            a.Name,
					DaysSinceUpdate: ageMs / 86_400_000,
				})
			}
		}
	}
	r.TagCount = len(tags)

	sort.SliceStable(r.Stale, func(i, j int) bool {
		return r.Stale[i].DaysSinceUpdate > r.Stale[j].DaysSinceUpdate
	})

	total := float64(r.Total)
	if total > 0 {
		r.HealthBreakdown = HealthBreakdown{
			Completeness: clamp(1.0-math.Min(float64(len(r.MissingGeometry))/total, 0.2)*5.0, 0, 1),
			Integrity:    clamp(1.0-math.Min(float64(len(r.CorruptGeometry))/total, 0.1)*10.0, 0, 1),
			Placement:    clamp(1.0-math.Min(float64(len(r.MediaOutOfRange))/total, 0.1)*10.0, 0, 1),
			Dating:       clamp(1.0-float64(len(r.Undated))/total, 0, 1),
		}
	} else {
		r.HealthBreakdown = HealthBreakdown{Completeness: 1, Integrity: 1, Placement: 1, Dating: 1}
	}
	b := r.HealthBreakdown
	r.HealthScore = 0.35*b.Completeness + 0.30*b.Integrity + 0.20*b.Placement + 0.15*b.Dating

	return r
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
