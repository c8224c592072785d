package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geojournal/internal/db"
)

var analyzeNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func daysBefore(d int) int64 {
	return analyzeNow.Add(-time.Duration(d) * 24 * time.Hour).UnixMilli()
}

func TestAnalyze_Empty(t *testing.T) {
	r := Analyze(nil, &AnalyzerConfig{StaleDays: 30, Now: analyzeNow})
	assert.Equal(t, 0, r.Total)
	assert.InDelta(t, 1.0, r.HealthScore, 1e-9)
	assert.NotNil(t, r.MissingGeometry)
	assert.NotNil(t, r.Stale)
}

func TestAnalyze_HealthyJournal(t *testing.T) {
	l := loc("p", "point")
	l.VisitDate = strPtr("2026-05-01")
	l.UpdatedAt = daysBefore(1)
	aggs := Build(Rows{Locations: []db.Location{l}})

	r := Analyze(aggs, &AnalyzerConfig{StaleDays: 30, Now: analyzeNow})
	assert.Equal(t, 1, r.Total)
	assert.Equal(t, 1, r.ByKind["point"])
	assert.Empty(t, r.MissingGeometry)
	assert.Empty(t, r.CorruptGeometry)
	assert.Empty(t, r.Undated)
	assert.Empty(t, r.Stale)
	assert.InDelta(t, 1.0, r.HealthScore, 1e-9)
}

func TestAnalyze_FindsProblems(t *testing.T) {
	missing := loc("missing", "area")
	missing.UpdatedAt = daysBefore(400)
	corrupt := loc("corrupt", "area")
	corrupt.VisitDate = strPtr("2026-01-01")
	corrupt.UpdatedAt = daysBefore(40)
	misplaced := loc("misplaced", "point")
	misplaced.Description = strPtr("one\ntwo")
	misplaced.VisitDate = strPtr("2026-01-01")
	misplaced.UpdatedAt = daysBefore(1)

	aggs := Build(Rows{
		Locations: []db.Location{missing, corrupt, misplaced},
		Areas:     []db.Area{{ID: "a", LocationID: "corrupt", AreaType: "polygon", Coordinates: "[[0,0]]"}},
		Media: []db.Media{
			{ID: "ok", LocationID: "misplaced", Position: intPtr(2)},
			{ID: "far", LocationID: "misplaced", Position: intPtr(3)},
			{ID: "unset", LocationID: "misplaced"},
		},
		LocationTags: []db.LocationTag{
			{LocationID: "missing", Tag: &db.Tag{ID: "t1"}},
			{LocationID: "corrupt", Tag: &db.Tag{ID: "t1"}},
			{LocationID: "misplaced", Tag: &db.Tag{ID: "t2"}},
		},
	})

	r := Analyze(aggs, &AnalyzerConfig{StaleDays: 30, Now: analyzeNow})
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 3, r.MediaCount)
	assert.Equal(t, 2, r.TagCount)

	require.Len(t, r.MissingGeometry, 1)
	assert.Equal(t, "missing", r.MissingGeometry[0].ID)
	require.Len(t, r.CorruptGeometry, 1)
	assert.Equal(t, "corrupt", r.CorruptGeometry[0].ID)
	require.Len(t, r.MediaOutOfRange, 1)
	assert.Contains(t, r.MediaOutOfRange[0].Detail, "far")
	require.Len(t, r.Undated, 1)
	assert.Equal(t, "missing", r.Undated[0].ID)

	require.Len(t, r.Stale, 2)
	assert.Equal(t, "missing", r.Stale[0].ID, "oldest first")
	assert.Equal(t, int64(400), r.Stale[0].DaysSinceUpdate)

	assert.Less(t, r.HealthScore, 1.0)
	assert.GreaterOrEqual(t, r.HealthScore, 0.0)
	assert.InDelta(t, 0.0, r.HealthBreakdown.Integrity, 1e-9, "a third of locations corrupt saturates the penalty")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-1, 0, 1))
	assert.Equal(t, 1.0, clamp(2, 0, 1))
	assert.Equal(t, 0.5, clamp(0.5, 0, 1))
}
