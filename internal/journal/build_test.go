package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geojournal/internal/db"
)

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func f64Ptr(f float64) *float64 { return &f }

func loc(id, typ string) db.Location {
	return db.Location{ID: id, Name: "Place " + id, LocationType: typ, Longitude: 121.47, Latitude: 31.23}
}

func TestBuild_EmptyLocationHasEmptySlices(t *testing.T) {
	aggs := Build(Rows{Locations: []db.Location{loc("L1", "point")}})
	require.Len(t, aggs, 1)

	a := aggs[0]
	assert.NotNil(t, a.Areas)
	assert.NotNil(t, a.Trajectories)
	assert.NotNil(t, a.Media)
	assert.NotNil(t, a.Tags)
	assert.Empty(t, a.Areas)
	assert.Empty(t, a.Media)
}

func TestBuild_PreservesLocationOrder(t *testing.T) {
	aggs := Build(Rows{Locations: []db.Location{loc("c", "point"), loc("a", "point"), loc("b", "point")}})
	require.Len(t, aggs, 3)
	assert.Equal(t, "c", aggs[0].ID)
	assert.Equal(t, "a", aggs[1].ID)
	assert.Equal(t, "b", aggs[2].ID)
}

func TestBuild_GroupsDependentRows(t *testing.T) {
	red := &db.Tag{ID: "t1", Name: "red"}
	rows := Rows{
		Locations: []db.Location{loc("L1", "area"), loc("L2", "trajectory")},
		Areas: []db.Area{
			{ID: "a1", LocationID: "L1", AreaType: "polygon"},
			{ID: "a2", LocationID: "L1", AreaType: "circle"},
			{ID: "orphan", LocationID: "gone"},
		},
		Trajectories: []db.Trajectory{{ID: "t1", LocationID: "L2"}},
		Media: []db.Media{
			{ID: "m2", LocationID: "L1", Position: intPtr(0)},
			{ID: "m1", LocationID: "L1", Position: intPtr(3)},
			{ID: "m3", LocationID: "L2", Position: intPtr(1)},
		},
		LocationTags: []db.LocationTag{
			{LocationID: "L1", Tag: red},
			{LocationID: "L2", Tag: nil},
		},
	}
	aggs := Build(rows)
	require.Len(t, aggs, 2)

	l1, l2 := aggs[0], aggs[1]
	require.Len(t, l1.Areas, 2)
	assert.Equal(t, "a1", l1.Areas[0].ID)
	assert.Equal(t, "a2", l1.Areas[1].ID)
	assert.Empty(t, l1.Trajectories)
	require.Len(t, l1.Media, 2)
	assert.Equal(t, "m2", l1.Media[0].ID, "media keep fetch order")
	assert.Equal(t, []db.Tag{*red}, l1.Tags)

	assert.Empty(t, l2.Areas)
	require.Len(t, l2.Trajectories, 1)
	require.Len(t, l2.Media, 1)
	assert.Empty(t, l2.Tags, "nil tag join rows are dropped")
	assert.NotNil(t, l2.Tags)
}

func TestBuild_Deterministic(t *testing.T) {
	rows := Rows{
		Locations: []db.Location{loc("L1", "point"), loc("L2", "point")},
		Media:     []db.Media{{ID: "m1", LocationID: "L2"}, {ID: "m2", LocationID: "L1"}},
	}
	assert.Equal(t, Build(rows), Build(rows))
}

func TestAggregate_CloneDoesNotAlias(t *testing.T) {
	a := Build(Rows{
		Locations: []db.Location{loc("L1", "point")},
		Media:     []db.Media{{ID: "m1", LocationID: "L1"}},
	})[0]
	c := a.Clone()
	c.Media[0].URL = "changed"
	c.Media = append(c.Media, db.Media{ID: "m2"})

	assert.Equal(t, "", a.Media[0].URL)
	assert.Len(t, a.Media, 1)
}
