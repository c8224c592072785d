package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens an in-memory SQLite database with the journal schema.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.Migrate(context.Background()))
	return d
}

// getLocation reads one location row back
func getLocation(t *testing.T, d *DB, id string) Location {
	t.Helper()
	l, err := scanLocation(d.queryRow(context.Background(),
		`SELECT `+locationColumns+` FROM map_locations WHERE id = ?`, id))
	require.NoError(t, err)
	return l
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func insertLocation(t *testing.T, d *DB, name string, visitDate *string) string {
	t.Helper()
	id, err := d.InsertLocation(context.Background(), LocationInput{
		Name:         name,
		Longitude:    121.47,
		Latitude:     31.23,
		LocationType: "point",
		VisitDate:    visitDate,
	})
	require.NoError(t, err)
	return id
}

func TestOpenDB_Dialect(t *testing.T) {
	d := setupTestDB(t)
	assert.Equal(t, DialectSQLite, d.Dialect())
	assert.Equal(t, "sqlite", d.Dialect().String())
	assert.Equal(t, "postgres", (&DB{dialect: DialectPostgres}).Dialect().String())
}

func TestRebind(t *testing.T) {
	sqlite := &DB{dialect: DialectSQLite}
	pg := &DB{dialect: DialectPostgres}

	q := "UPDATE t SET a = ?, b = ? WHERE id = ?"
	assert.Equal(t, q, sqlite.rebind(q))
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", pg.rebind(q))
}

func TestMigrate_Idempotent(t *testing.T) {
	d := setupTestDB(t)
	require.NoError(t, d.Migrate(context.Background()))
}

func TestInsertLocation_Defaults(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	id, err := d.InsertLocation(ctx, LocationInput{Name: "Bund", Longitude: 121.49, Latitude: 31.24})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got := getLocation(t, d, id)
	assert.Equal(t, "Bund", got.Name)
	assert.Equal(t, "point", got.LocationType)
	assert.Nil(t, got.Description)
	assert.NotZero(t, got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestInsertLocation_RequiresName(t *testing.T) {
	d := setupTestDB(t)
	_, err := d.InsertLocation(context.Background(), LocationInput{})
	require.Error(t, err)
}

func TestAllLocations_Order(t *testing.T) {
	d := setupTestDB(t)
	insertLocation(t, d, "old", strPtr("2021-05-01"))
	insertLocation(t, d, "undated", nil)
	insertLocation(t, d, "new", strPtr("2024-10-01"))
	insertLocation(t, d, "mid", strPtr("2023-01-15"))

	locs, err := d.AllLocations(context.Background())
	require.NoError(t, err)

	var names []string
	for _, l := range locs {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"undated", "new", "mid", "old"}, names)
}

func TestAllLocations_EmptyIsNotNil(t *testing.T) {
	d := setupTestDB(t)
	locs, err := d.AllLocations(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, locs)
	assert.Empty(t, locs)
}

func TestUpdateLocation_Partial(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	id, err := d.InsertLocation(ctx, LocationInput{
		Name:        "Yu Garden",
		Description: strPtr("first\nsecond"),
		IconColor:   strPtr("#ff0000"),
	})
	require.NoError(t, err)

	err = d.UpdateLocation(ctx, id, LocationPatch{
		Name:        strPtr("Yuyuan"),
		Description: strPtr(""),
	})
	require.NoError(t, err)

	got := getLocation(t, d, id)
	assert.Equal(t, "Yuyuan", got.Name)
	assert.Nil(t, got.Description, "empty string clears a nullable column")
	require.NotNil(t, got.IconColor, "untouched columns keep their value")
	assert.Equal(t, "#ff0000", *got.IconColor)
}

func TestUpdateLocation_Missing(t *testing.T) {
	d := setupTestDB(t)
	err := d.UpdateLocation(context.Background(), "nope", LocationPatch{Name: strPtr("x")})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteLocation_Cascades(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	id := insertLocation(t, d, "cascade", nil)

	_, err := d.InsertArea(ctx, AreaInput{LocationID: id, AreaType: "circle", Coordinates: "[1,2]", Radius: f64(10)})
	require.NoError(t, err)
	_, err = d.InsertTrajectory(ctx, TrajectoryInput{LocationID: id, PathCoordinates: "[[1,2],[3,4]]"})
	require.NoError(t, err)
	_, err = d.InsertMedia(ctx, MediaInput{LocationID: id, MediaType: "image", URL: "https://x/1.jpg"})
	require.NoError(t, err)
	tagID, err := d.InsertTag(ctx, "food", "")
	require.NoError(t, err)
	require.NoError(t, d.AttachTag(ctx, id, tagID))

	require.NoError(t, d.DeleteLocation(ctx, id))

	areas, err := d.AllAreas(ctx)
	require.NoError(t, err)
	assert.Empty(t, areas)
	trajectories, err := d.AllTrajectories(ctx)
	require.NoError(t, err)
	assert.Empty(t, trajectories)
	media, err := d.AllMedia(ctx)
	require.NoError(t, err)
	assert.Empty(t, media)
	links, err := d.AllLocationTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)

	tags, err := d.AllTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1, "deleting a location keeps the tag itself")
}

func TestDeleteLocation_Missing(t *testing.T) {
	d := setupTestDB(t)
	err := d.DeleteLocation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func f64(v float64) *float64 { return &v }

func TestDeleteArea_KeepsLocation(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	id := insertLocation(t, d, "park", nil)

	areaID, err := d.InsertArea(ctx, AreaInput{LocationID: id, AreaType: "circle", Coordinates: "[1,2]", Radius: f64(10)})
	require.NoError(t, err)
	require.NoError(t, d.DeleteArea(ctx, areaID))
	assert.ErrorIs(t, d.DeleteArea(ctx, areaID), ErrNotFound)

	areas, err := d.AllAreas(ctx)
	require.NoError(t, err)
	assert.Empty(t, areas)
	assert.Equal(t, "park", getLocation(t, d, id).Name)
}

func TestInsertArea_ColumnDefaults(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	id := insertLocation(t, d, "area", nil)

	_, err := d.InsertArea(ctx, AreaInput{LocationID: id, AreaType: "polygon", Coordinates: "[[0,0],[1,0],[1,1]]"})
	require.NoError(t, err)

	areas, err := d.AllAreas(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, DefaultFillColor, areas[0].FillColor)
	assert.Equal(t, DefaultStrokeColor, areas[0].StrokeColor)
	assert.Nil(t, areas[0].Radius)
}

func TestInsertArea_RequiresLocation(t *testing.T) {
	d := setupTestDB(t)
	_, err := d.InsertArea(context.Background(), AreaInput{LocationID: "ghost", AreaType: "circle", Coordinates: "[1,2]", Radius: f64(5)})
	require.Error(t, err, "foreign key must reject an orphan area")
}

func TestInsertTrajectory_Defaults(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	id := insertLocation(t, d, "trip", nil)

	_, err := d.InsertTrajectory(ctx, TrajectoryInput{LocationID: id, PathCoordinates: "[[1,2],[3,4]]"})
	require.NoError(t, err)

	trajectories, err := d.AllTrajectories(ctx)
	require.NoError(t, err)
	require.Len(t, trajectories, 1)
	assert.Equal(t, DefaultStrokeWeight, trajectories[0].StrokeWeight)
	assert.Equal(t, DefaultStrokeColor, trajectories[0].StrokeColor)
}

func TestAllMedia_OrderedByPosition(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	id := insertLocation(t, d, "media", nil)

	for _, m := range []MediaInput{
		{LocationID: id, MediaType: "image", URL: "c", Position: intPtr(2)},
		{LocationID: id, MediaType: "video", URL: "a", Position: intPtr(0)},
		{LocationID: id, MediaType: "image", URL: "b", Position: intPtr(1)},
		{LocationID: id, MediaType: "image", URL: "zero", SortOrder: 1},
	} {
		_, err := d.InsertMedia(ctx, m)
		require.NoError(t, err)
	}
	// legacy row without a position
	_, err := d.conn.Exec(`INSERT INTO map_media (id, location_id, media_type, url, created_at) VALUES ('legacy', ?, 'image', 'legacy', 1)`, id)
	require.NoError(t, err)

	media, err := d.AllMedia(ctx)
	require.NoError(t, err)
	var urls []string
	for _, m := range media {
		urls = append(urls, m.URL)
	}
	assert.Equal(t, []string{"a", "zero", "b", "c", "legacy"}, urls)
	assert.Nil(t, media[4].Position)
	require.NotNil(t, media[1].Position)
	assert.Equal(t, 0, *media[1].Position, "a nil position is stored as 0")
}

func TestUpdateMedia(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	id := insertLocation(t, d, "m", nil)
	mid, err := d.InsertMedia(ctx, MediaInput{LocationID: id, MediaType: "image", URL: "u", Caption: strPtr("cap")})
	require.NoError(t, err)

	require.NoError(t, d.UpdateMedia(ctx, mid, MediaPatch{Position: intPtr(3), Caption: strPtr("")}))

	media, err := d.AllMedia(ctx)
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, 3, *media[0].Position)
	assert.Nil(t, media[0].Caption)

	require.NoError(t, d.DeleteMedia(ctx, mid))
	assert.ErrorIs(t, d.DeleteMedia(ctx, mid), ErrNotFound)
}

func TestAllLocationTags_DanglingTag(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	id := insertLocation(t, d, "tagged", nil)
	tagID, err := d.InsertTag(ctx, "museum", "#123456")
	require.NoError(t, err)
	require.NoError(t, d.AttachTag(ctx, id, tagID))

	_, err = d.conn.Exec("PRAGMA foreign_keys=OFF")
	require.NoError(t, err)
	_, err = d.conn.Exec(`INSERT INTO map_location_tags (id, location_id, tag_id, created_at) VALUES ('dangling', ?, 'gone', 9999999999999)`, id)
	require.NoError(t, err)

	links, err := d.AllLocationTags(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.NotNil(t, links[0].Tag)
	assert.Equal(t, "museum", links[0].Tag.Name)
	assert.Equal(t, "#123456", links[0].Tag.Color)
	assert.Nil(t, links[1].Tag)
}

func TestDetachTag(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	id := insertLocation(t, d, "t", nil)
	tagID, err := d.InsertTag(ctx, "walk", "")
	require.NoError(t, err)
	require.NoError(t, d.AttachTag(ctx, id, tagID))

	require.NoError(t, d.DetachTag(ctx, id, tagID))
	assert.ErrorIs(t, d.DetachTag(ctx, id, tagID), ErrNotFound)
}

func TestAdminPassword(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	_, err := d.FindAdmin(ctx, "root")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, d.SetAdminPassword(ctx, "root", "one"))
	require.NoError(t, d.SetAdminPassword(ctx, "root", "two"))

	a, err := d.FindAdmin(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "two", a.PasswordHash)
}
