package db

// Location represents a row in the map_locations table
type Location struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	LocationType string  `json:"location_type"` // "point", "area", "trajectory"
	VisitDate    *string `json:"visit_date"`    // YYYY-MM-DD
	IconURL      *string `json:"icon_url"`
	IconColor    *string `json:"icon_color"`
	CreatedAt    int64   `json:"created_at"` // Unix millis
	UpdatedAt    int64   `json:"updated_at"` // Unix millis
}

// Area represents a row in the map_areas table
type Area struct {
	ID          string   `json:"id"`
	LocationID  string   `json:"location_id"`
	AreaType    string   `json:"area_type"`   // "polygon", "circle"
	Coordinates string   `json:"coordinates"` // JSON: [[lng,lat],...] or [lng,lat]
	Radius      *float64 `json:"radius"`      // meters, circle only
	FillColor   string   `json:"fill_color"`
	StrokeColor string   `json:"stroke_color"`
	CreatedAt   int64    `json:"created_at"`
}

// Trajectory represents a row in the map_trajectories table
type Trajectory struct {
	ID              string  `json:"id"`
	LocationID      string  `json:"location_id"`
	PathCoordinates string  `json:"path_coordinates"` // JSON: [[lng,lat],...] in travel order
	StrokeColor     string  `json:"stroke_color"`
	StrokeWeight    float64 `json:"stroke_weight"`
	CreatedAt       int64   `json:"created_at"`
}

// Media represents a row in the map_media table
type Media struct {
	ID         string  `json:"id"`
	LocationID string  `json:"location_id"`
	MediaType  string  `json:"media_type"` // "image", "video"
	URL        string  `json:"url"`
	Caption    *string `json:"caption"`
	SortOrder  int     `json:"sort_order"` // legacy, kept for storage compatibility
	Position   *int    `json:"position"`   // paragraph insertion index
	CreatedAt  int64   `json:"created_at"`
}

// Tag represents a row in the map_tags table
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt int64  `json:"created_at"`
}

// LocationTag is a map_location_tags join row with its tag embedded.
// Tag is nil when the join row points at a missing tag.
type LocationTag struct {
	LocationID string `json:"location_id"`
	Tag        *Tag   `json:"tag"`
}

// Admin represents a row in the map_admin table
type Admin struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	CreatedAt    int64  `json:"created_at"`
}

// LocationInput holds the fields of a new location
type LocationInput struct {
	Name         string
	Description  *string
	Longitude    float64
	Latitude     float64
	LocationType string
	VisitDate    *string
	IconURL      *string
	IconColor    *string
}

// LocationPatch holds a partial location update. Nil fields are left alone;
// a pointer to "" stores NULL for the nullable text columns.
type LocationPatch struct {
	Name        *string
	Description *string
	Longitude   *float64
	Latitude    *float64
	VisitDate   *string
	IconURL     *string
	IconColor   *string
}

// Empty reports whether the patch sets no field
func (p LocationPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Longitude == nil && p.Latitude == nil &&
		p.VisitDate == nil && p.IconURL == nil && p.IconColor == nil
}

// AreaInput holds the fields of a new area. Empty colors take the column defaults.
type AreaInput struct {
	LocationID  string
	AreaType    string
	Coordinates string
	Radius      *float64
	FillColor   string
	StrokeColor string
}

// TrajectoryInput holds the fields of a new trajectory. Zero values take the column defaults.
type TrajectoryInput struct {
	LocationID      string
	PathCoordinates string
	StrokeColor     string
	StrokeWeight    float64
}

// MediaInput holds the fields of a new media item. A nil Position is stored as 0.
type MediaInput struct {
	LocationID string
	MediaType  string
	URL        string
	Caption    *string
	Position   *int
	SortOrder  int
}

// MediaPatch holds a partial media update. A pointer to "" clears the caption.
type MediaPatch struct {
	Caption   *string
	Position  *int
	SortOrder *int
}

// Empty reports whether the patch sets no field
func (p MediaPatch) Empty() bool {
	return p.Caption == nil && p.Position == nil && p.SortOrder == nil
}
