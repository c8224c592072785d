// Package session tracks the editing mode and the draft produced by a drawing
// gesture until it is committed.
//
//	Idle ──SetMode──▶ DrawingPoint ──PointClicked──▶ DrawingPoint (draft)
//	     ──SetMode──▶ DrawingPolygon ──PolygonClosed──▶ Idle (draft)
//	     ──SetMode──▶ DrawingCircle ──CircleDrawn──▶ Idle (draft)
//
// Entering a drawing mode needs a logged-in editor and clears both the draft and
// the selection. At most one of draft and selection is set at any time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"geojournal/internal/collection"
	"geojournal/internal/db"
	"geojournal/internal/logging"
)

var (
	ErrAuthMismatch = errors.New("username or password is incorrect")
	ErrNotEditing   = errors.New("not in editing mode")
	ErrWrongMode    = errors.New("gesture does not match the drawing mode")
	ErrNoDraft      = errors.New("no pending draft")
)

// Mode is the active drawing tool
type Mode int

const (
	Idle Mode = iota
	DrawingPoint
	DrawingPolygon
	DrawingCircle
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case DrawingPoint:
		return "point"
	case DrawingPolygon:
		return "polygon"
	case DrawingCircle:
		return "circle"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a tool name onto a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "idle", "none":
		return Idle, nil
	case "point":
		return DrawingPoint, nil
	case "polygon":
		return DrawingPolygon, nil
	case "circle":
		return DrawingCircle, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Authenticator checks editor credentials
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (bool, error)
}

// Committer persists drafts
type Committer interface {
	CreateLocation(ctx context.Context, in db.LocationInput) (string, bool)
	CreateArea(ctx context.Context, in db.AreaInput) bool
}

var _ Committer = (*collection.Collection)(nil)

// Defaults are the values a new draft starts with
type Defaults struct {
	PointName   string
	AreaName    string
	IconColor   string
	FillColor   string
	StrokeColor string
}

// DefaultDefaults returns the stock draft values
func DefaultDefaults() Defaults {
	return Defaults{
		PointName:   "New place",
		AreaName:    "New area",
		IconColor:   "#1d1d1f",
		FillColor:   db.DefaultFillColor,
		StrokeColor: db.DefaultStrokeColor,
	}
}

// Draft is a location that has not been stored yet. Area is set for area
// drafts; its LocationID is filled in on commit.
type Draft struct {
	Location db.LocationInput
	Area     *db.AreaInput
}

func (d Draft) clone() Draft {
	out := d
	if d.Area != nil {
		a := *d.Area
		out.Area = &a
	}
	return out
}

// Session is one editor's state. It is safe for concurrent use.
type Session struct {
	auth     Authenticator
	store    Committer
	defaults Defaults
	now      func() time.Time
	log      *slog.Logger

	mu       sync.Mutex
	editing  bool
	mode     Mode
	draft    *Draft
	selected string
}

// Option configures a Session
type Option func(*Session)

// WithClock replaces time.Now for the draft visit date
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.log = logging.ForModule(logger, "session") }
}

// New returns an idle, logged-out session
func New(auth Authenticator, store Committer, defaults Defaults, opts ...Option) *Session {
	s := &Session{
		auth:     auth,
		store:    store,
		defaults: defaults,
		now:      time.Now,
		log:      logging.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login starts editing after a credential check and selects the point tool
func (s *Session) Login(ctx context.Context, username, password string) error {
	ok, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.log.Info("login rejected", "username", username)
		return ErrAuthMismatch
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = true
	s.enter(DrawingPoint)
	return nil
}

// Exit leaves editing mode from any state and drops the draft. The selected
// location is kept; Select("") clears it.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = false
	s.mode = Idle
	s.draft = nil
}

// SetMode switches the drawing tool. Drawing modes need a logged-in editor.
func (s *Session) SetMode(m Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m == Idle {
		s.mode = Idle
		return nil
	}
	if !s.editing {
		return ErrNotEditing
	}
	s.enter(m)
	return nil
}

// enter switches to a drawing mode; s.mu must be held
func (s *Session) enter(m Mode) {
	s.mode = m
	s.draft = nil
	s.selected = ""
}

// Select focuses an existing location and discards any draft. An empty id clears the selection.
func (s *Session) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
	if id != "" {
		s.draft = nil
	}
}

// Mode returns the active tool
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Editing reports whether an editor is logged in
func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// Selected returns the selected location id, empty for none
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Draft returns a copy of the pending draft
func (s *Session) Draft() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return Draft{}, false
	}
	return s.draft.clone(), true
}

// EditDraft applies fn to the pending draft, e.g. to set the name from a form
func (s *Session) EditDraft(fn func(*Draft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrNoDraft
	}
	fn(s.draft)
	return nil
}
