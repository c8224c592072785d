package session

import "context"

// CommitResult reports which of the two store writes of a commit succeeded
type CommitResult struct {
	LocationID      string
	LocationCreated bool
	HadArea         bool
	AreaCreated     bool
}

// Incomplete reports a stored location whose area write failed. The location
// stays in the store without geometry; nothing is rolled back.
func (r CommitResult) Incomplete() bool {
	return r.LocationCreated && r.HadArea && !r.AreaCreated
}

// Commit stores the pending draft: first the location, then its area with the
// new location id. The two writes are independent. The draft and the
// selection are cleared whatever the outcome.
func (s *Session) Commit(ctx context.Context) (CommitResult, error) {
	s.mu.Lock()
	if !s.editing {
		s.mu.Unlock()
		return CommitResult{}, ErrNotEditing
	}
	if s.draft == nil {
		s.mu.Unlock()
		return CommitResult{}, ErrNoDraft
	}
	d := s.draft.clone()
	s.draft = nil
	s.selected = ""
	s.mu.Unlock()

	res := CommitResult{HadArea: d.Area != nil}
	id, ok := s.store.CreateLocation(ctx, d.Location)
	if !ok {
		s.log.Warn("draft not stored", "name", d.Location.Name)
		return res, nil
	}
	res.LocationID = id
	res.LocationCreated = true

	if d.Area != nil {
		area := *d.Area
		area.LocationID = id
		res.AreaCreated = s.store.CreateArea(ctx, area)
		if !res.AreaCreated {
			s.log.Error("location stored without its area", "id", id, "area_type", area.AreaType)
		}
	}
	return res, nil
}
