package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"geojournal/internal/content"
	"geojournal/internal/journal"
	"geojournal/internal/render"
)

type handler struct {
	journal  Journal
	composer *content.Composer
	log      *slog.Logger
}

type locationList struct {
	Locations []journal.Aggregate `json:"locations"`
	Total     int                 `json:"total"`
}

func (h *handler) listLocations(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	q := r.URL.Query()
	f := journal.Filter{Keyword: q.Get("q"), From: q.Get("from"), To: q.Get("to")}
	if t := q.Get("type"); t != "" && t != "all" {
		kind, err := journal.ParseKind(t)
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, "Unknown location type", nil)
			return
		}
		f.Kind = kind
	}

	all := h.journal.Locations()
	matched := f.Apply(all)
	h.respondWithJSON(w, http.StatusOK, locationList{Locations: matched, Total: len(all)})
}

func (h *handler) getLocation(w http.ResponseWriter, r *http.Request) {
	a, ok := h.location(w, r)
	if !ok {
		return
	}
	h.respondWithJSON(w, http.StatusOK, a)
}

func (h *handler) getContent(w http.ResponseWriter, r *http.Request) {
	a, ok := h.location(w, r)
	if !ok {
		return
	}
	// Unknown media rows are skipped; the remaining blocks are still served.
	blocks, err := h.composer.Compose(a.Description, a.Media)
	if err != nil {
		h.log.Warn("media skipped", "location_id", a.ID, "error", err)
	}
	h.respondWithJSON(w, http.StatusOK, map[string]any{
		"location_id": a.ID,
		"blocks":      blocks,
		"warnings":    content.Warnings(err),
	})
}

func (h *handler) getOverlays(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	plan := render.BuildPlan(h.journal.Locations(), r.URL.Query().Get("selected"))
	for _, f := range plan.Failures {
		h.log.Warn("location not drawable", "location_id", f.LocationID, "error", f.Err)
	}
	h.respondWithJSON(w, http.StatusOK, plan)
}

func (h *handler) getReport(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	h.respondWithJSON(w, http.StatusOK, journal.Analyze(h.journal.Locations(), nil))
}

func (h *handler) exportGeoJSON(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	fc, failures := render.GeoJSON(h.journal.Locations())
	for _, f := range failures {
		h.log.Warn("location left out of export", "location_id", f.LocationID, "error", f.Err)
	}
	body, err := json.Marshal(fc)
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to encode export", err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *handler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.journal.Load(r.Context()); err != nil {
		h.respondWithError(w, http.StatusBadGateway, "Reload failed", err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]int{"locations": len(h.journal.Locations())})
}

// ready rejects reads while the last load failed
func (h *handler) ready(w http.ResponseWriter) bool {
	if err := h.journal.Err(); err != nil {
		h.respondWithError(w, http.StatusServiceUnavailable, "Journal unavailable: "+err.Error(), nil)
		return false
	}
	return true
}

func (h *handler) location(w http.ResponseWriter, r *http.Request) (journal.Aggregate, bool) {
	if !h.ready(w) {
		return journal.Aggregate{}, false
	}
	id := chi.URLParam(r, "id")
	a, ok := h.journal.Get(id)
	if !ok {
		h.respondWithError(w, http.StatusNotFound, "Location not found", nil)
		return journal.Aggregate{}, false
	}
	return a, true
}

func (h *handler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("encoding response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func (h *handler) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		h.log.Error("request failed", "status", code, "message", message, "error", err)
	}
	h.respondWithJSON(w, code, map[string]string{"error": message})
}
