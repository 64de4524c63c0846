package handlers

import (
	"net/http"
	"time"

	"github.com/focusflow/focusflow/store"
)

// GetPlanner renders the day or week planner for the requested mode.
// Past-slot dimming is computed against the wall clock on every
// request, which stands in for the client's per-minute render tick.
func (h *AppHandler) GetPlanner(w http.ResponseWriter, r *http.Request) {
	mode := store.ViewMode(r.URL.Query().Get("mode"))
	switch mode {
	case store.ViewToday, store.ViewTomorrow, store.ViewThisWeek, store.ViewNextWeek:
	case "":
		mode = store.ViewToday
	default:
		http.Error(w, "Unknown planner mode", http.StatusBadRequest)
		return
	}

	plan := h.store.Plan(mode, time.Now())
	respond(w, map[string]any{"status": "success", "data": plan})
}
