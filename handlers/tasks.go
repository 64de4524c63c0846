package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// AddTask captures a new task. Blank titles are ignored without an
// error, matching the quick-capture input.
func (h *AppHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		ProjectID string `json:"projectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	task, ok := h.store.AddTask(req.Title, req.ProjectID)
	if !ok {
		respond(w, map[string]string{"status": "ignored"})
		return
	}
	respond(w, map[string]any{"status": "success", "task": task})
}

// ToggleTask flips a task's completion.
func (h *AppHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	h.store.ToggleTask(mux.Vars(r)["id"])
	respondOK(w)
}

// UpdateTaskStatus sets a task's status from a board-column drop.
func (h *AppHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	h.store.UpdateTaskStatus(mux.Vars(r)["id"], req.Status)
	respondOK(w)
}

// MoveTask reassigns a task to another project.
func (h *AppHandler) MoveTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string `json:"projectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	h.store.MoveTask(mux.Vars(r)["id"], req.ProjectID)
	respondOK(w)
}

// UpdateTaskContent replaces a task's notes.
func (h *AppHandler) UpdateTaskContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	h.store.UpdateTaskContent(mux.Vars(r)["id"], req.Content)
	respondOK(w)
}

// PlanTask assigns a task to a calendar date, or unplans it when the
// date is empty. Unplanning clears the time as well.
func (h *AppHandler) PlanTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	h.store.AssignTaskToDate(mux.Vars(r)["id"], req.Date)
	respondOK(w)
}

// PlanTaskSlot drops a task onto a planner slot: date plus time, or
// date alone for the "any time" bin.
func (h *AppHandler) PlanTaskSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		http.Error(w, "Missing date", http.StatusBadRequest)
		return
	}
	h.store.AssignTaskToTimeSlot(mux.Vars(r)["id"], req.Date, req.Time)
	respondOK(w)
}

// DeleteTask removes a task.
func (h *AppHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteTask(mux.Vars(r)["id"])
	respondOK(w)
}

// AddSubtask appends a subtask to a task.
func (h *AppHandler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	h.store.AddSubtask(mux.Vars(r)["id"], req.Title)
	respondOK(w)
}

// ToggleSubtask flips a subtask's completion.
func (h *AppHandler) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.store.ToggleSubtask(vars["id"], vars["subtaskId"])
	respondOK(w)
}
