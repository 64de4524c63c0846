package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/focusflow/focusflow/store"
	"github.com/gorilla/mux"
)

// AddProject creates a project with the default board columns.
func (h *AppHandler) AddProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	project, ok := h.store.AddProject(req.Name, req.Color)
	if !ok {
		respond(w, map[string]string{"status": "ignored"})
		return
	}
	respond(w, map[string]any{"status": "success", "project": project})
}

// DeleteProject removes a project and its tasks. The inbox cannot be
// deleted; the store ignores the request.
func (h *AppHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteProject(mux.Vars(r)["id"])
	respondOK(w)
}

// AddColumn appends a board column.
func (h *AppHandler) AddColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	h.store.AddColumn(mux.Vars(r)["id"], req.Title)
	respondOK(w)
}

// UpdateColumn renames a board column.
func (h *AppHandler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	h.store.UpdateColumn(vars["id"], vars["columnId"], req.Title)
	respondOK(w)
}

// DeleteColumn removes a board column. Tasks pointing at it stay put
// and show up in the board's orphan bucket until moved.
func (h *AppHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.store.DeleteColumn(vars["id"], vars["columnId"])
	respondOK(w)
}

// BoardColumn is one rendered kanban column.
type BoardColumn struct {
	store.Column
	Tasks []store.Task `json:"tasks"`
}

// Board is a project's kanban rendering: the column list (with the
// read-time default fallback applied) plus an orphan bucket for tasks
// whose status matches no column.
type Board struct {
	Project  store.Project `json:"project"`
	Columns  []BoardColumn `json:"columns"`
	Orphaned []store.Task  `json:"orphaned,omitempty"`
}

// GetBoard renders a project's kanban board.
func (h *AppHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	project, ok := h.store.Project(projectID)
	if !ok {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	columns := h.store.ColumnsFor(projectID)
	board := Board{Project: project}
	known := make(map[string]int, len(columns))
	for i, col := range columns {
		known[col.ID] = i
		board.Columns = append(board.Columns, BoardColumn{Column: col, Tasks: []store.Task{}})
	}

	for _, t := range h.store.Tasks() {
		if t.ProjectID != projectID {
			continue
		}
		status := t.Status
		if status == "" {
			status = store.StatusTodo
		}
		if i, ok := known[status]; ok {
			board.Columns[i].Tasks = append(board.Columns[i].Tasks, t)
		} else {
			board.Orphaned = append(board.Orphaned, t)
		}
	}

	respond(w, map[string]any{"status": "success", "data": board})
}

// UpdateSettings shallow-merges a partial settings payload.
func (h *AppHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch store.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	h.store.UpdateSettings(patch)
	respond(w, map[string]any{"status": "success", "settings": h.store.Settings()})
}
