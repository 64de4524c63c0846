package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/focusflow/focusflow/services"
	"github.com/focusflow/focusflow/store"
	"github.com/gorilla/websocket"
)

// AppHandler serves the application state and every store mutation.
type AppHandler struct {
	store *store.Store
	timer *store.Timer
	hub   *services.Hub
}

func NewAppHandler(st *store.Store, timer *store.Timer, hub *services.Hub) *AppHandler {
	return &AppHandler{
		store: st,
		timer: timer,
		hub:   hub,
	}
}

// State is the full application view handed to a loading client: the
// snapshot plus the project list with the inbox sentinel included.
type State struct {
	Tasks             []store.Task       `json:"tasks"`
	Projects          []store.Project    `json:"projects"`
	Settings          store.UserSettings `json:"settings"`
	Streak            int                `json:"streak"`
	LastCompletedDate string             `json:"lastCompletedDate,omitempty"`
	CurrentView       string             `json:"currentView"`
	CurrentProjectID  string             `json:"currentProjectId"`
	SelectedTaskID    string             `json:"selectedTaskId,omitempty"`
	IsFocusMode       bool               `json:"isFocusMode"`
}

func (h *AppHandler) currentState() State {
	snap := h.store.Snapshot()
	return State{
		Tasks:             snap.Tasks,
		Projects:          h.store.Projects(),
		Settings:          snap.Settings,
		Streak:            snap.Streak,
		LastCompletedDate: snap.LastCompletedDate,
		CurrentView:       snap.CurrentView,
		CurrentProjectID:  snap.CurrentProjectID,
		SelectedTaskID:    snap.SelectedTaskID,
		IsFocusMode:       snap.IsFocusMode,
	}
}

// GetState returns the whole application state.
func (h *AppHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respond(w, map[string]any{
		"status": "success",
		"data":   h.currentState(),
	})
}

// UpdateView persists navigation and selection state.
func (h *AppHandler) UpdateView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View           *string `json:"view"`
		ProjectID      *string `json:"projectId"`
		SelectedTaskID *string `json:"selectedTaskId"`
		FocusMode      *bool   `json:"focusMode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.View != nil && req.ProjectID != nil {
		h.store.NavigateToProject(*req.ProjectID)
		h.store.SetCurrentView(*req.View)
	} else if req.View != nil {
		h.store.SetCurrentView(*req.View)
	} else if req.ProjectID != nil {
		h.store.SetCurrentProjectID(*req.ProjectID)
	}
	if req.SelectedTaskID != nil {
		h.store.SelectTask(*req.SelectedTaskID)
	}
	if req.FocusMode != nil {
		h.store.SetFocusMode(*req.FocusMode)
	}
	respondOK(w)
}

// HandleWebSocket upgrades the connection and registers the session
// for state broadcasts.
func (h *AppHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Sessions work before login too; unauthenticated tabs share the
	// local identity.
	email, ok := emailFromContext(r.Context())
	if !ok {
		email = "local"
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	client := &services.Client{
		Hub:   h.hub,
		Conn:  conn,
		Send:  make(chan []byte, 256),
		Email: email,
	}
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func respond(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func respondOK(w http.ResponseWriter) {
	respond(w, map[string]string{"status": "success"})
}
