package handlers

import (
	"net/http"
	"time"

	"github.com/focusflow/focusflow/store"
)

var motivationalQuotes = []string{
	"Focus allows you to see clearly.",
	"One task at a time.",
	"Deep work is valuable.",
	"Distraction is the enemy of progress.",
	"You are capable of amazing things.",
	"Stay present.",
	"Quality over quantity.",
	"Don't stop when you're tired. Stop when you're done.",
	"Your future is created by what you do today.",
	"Focus on the step in front of you.",
}

// GetTimer returns the focus timer state.
func (h *AppHandler) GetTimer(w http.ResponseWriter, r *http.Request) {
	respond(w, map[string]any{"status": "success", "timer": h.timer.State()})
}

// StartTimer resumes the countdown.
func (h *AppHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	h.timer.Start()
	respond(w, map[string]any{"status": "success", "timer": h.timer.State()})
}

// PauseTimer halts the countdown without resetting it.
func (h *AppHandler) PauseTimer(w http.ResponseWriter, r *http.Request) {
	h.timer.Pause()
	respond(w, map[string]any{"status": "success", "timer": h.timer.State()})
}

// ResetTimer restores the current phase's full duration, paused.
func (h *AppHandler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	h.timer.Reset()
	respond(w, map[string]any{"status": "success", "timer": h.timer.State()})
}

// StartFocusPhase returns the timer to a fresh focus phase.
func (h *AppHandler) StartFocusPhase(w http.ResponseWriter, r *http.Request) {
	h.timer.StartFocus()
	respond(w, map[string]any{"status": "success", "timer": h.timer.State()})
}

// CompleteActiveTask finishes the task being focused on and switches
// the timer into a paused break.
func (h *AppHandler) CompleteActiveTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.store.ActiveTask()
	if ok {
		h.store.ToggleTask(task.ID)
		h.timer.CompleteTask()
	}
	respond(w, map[string]any{"status": "success", "timer": h.timer.State()})
}

// WidgetPayload is the reduced state for the popup widget window: the
// active task, the timer, and a quote that rotates once a minute.
type WidgetPayload struct {
	Task  *store.Task      `json:"task"`
	Timer store.TimerState `json:"timer"`
	Quote string           `json:"quote"`
}

// GetWidget serves the popup widget's state.
func (h *AppHandler) GetWidget(w http.ResponseWriter, r *http.Request) {
	payload := WidgetPayload{
		Timer: h.timer.State(),
		Quote: motivationalQuotes[int(time.Now().Unix()/60)%len(motivationalQuotes)],
	}
	if task, ok := h.store.ActiveTask(); ok {
		payload.Task = &task
	}
	respond(w, map[string]any{"status": "success", "data": payload})
}
