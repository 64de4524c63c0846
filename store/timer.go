package store

import (
	"context"
	"sync"
	"time"
)

// Timer phases.
const (
	PhaseFocus = "focus"
	PhaseBreak = "break"
)

const (
	DefaultFocusDuration = 25 * 60 // seconds
	DefaultBreakDuration = 5 * 60
)

// Timer is the pomodoro countdown: it decrements once per elapsed
// second while running and stops at zero. Nothing about it is
// persisted across restarts.
type Timer struct {
	mu        sync.Mutex
	phase     string
	remaining int
	running   bool
	focusLen  int
	breakLen  int
}

// TimerState is the read-only snapshot handed to views.
type TimerState struct {
	Phase     string `json:"phase"`
	Remaining int    `json:"remaining"`
	Running   bool   `json:"running"`
}

func NewTimer() *Timer {
	return &Timer{
		phase:     PhaseFocus,
		remaining: DefaultFocusDuration,
		focusLen:  DefaultFocusDuration,
		breakLen:  DefaultBreakDuration,
	}
}

// Run drives the countdown at one tick per second until the context is
// cancelled (component teardown).
func (t *Timer) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Tick advances the countdown by one second. Reaching zero pauses the
// timer; it does not switch phases on its own.
func (t *Timer) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.running = false
	}
}

// Start resumes the countdown; starting at zero is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining > 0 {
		t.running = true
	}
}

func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
}

// Reset stops the countdown and restores the current phase's duration.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.remaining = t.phaseLen()
}

// CompleteTask is called when the active task gets finished while
// focusing: the timer flips to the break phase, reset and paused.
func (t *Timer) CompleteTask() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phase = PhaseBreak
	t.remaining = t.breakLen
	t.running = false
}

// StartFocus returns to a fresh, paused focus phase.
func (t *Timer) StartFocus() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phase = PhaseFocus
	t.remaining = t.focusLen
	t.running = false
}

func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TimerState{Phase: t.phase, Remaining: t.remaining, Running: t.running}
}

func (t *Timer) phaseLen() int {
	if t.phase == PhaseBreak {
		return t.breakLen
	}
	return t.focusLen
}
