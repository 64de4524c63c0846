package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ViewMode selects what the planner renders.
type ViewMode string

const (
	ViewToday    ViewMode = "today"
	ViewTomorrow ViewMode = "tomorrow"
	ViewThisWeek ViewMode = "thisWeek"
	ViewNextWeek ViewMode = "nextWeek"
)

// The three fixed blocks used to bucket timed tasks in the week view.
const (
	BlockMorning   = "Morning"
	BlockAfternoon = "Afternoon"
	BlockEvening   = "Evening"
)

// TargetDate derives the planner's anchor date: the day itself for day
// views, the Monday of the relevant week for week views.
func TargetDate(mode ViewMode, now time.Time) time.Time {
	day := truncateToDay(now)
	switch mode {
	case ViewTomorrow:
		return day.AddDate(0, 0, 1)
	case ViewThisWeek:
		return mondayOf(day)
	case ViewNextWeek:
		return mondayOf(day).AddDate(0, 0, 7)
	default:
		return day
	}
}

// WeekDays lists Monday through Friday starting at the given Monday.
func WeekDays(monday time.Time) []time.Time {
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// TimeSlots is the day view's 30-minute grid, 00:00 through 23:30.
func TimeSlots() []string {
	slots := make([]string, 0, 48)
	for h := 0; h < 24; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

// BlockForTime buckets a planned time into one of the three blocks.
// Tasks without a time land in the morning.
func BlockForTime(timeStr string) string {
	if timeStr == "" {
		return BlockMorning
	}
	hour := slotHour(timeStr)
	switch {
	case hour < 12:
		return BlockMorning
	case hour < 17:
		return BlockAfternoon
	default:
		return BlockEvening
	}
}

// BlockStartTime is the slot a task lands in when dropped on a week
// view block rather than a concrete time.
func BlockStartTime(block string) string {
	switch block {
	case BlockAfternoon:
		return "13:00"
	case BlockEvening:
		return "17:00"
	default:
		return "09:00"
	}
}

// ActiveHour reports whether a slot falls inside the configured
// start/end-of-day window. End before start means the window wraps
// past midnight.
func ActiveHour(settings UserSettings, timeStr string) bool {
	hour := slotHour(timeStr)
	if settings.EndOfDay < settings.StartOfDay {
		return hour >= settings.StartOfDay || hour < settings.EndOfDay
	}
	return hour >= settings.StartOfDay && hour < settings.EndOfDay
}

// PastSlot reports whether a slot should be dimmed as already gone.
// Only the today view dims past slots; it compares the slot's
// time-of-day against the wall clock and is recomputed per request.
func PastSlot(mode ViewMode, timeStr string, now time.Time) bool {
	if mode != ViewToday {
		return false
	}
	parts := strings.SplitN(timeStr, ":", 2)
	if len(parts) != 2 {
		return false
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	slot := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	return slot.Before(now)
}

// PlanSlot is one row of the day view timeline.
type PlanSlot struct {
	Time   string `json:"time"`
	Active bool   `json:"active"`
	Past   bool   `json:"past"`
	Tasks  []Task `json:"tasks"`
}

// DayPlan is the single-day rendering: an "any time" bin plus the
// 30-minute timeline.
type DayPlan struct {
	Date    string     `json:"date"`
	AnyTime []Task     `json:"anyTime"`
	Slots   []PlanSlot `json:"slots"`
}

// PlanBlock groups a week day's tasks into one of the three blocks.
type PlanBlock struct {
	Label string `json:"label"`
	Tasks []Task `json:"tasks"`
}

// PlanDay is one Monday-to-Friday column of the week view.
type PlanDay struct {
	Date    string      `json:"date"`
	IsToday bool        `json:"isToday"`
	Blocks  []PlanBlock `json:"blocks"`
}

// Plan is a full planner rendering for one view mode.
type Plan struct {
	Mode    ViewMode  `json:"mode"`
	Date    string    `json:"date"`
	Backlog []Task    `json:"backlog"`
	Day     *DayPlan  `json:"day,omitempty"`
	Week    []PlanDay `json:"week,omitempty"`
}

// Plan derives the planner view for the given mode at the given time.
// Completed tasks never appear; the backlog holds incomplete tasks
// with no planned date.
func (s *Store) Plan(mode ViewMode, now time.Time) Plan {
	tasks := s.Tasks()
	settings := s.Settings()
	target := TargetDate(mode, now)

	plan := Plan{Mode: mode, Date: target.Format(dayFormat)}
	for _, t := range tasks {
		if !t.IsCompleted && t.PlannedDate == "" {
			plan.Backlog = append(plan.Backlog, t)
		}
	}

	if mode == ViewThisWeek || mode == ViewNextWeek {
		today := truncateToDay(now)
		for _, day := range WeekDays(target) {
			key := day.Format(dayFormat)
			pd := PlanDay{Date: key, IsToday: day.Equal(today)}
			buckets := map[string][]Task{}
			for _, t := range tasks {
				if t.IsCompleted || t.PlannedDate != key {
					continue
				}
				block := BlockForTime(t.PlannedTime)
				buckets[block] = append(buckets[block], t)
			}
			for _, label := range []string{BlockMorning, BlockAfternoon, BlockEvening} {
				pd.Blocks = append(pd.Blocks, PlanBlock{Label: label, Tasks: buckets[label]})
			}
			plan.Week = append(plan.Week, pd)
		}
		return plan
	}

	key := target.Format(dayFormat)
	day := DayPlan{Date: key}
	timed := map[string][]Task{}
	for _, t := range tasks {
		if t.IsCompleted || t.PlannedDate != key {
			continue
		}
		if t.PlannedTime == "" {
			day.AnyTime = append(day.AnyTime, t)
		} else {
			timed[t.PlannedTime] = append(timed[t.PlannedTime], t)
		}
	}
	for _, slot := range TimeSlots() {
		day.Slots = append(day.Slots, PlanSlot{
			Time:   slot,
			Active: ActiveHour(settings, slot),
			Past:   PastSlot(mode, slot, now),
			Tasks:  timed[slot],
		})
	}
	plan.Day = &day
	return plan
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOf rewinds to the Monday of t's week.
func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func slotHour(timeStr string) int {
	parts := strings.SplitN(timeStr, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	return h
}
