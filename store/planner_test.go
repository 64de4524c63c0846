package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday mid-morning.
var plannerNow = time.Date(2024, 6, 12, 10, 15, 0, 0, time.UTC)

func TestTargetDate(t *testing.T) {
	cases := []struct {
		mode ViewMode
		want string
	}{
		{ViewToday, "2024-06-12"},
		{ViewTomorrow, "2024-06-13"},
		{ViewThisWeek, "2024-06-10"},
		{ViewNextWeek, "2024-06-17"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TargetDate(c.mode, plannerNow).Format(dayFormat), string(c.mode))
	}

	t.Run("sunday belongs to the week that started the previous monday", func(t *testing.T) {
		sunday := time.Date(2024, 6, 16, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, "2024-06-10", TargetDate(ViewThisWeek, sunday).Format(dayFormat))
		assert.Equal(t, "2024-06-17", TargetDate(ViewNextWeek, sunday).Format(dayFormat))
	})
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	require.Len(t, days, 5)
	assert.Equal(t, time.Monday, days[0].Weekday())
	assert.Equal(t, time.Friday, days[4].Weekday())
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	require.Len(t, slots, 48)
	assert.Equal(t, "00:00", slots[0])
	assert.Equal(t, "09:30", slots[19])
	assert.Equal(t, "23:30", slots[47])
}

func TestBlockForTime(t *testing.T) {
	assert.Equal(t, BlockMorning, BlockForTime(""))
	assert.Equal(t, BlockMorning, BlockForTime("08:00"))
	assert.Equal(t, BlockMorning, BlockForTime("11:30"))
	assert.Equal(t, BlockAfternoon, BlockForTime("12:00"))
	assert.Equal(t, BlockAfternoon, BlockForTime("16:30"))
	assert.Equal(t, BlockEvening, BlockForTime("17:00"))
	assert.Equal(t, BlockEvening, BlockForTime("23:30"))
}

func TestBlockStartTime(t *testing.T) {
	assert.Equal(t, "09:00", BlockStartTime(BlockMorning))
	assert.Equal(t, "13:00", BlockStartTime(BlockAfternoon))
	assert.Equal(t, "17:00", BlockStartTime(BlockEvening))
}

func TestActiveHour(t *testing.T) {
	day := UserSettings{StartOfDay: 9, EndOfDay: 18}
	assert.True(t, ActiveHour(day, "09:00"))
	assert.True(t, ActiveHour(day, "17:30"))
	assert.False(t, ActiveHour(day, "08:30"))
	assert.False(t, ActiveHour(day, "18:00"))

	t.Run("window wrapping past midnight", func(t *testing.T) {
		night := UserSettings{StartOfDay: 22, EndOfDay: 6}
		assert.True(t, ActiveHour(night, "23:00"))
		assert.True(t, ActiveHour(night, "02:30"))
		assert.False(t, ActiveHour(night, "06:00"))
		assert.False(t, ActiveHour(night, "12:00"))
	})
}

func TestPastSlot(t *testing.T) {
	assert.True(t, PastSlot(ViewToday, "09:00", plannerNow))
	assert.True(t, PastSlot(ViewToday, "10:00", plannerNow))
	assert.False(t, PastSlot(ViewToday, "10:30", plannerNow))
	assert.False(t, PastSlot(ViewToday, "11:00", plannerNow))

	// Only the today view dims past slots.
	assert.False(t, PastSlot(ViewTomorrow, "09:00", plannerNow))
	assert.False(t, PastSlot(ViewThisWeek, "09:00", plannerNow))
}

func TestPlanDayView(t *testing.T) {
	s := newTestStore(plannerNow)
	backlog, _ := s.AddTask("someday", "")
	anytime, _ := s.AddTask("today sometime", "")
	s.AssignTaskToDate(anytime.ID, "2024-06-12")
	timed, _ := s.AddTask("morning meeting", "")
	s.AssignTaskToTimeSlot(timed.ID, "2024-06-12", "09:30")
	done, _ := s.AddTask("already finished", "")
	s.AssignTaskToTimeSlot(done.ID, "2024-06-12", "09:30")
	s.ToggleTask(done.ID)
	other, _ := s.AddTask("tomorrow instead", "")
	s.AssignTaskToDate(other.ID, "2024-06-13")

	plan := s.Plan(ViewToday, plannerNow)
	assert.Equal(t, "2024-06-12", plan.Date)
	require.NotNil(t, plan.Day)
	assert.Nil(t, plan.Week)

	require.Len(t, plan.Backlog, 1)
	assert.Equal(t, backlog.ID, plan.Backlog[0].ID)

	require.Len(t, plan.Day.AnyTime, 1)
	assert.Equal(t, anytime.ID, plan.Day.AnyTime[0].ID)

	require.Len(t, plan.Day.Slots, 48)
	slot := plan.Day.Slots[19]
	assert.Equal(t, "09:30", slot.Time)
	require.Len(t, slot.Tasks, 1, "completed tasks never render")
	assert.Equal(t, timed.ID, slot.Tasks[0].ID)
	assert.True(t, slot.Active)
	assert.True(t, slot.Past)

	t.Run("tomorrow has no past dimming", func(t *testing.T) {
		plan := s.Plan(ViewTomorrow, plannerNow)
		require.NotNil(t, plan.Day)
		assert.Equal(t, "2024-06-13", plan.Date)
		for _, slot := range plan.Day.Slots {
			assert.False(t, slot.Past)
		}
	})
}

func TestPlanWeekView(t *testing.T) {
	s := newTestStore(plannerNow)
	morning, _ := s.AddTask("standup", "")
	s.AssignTaskToTimeSlot(morning.ID, "2024-06-10", "09:00")
	evening, _ := s.AddTask("gym", "")
	s.AssignTaskToTimeSlot(evening.ID, "2024-06-12", "18:00")
	untimed, _ := s.AddTask("review notes", "")
	s.AssignTaskToDate(untimed.ID, "2024-06-12")

	plan := s.Plan(ViewThisWeek, plannerNow)
	assert.Equal(t, "2024-06-10", plan.Date)
	assert.Nil(t, plan.Day)
	require.Len(t, plan.Week, 5)

	monday := plan.Week[0]
	assert.Equal(t, "2024-06-10", monday.Date)
	assert.False(t, monday.IsToday)
	require.Len(t, monday.Blocks, 3)
	require.Len(t, monday.Blocks[0].Tasks, 1)
	assert.Equal(t, morning.ID, monday.Blocks[0].Tasks[0].ID)

	wednesday := plan.Week[2]
	assert.True(t, wednesday.IsToday)
	// Untimed tasks bucket into the morning block.
	require.Len(t, wednesday.Blocks[0].Tasks, 1)
	assert.Equal(t, untimed.ID, wednesday.Blocks[0].Tasks[0].ID)
	require.Len(t, wednesday.Blocks[2].Tasks, 1)
	assert.Equal(t, evening.ID, wednesday.Blocks[2].Tasks[0].ID)
}
