package businesshours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2026-03-02 10:00 UTC, inside the default business window.
var mondayMorning = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestIsBusinessHours(t *testing.T) {
	cal := DefaultCalendar()

	assert.True(t, cal.IsBusinessHours(mondayMorning))
	assert.False(t, cal.IsBusinessHours(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)), "before window")
	assert.False(t, cal.IsBusinessHours(time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)), "window end is exclusive")
	assert.False(t, cal.IsBusinessHours(time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)), "saturday")
}

func TestIsBusinessHoursHoliday(t *testing.T) {
	cal := DefaultCalendar()
	cal.Holidays = []string{"2026-03-02"}
	require.NoError(t, cal.compile())

	assert.False(t, cal.IsBusinessHours(mondayMorning))
}

func TestCalculateSLADueDateCalendarTime(t *testing.T) {
	calc := NewCalculator(nil)

	due := calc.CalculateSLADueDate(mondayMorning, 4, false)
	assert.Equal(t, mondayMorning.Add(4*time.Hour), due)
}

func TestCalculateSLADueDateSkipsNonBusinessHours(t *testing.T) {
	calc := NewCalculator(nil)

	// Friday 16:00; 4 business hours must roll over the weekend into Monday.
	friday := time.Date(2026, 3, 6, 16, 0, 0, 0, time.UTC)
	due := calc.CalculateSLADueDate(friday, 4, true)

	assert.Equal(t, time.Monday, due.Weekday())
	assert.True(t, due.After(friday.Add(48*time.Hour)))
}

func TestCalculateSLADueDateWithinSameDay(t *testing.T) {
	calc := NewCalculator(nil)

	due := calc.CalculateSLADueDate(mondayMorning, 4, true)
	assert.Equal(t, mondayMorning.Add(4*time.Hour), due)
}

func TestCalculateSLADueDateZeroDuration(t *testing.T) {
	calc := NewCalculator(nil)

	assert.Equal(t, mondayMorning, calc.CalculateSLADueDate(mondayMorning, 0, true))
}

func TestCalculateSLADueDateEmptyCalendarFallsBack(t *testing.T) {
	cal := DefaultCalendar()
	cal.Workdays = nil
	require.NoError(t, cal.compile())
	calc := NewCalculator(cal)

	due := calc.CalculateSLADueDate(mondayMorning, 8, true)
	assert.Equal(t, mondayMorning.Add(8*time.Hour), due)
}
