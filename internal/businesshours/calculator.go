package businesshours

import "time"

// Calculator computes SLA due dates against a business calendar.
type Calculator struct {
	calendar *Calendar
}

// NewCalculator builds a calculator; a nil calendar uses the default one.
func NewCalculator(calendar *Calendar) *Calculator {
	if calendar == nil {
		calendar = DefaultCalendar()
	}
	return &Calculator{calendar: calendar}
}

// IsBusinessHours exposes the underlying calendar test.
func (c *Calculator) IsBusinessHours(t time.Time) bool {
	return c.calendar.IsBusinessHours(t)
}

// CalculateSLADueDate returns the instant by which durationHours of (business
// or calendar) time has elapsed from start. With businessHoursOnly set the
// clock advances hour-by-hour and only business hours count.
func (c *Calculator) CalculateSLADueDate(start time.Time, durationHours int, businessHoursOnly bool) time.Time {
	if durationHours <= 0 {
		return start
	}
	if !businessHoursOnly || !c.calendar.hasWorkingTime() {
		return start.Add(time.Duration(durationHours) * time.Hour)
	}

	due := start
	remaining := durationHours
	for remaining > 0 {
		due = due.Add(time.Hour)
		if c.calendar.IsBusinessHours(due) {
			remaining--
		}
	}
	return due
}
