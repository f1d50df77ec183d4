package businesshours

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Calendar describes when the SLA clock advances: a daily window on working
// weekdays, minus holidays, in a fixed timezone.
type Calendar struct {
	Timezone  string   `yaml:"timezone"`
	StartHour int      `yaml:"start_hour"`
	EndHour   int      `yaml:"end_hour"`
	Workdays  []string `yaml:"workdays"`
	Holidays  []string `yaml:"holidays"`

	location *time.Location
	workdays map[time.Weekday]bool
	holidays map[string]bool
}

// DefaultCalendar returns the Monday-Friday 09:00-17:00 UTC calendar.
func DefaultCalendar() *Calendar {
	cal := &Calendar{
		Timezone:  "UTC",
		StartHour: 9,
		EndHour:   17,
		Workdays:  []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
	}
	if err := cal.compile(); err != nil {
		// the built-in calendar is always valid
		panic(err)
	}
	return cal
}

// LoadCalendar reads a calendar from a YAML file, falling back to defaults
// for fields the file omits.
func LoadCalendar(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar: %w", err)
	}
	cal := DefaultCalendar()
	if err := yaml.Unmarshal(data, cal); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	if err := cal.compile(); err != nil {
		return nil, err
	}
	return cal, nil
}

func (c *Calendar) compile() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	c.workdays = make(map[time.Weekday]bool, len(c.Workdays))
	for _, name := range c.Workdays {
		day, err := parseWeekday(name)
		if err != nil {
			return err
		}
		c.workdays[day] = true
	}

	c.holidays = make(map[string]bool, len(c.Holidays))
	for _, date := range c.Holidays {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid holiday %q: %w", date, err)
		}
		c.holidays[date] = true
	}

	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("invalid business window %d-%d", c.StartHour, c.EndHour)
	}
	return nil
}

// IsBusinessHours reports whether the instant falls inside the calendar.
func (c *Calendar) IsBusinessHours(t time.Time) bool {
	local := t.In(c.location)
	if !c.workdays[local.Weekday()] {
		return false
	}
	if c.holidays[local.Format("2006-01-02")] {
		return false
	}
	hour := local.Hour()
	return hour >= c.StartHour && hour < c.EndHour
}

// hasWorkingTime reports whether the calendar contains any business hours at
// all; an empty calendar would make hour-stepping loop forever.
func (c *Calendar) hasWorkingTime() bool {
	return len(c.workdays) > 0 && c.StartHour < c.EndHour
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", name)
}
