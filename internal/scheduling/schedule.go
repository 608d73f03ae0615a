package scheduling

import (
	"time"

	"github.com/neumoapp/platform/internal/shared/config"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Shift identifies a working shift
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
)

// ParseShift validates a shift name
func ParseShift(s string) (Shift, error) {
	switch Shift(s) {
	case ShiftMorning, ShiftAfternoon:
		return Shift(s), nil
	default:
		return "", errors.BadRequest("shift must be 'morning' or 'afternoon'")
	}
}

// Window is a half-open interval [Start, End) within a day
type Window struct {
	Start types.TimeOfDay
	End   types.TimeOfDay
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t types.TimeOfDay) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Schedule holds the slot grid every availability and booking decision
// is made against
type Schedule struct {
	SlotDuration time.Duration
	Morning      Window
	Afternoon    Window
}

// NewSchedule builds a schedule from the loaded configuration
func NewSchedule(cfg config.SchedulingConfig) Schedule {
	return Schedule{
		SlotDuration: cfg.SlotDuration,
		Morning:      Window{Start: cfg.MorningStart, End: cfg.MorningEnd},
		Afternoon:    Window{Start: cfg.AfternoonStart, End: cfg.AfternoonEnd},
	}
}

// Window returns the working window for a shift
func (s Schedule) Window(shift Shift) Window {
	if shift == ShiftAfternoon {
		return s.Afternoon
	}
	return s.Morning
}

// SlotStarts enumerates the valid slot start times for a shift. A slot
// must end at or before the window close, so a start exactly at the
// close is never produced.
func (s Schedule) SlotStarts(shift Shift) []types.TimeOfDay {
	window := s.Window(shift)

	var starts []types.TimeOfDay
	for t := window.Start; !window.End.Before(t.Add(s.SlotDuration)); t = t.Add(s.SlotDuration) {
		starts = append(starts, t)
	}
	return starts
}

// ValidStart reports whether t is a valid slot start within the shift
func (s Schedule) ValidStart(shift Shift, t types.TimeOfDay) bool {
	for _, start := range s.SlotStarts(shift) {
		if start == t {
			return true
		}
	}
	return false
}

// ShiftFor returns the shift whose window contains t
func (s Schedule) ShiftFor(t types.TimeOfDay) (Shift, bool) {
	if s.Morning.Contains(t) {
		return ShiftMorning, true
	}
	if s.Afternoon.Contains(t) {
		return ShiftAfternoon, true
	}
	return "", false
}
