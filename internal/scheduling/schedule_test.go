package scheduling

import (
	"testing"

	"github.com/neumoapp/platform/internal/shared/types"
)

// TestSlotStartsMorning tests the morning slot grid
func TestSlotStartsMorning(t *testing.T) {
	schedule := testSchedule()
	starts := schedule.SlotStarts(ShiftMorning)

	if len(starts) != 15 {
		t.Fatalf("Expected 15 morning slots, got %d", len(starts))
	}

	if starts[0] != types.NewTimeOfDay(8, 0) {
		t.Errorf("Expected first slot 08:00, got %s", starts[0])
	}

	last := starts[len(starts)-1]
	if last != types.NewTimeOfDay(12, 40) {
		t.Errorf("Expected last slot 12:40, got %s", last)
	}
}

// TestSlotStartsAfternoon tests the afternoon slot grid
func TestSlotStartsAfternoon(t *testing.T) {
	schedule := testSchedule()
	starts := schedule.SlotStarts(ShiftAfternoon)

	if len(starts) != 12 {
		t.Fatalf("Expected 12 afternoon slots, got %d", len(starts))
	}

	if starts[0] != types.NewTimeOfDay(14, 0) {
		t.Errorf("Expected first slot 14:00, got %s", starts[0])
	}

	last := starts[len(starts)-1]
	if last != types.NewTimeOfDay(17, 40) {
		t.Errorf("Expected last slot 17:40, got %s", last)
	}
}

// TestValidStart tests slot grid membership at the boundaries
func TestValidStart(t *testing.T) {
	schedule := testSchedule()

	tests := []struct {
		name  string
		shift Shift
		time  types.TimeOfDay
		want  bool
	}{
		{"Morning open", ShiftMorning, types.NewTimeOfDay(8, 0), true},
		{"Last morning slot", ShiftMorning, types.NewTimeOfDay(12, 40), true},
		{"Morning close", ShiftMorning, types.NewTimeOfDay(13, 0), false},
		{"Off grid", ShiftMorning, types.NewTimeOfDay(8, 10), false},
		{"Afternoon open", ShiftAfternoon, types.NewTimeOfDay(14, 0), true},
		{"Last afternoon slot", ShiftAfternoon, types.NewTimeOfDay(17, 40), true},
		{"Afternoon close", ShiftAfternoon, types.NewTimeOfDay(18, 0), false},
		{"Lunch break", ShiftAfternoon, types.NewTimeOfDay(13, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.ValidStart(tt.shift, tt.time); got != tt.want {
				t.Errorf("ValidStart(%s, %s) = %v, want %v", tt.shift, tt.time, got, tt.want)
			}
		})
	}
}

// TestShiftFor tests mapping a time of day to its shift
func TestShiftFor(t *testing.T) {
	schedule := testSchedule()

	tests := []struct {
		name  string
		time  types.TimeOfDay
		shift Shift
		ok    bool
	}{
		{"Morning start", types.NewTimeOfDay(8, 0), ShiftMorning, true},
		{"Mid morning", types.NewTimeOfDay(10, 20), ShiftMorning, true},
		{"Morning close excluded", types.NewTimeOfDay(13, 0), "", false},
		{"Lunch", types.NewTimeOfDay(13, 30), "", false},
		{"Afternoon start", types.NewTimeOfDay(14, 0), ShiftAfternoon, true},
		{"Before close", types.NewTimeOfDay(17, 59), ShiftAfternoon, true},
		{"Afternoon close excluded", types.NewTimeOfDay(18, 0), "", false},
		{"Early morning", types.NewTimeOfDay(6, 0), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shift, ok := schedule.ShiftFor(tt.time)
			if ok != tt.ok || shift != tt.shift {
				t.Errorf("ShiftFor(%s) = (%s, %v), want (%s, %v)", tt.time, shift, ok, tt.shift, tt.ok)
			}
		})
	}
}

// TestParseShift tests shift name validation
func TestParseShift(t *testing.T) {
	if _, err := ParseShift("morning"); err != nil {
		t.Errorf("Expected morning to parse, got %v", err)
	}
	if _, err := ParseShift("afternoon"); err != nil {
		t.Errorf("Expected afternoon to parse, got %v", err)
	}
	if _, err := ParseShift("evening"); err == nil {
		t.Error("Expected evening to be rejected")
	}
	if _, err := ParseShift(""); err == nil {
		t.Error("Expected empty shift to be rejected")
	}
}
