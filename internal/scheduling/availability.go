package scheduling

import (
	"context"
	"time"

	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/metrics"
	"github.com/neumoapp/platform/internal/shared/types"
)

// AvailabilityService answers slot availability queries
type AvailabilityService struct {
	specialties SpecialtyDirectory
	rooms       RoomDirectory
	store       AppointmentStore
	schedule    Schedule
	now         func() time.Time
}

// NewAvailabilityService creates an availability service
func NewAvailabilityService(
	specialties SpecialtyDirectory,
	rooms RoomDirectory,
	store AppointmentStore,
	schedule Schedule,
) *AvailabilityService {
	return &AvailabilityService{
		specialties: specialties,
		rooms:       rooms,
		store:       store,
		schedule:    schedule,
		now:         time.Now,
	}
}

// AvailableSlots resolves the slot grid for a hospital, specialty,
// date and shift across every eligible room. A query scoped to a
// single room narrows the grid to it. With OnlyAvailable set, occupied
// slots are dropped instead of flagged.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, q SlotQuery) (*AvailableSlotsResponse, error) {
	sp, err := s.specialties.Specialty(ctx, q.SpecialtyID)
	if err != nil {
		return nil, err
	}
	if !sp.IsActive {
		return nil, errors.NotFound("specialty", q.SpecialtyID.String())
	}

	now := s.now()
	today := types.DateOf(now)
	date := q.Date
	if date.Before(today) {
		return nil, errors.BadRequest("cannot query availability for past dates")
	}
	if !date.IsWeekday() {
		return nil, errors.BadRequest("appointments are only available on weekdays")
	}

	rooms, err := s.rooms.Eligible(ctx, q.HospitalID, q.SpecialtyID)
	if err != nil {
		return nil, err
	}
	if !q.RoomID.IsZero() {
		filtered := rooms[:0]
		for _, r := range rooms {
			if r.ID == q.RoomID {
				filtered = append(filtered, r)
			}
		}
		rooms = filtered
	}
	if len(rooms) == 0 {
		return nil, errors.BadRequest("no consultation rooms available for this specialty")
	}

	roomIDs := make([]types.ID, len(rooms))
	for i, r := range rooms {
		roomIDs[i] = r.ID
	}

	occupied, err := s.store.OccupiedSlots(ctx, roomIDs, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[types.ID]map[types.TimeOfDay]bool, len(occupied))
	for roomID, starts := range occupied {
		set := make(map[types.TimeOfDay]bool, len(starts))
		for _, t := range starts {
			set[t] = true
		}
		taken[roomID] = set
	}

	// Same-day queries only offer slots that start strictly after now
	var cutoff types.TimeOfDay
	sameDay := date.Equal(today)
	if sameDay {
		cutoff = types.NewTimeOfDay(now.Hour(), now.Minute())
	}

	// Room-major order: each room's full grid before the next room
	slots := []TimeSlot{}
	for _, r := range rooms {
		for _, start := range s.schedule.SlotStarts(q.Shift) {
			if sameDay && !cutoff.Before(start) {
				continue
			}

			available := !taken[r.ID][start]
			if q.OnlyAvailable && !available {
				continue
			}
			slots = append(slots, TimeSlot{
				StartTime: start,
				EndTime:   start.Add(s.schedule.SlotDuration),
				Room:      *r,
				Available: available,
			})
		}
	}

	metrics.RecordSlotQuery(string(q.Shift))

	return &AvailableSlotsResponse{
		HospitalID:    q.HospitalID,
		SpecialtyID:   sp.ID,
		SpecialtyName: sp.Name,
		Date:          date,
		Shift:         q.Shift,
		Slots:         slots,
	}, nil
}
