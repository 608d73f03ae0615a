package scheduling

import (
	"context"

	"github.com/neumoapp/platform/internal/hospital"
	"github.com/neumoapp/platform/internal/room"
	"github.com/neumoapp/platform/internal/specialty"
	"github.com/neumoapp/platform/internal/shared/types"
)

// specialtyDirectory adapts the specialty repository
type specialtyDirectory struct {
	repo *specialty.Repository
}

// NewSpecialtyDirectory wraps a specialty repository for the scheduler
func NewSpecialtyDirectory(repo *specialty.Repository) SpecialtyDirectory {
	return &specialtyDirectory{repo: repo}
}

func (d *specialtyDirectory) Specialty(ctx context.Context, id types.ID) (*SpecialtyInfo, error) {
	s, err := d.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SpecialtyInfo{ID: s.ID, Name: s.Name, IsActive: s.IsActive}, nil
}

// roomDirectory adapts the room repository
type roomDirectory struct {
	repo *room.Repository
}

// NewRoomDirectory wraps a room repository for the scheduler
func NewRoomDirectory(repo *room.Repository) RoomDirectory {
	return &roomDirectory{repo: repo}
}

func (d *roomDirectory) Room(ctx context.Context, id types.ID) (*RoomInfo, error) {
	r, err := d.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return roomInfo(r), nil
}

func (d *roomDirectory) Serves(ctx context.Context, roomID, specialtyID types.ID) (bool, error) {
	return d.repo.ServesSpecialty(ctx, roomID, specialtyID)
}

func (d *roomDirectory) Eligible(ctx context.Context, hospitalID, specialtyID types.ID) ([]*RoomInfo, error) {
	rooms, err := d.repo.FindEligible(ctx, hospitalID, specialtyID)
	if err != nil {
		return nil, err
	}

	infos := make([]*RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, roomInfo(r))
	}
	return infos, nil
}

func roomInfo(r *room.ConsultationRoom) *RoomInfo {
	return &RoomInfo{
		ID:         r.ID,
		HospitalID: r.HospitalID,
		RoomNumber: r.RoomNumber,
		Name:       r.Name,
		IsActive:   r.IsActive,
	}
}

// hospitalDirectory adapts the hospital repository
type hospitalDirectory struct {
	repo *hospital.Repository
}

// NewHospitalDirectory wraps a hospital repository for the scheduler
func NewHospitalDirectory(repo *hospital.Repository) HospitalDirectory {
	return &hospitalDirectory{repo: repo}
}

func (d *hospitalDirectory) Offers(ctx context.Context, hospitalID, specialtyID types.ID) (bool, error) {
	return d.repo.OffersSpecialty(ctx, hospitalID, specialtyID)
}
