package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// Repository contains all store interactions needed by the service.
// Update and Delete report ErrAppointmentNotFound for a missing id.
type Repository interface {
	List(ctx context.Context) ([]Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindActiveSlot returns a non-cancelled appointment occupying the
	// given doctor/day/slot, for the double-booking check.
	FindActiveSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (*Appointment, error)
}
