package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrDoctorNotFound = errors.New("doctor not found")

// Repository contains all store interactions needed by the doctor service.
// Update and Delete report ErrDoctorNotFound for a missing id rather than
// silently doing nothing.
type Repository interface {
	List(ctx context.Context) ([]Doctor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Create(ctx context.Context, d *Doctor) error
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
}
