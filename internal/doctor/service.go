package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewDoctor carries the fields accepted by the add-doctor operation.
// ID and avatar are assigned by the service.
type NewDoctor struct {
	Name             string
	Specialization   string
	Email            string
	Phone            string
	Experience       int
	Bio              string
	Address          string
	ImageURL         *string
	AvailableTimes   map[Weekday][]string
	UnavailableDates []time.Time
}

type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	return d, nil
}

// Add creates a doctor, assigning a fresh id and the initials-based avatar.
func (s *Service) Add(ctx context.Context, in NewDoctor) (*Doctor, error) {
	now := s.now()
	d := &Doctor{
		ID:               uuid.New(),
		Name:             in.Name,
		Specialization:   in.Specialization,
		Avatar:           Initials(in.Name),
		Email:            in.Email,
		Phone:            in.Phone,
		Experience:       in.Experience,
		Bio:              in.Bio,
		Address:          in.Address,
		ImageURL:         in.ImageURL,
		AvailableTimes:   in.AvailableTimes,
		UnavailableDates: in.UnavailableDates,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	s.log.Info("doctor added",
		zap.String("doctor_id", d.ID.String()),
		zap.String("specialization", d.Specialization),
	)

	return d, nil
}

// Update merges the partial record over the stored doctor. A missing id is
// an error, not a silent no-op.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd Update) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	upd.Apply(d)
	d.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update doctor: %w", err)
	}

	return d, nil
}

// Delete removes the doctor. Appointments referencing it are left in place;
// dangling references resolve to "Unknown Doctor" in listings.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}

	s.log.Info("doctor deleted", zap.String("doctor_id", id.String()))
	return nil
}

// Availability resolves the open slot labels for a doctor on a date.
func (s *Service) Availability(ctx context.Context, id uuid.UUID, date time.Time) ([]string, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	return ResolveAvailability(d, date)
}
