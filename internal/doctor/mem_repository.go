package doctor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemRepository is a mutex-guarded in-memory store. It backs tests and the
// MEMORY_STORE dev mode of the api-server.
type MemRepository struct {
	mu      sync.RWMutex
	doctors map[uuid.UUID]*Doctor
	order   []uuid.UUID
}

func NewMemRepository() *MemRepository {
	return &MemRepository{doctors: make(map[uuid.UUID]*Doctor)}
}

func (r *MemRepository) List(ctx context.Context) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Doctor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *cloneDoctor(r.doctors[id]))
	}
	return out, nil
}

func (r *MemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return cloneDoctor(d), nil
}

func (r *MemRepository) Create(ctx context.Context, d *Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.doctors[d.ID] = cloneDoctor(d)
	r.order = append(r.order, d.ID)
	return nil
}

func (r *MemRepository) Update(ctx context.Context, d *Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[d.ID]; !ok {
		return ErrDoctorNotFound
	}
	r.doctors[d.ID] = cloneDoctor(d)
	return nil
}

func (r *MemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[id]; !ok {
		return ErrDoctorNotFound
	}
	delete(r.doctors, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// cloneDoctor deep-copies so callers cannot alias the stored record.
func cloneDoctor(d *Doctor) *Doctor {
	c := *d
	if d.AvailableTimes != nil {
		c.AvailableTimes = make(map[Weekday][]string, len(d.AvailableTimes))
		for day, slots := range d.AvailableTimes {
			c.AvailableTimes[day] = append([]string(nil), slots...)
		}
	}
	if d.UnavailableDates != nil {
		c.UnavailableDates = append([]time.Time(nil), d.UnavailableDates...)
	}
	if d.ImageURL != nil {
		u := *d.ImageURL
		c.ImageURL = &u
	}
	return &c
}
