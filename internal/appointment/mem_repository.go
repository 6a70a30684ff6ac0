package appointment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/daterange"
)

// MemRepository is a mutex-guarded in-memory store. It backs tests and the
// MEMORY_STORE dev mode of the api-server.
type MemRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]*Appointment
	order        []uuid.UUID
}

func NewMemRepository() *MemRepository {
	return &MemRepository{appointments: make(map[uuid.UUID]*Appointment)}
}

func (r *MemRepository) List(ctx context.Context) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *cloneAppointment(r.appointments[id]))
	}
	return out, nil
}

func (r *MemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return cloneAppointment(a), nil
}

func (r *MemRepository) Create(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.appointments[a.ID] = cloneAppointment(a)
	r.order = append(r.order, a.ID)
	return nil
}

func (r *MemRepository) Update(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[a.ID]; !ok {
		return ErrAppointmentNotFound
	}
	r.appointments[a.ID] = cloneAppointment(a)
	return nil
}

func (r *MemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemRepository) FindActiveSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		a := r.appointments[id]
		if a.DoctorID == doctorID &&
			a.Slot == slot &&
			a.Status != StatusCancelled &&
			daterange.SameDay(a.Date, date) {
			return cloneAppointment(a), nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func cloneAppointment(a *Appointment) *Appointment {
	c := *a
	if a.PaymentAmount != nil {
		v := *a.PaymentAmount
		c.PaymentAmount = &v
	}
	if a.PaymentMethod != nil {
		v := *a.PaymentMethod
		c.PaymentMethod = &v
	}
	if a.PaymentDate != nil {
		v := *a.PaymentDate
		c.PaymentDate = &v
	}
	return &c
}
