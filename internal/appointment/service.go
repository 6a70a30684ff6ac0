package appointment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/daterange"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
	redisclient "github.com/clinicdesk/clinicdesk/internal/redis"
)

var (
	ErrSlotTaken            = errors.New("slot already has an active appointment")
	ErrSlotBeingBooked      = errors.New("slot is currently being booked, please retry")
	ErrPaymentRequired      = errors.New("payment details are required to complete the appointment")
	ErrInvalidPaymentAmount = errors.New("payment amount must be a positive number")
	ErrInvalidPaymentMethod = errors.New("payment method must be cash, upi or card")
	ErrNotCompleted         = errors.New("appointment is not completed")
	ErrAlreadyPaid          = errors.New("appointment is already paid")
)

// DoctorDirectory is the slice of the doctor store the booking flow needs.
type DoctorDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

// Booking carries the fields accepted when creating an appointment.
// Status is always forced to pending regardless of caller input.
type Booking struct {
	DoctorID    uuid.UUID
	PatientName string
	PhoneNumber string
	Reason      string
	Date        time.Time
	Slot        string
}

// Payment carries the details recorded when an appointment is paid.
type Payment struct {
	Amount float64
	Method PaymentMethod
}

type Service struct {
	repo    Repository
	doctors DoctorDirectory
	locker  redisclient.Locker
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, doctors DoctorDirectory, locker redisclient.Locker, log *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		doctors: doctors,
		locker:  locker,
		log:     log,
		now:     time.Now,
	}
}

// Book creates a pending appointment. The doctor's unavailable dates are
// re-checked at booking time to guard against stale client state, and a
// per-slot lock keeps two requests from taking the same doctor/date/slot.
func (s *Service) Book(ctx context.Context, in Booking) (*Appointment, error) {
	d, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	date := daterange.StartOfDay(in.Date)
	if d.UnavailableOn(date) {
		return nil, doctor.ErrDoctorUnavailable
	}

	var created *Appointment

	err = s.locker.WithLock(ctx, slotKey(in.DoctorID, date, in.Slot), func(lockCtx context.Context) error {
		existing, err := s.repo.FindActiveSlot(lockCtx, in.DoctorID, date, in.Slot)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check slot conflict: %w", err)
		}
		if existing != nil {
			return ErrSlotTaken
		}

		now := s.now()
		a := &Appointment{
			ID:            uuid.New(),
			DoctorID:      in.DoctorID,
			PatientName:   in.PatientName,
			PhoneNumber:   in.PhoneNumber,
			Reason:        in.Reason,
			Date:          date,
			Slot:          in.Slot,
			Status:        StatusPending,
			PaymentStatus: PaymentUnpaid,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.Create(lockCtx, a); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = a
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	s.log.Info("appointment booked",
		zap.String("appointment_id", created.ID.String()),
		zap.String("doctor_id", in.DoctorID.String()),
		zap.String("date", date.Format("2006-01-02")),
		zap.String("slot", in.Slot),
	)

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// Update merges the partial booking fields over the stored appointment.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd Update) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	upd.Apply(a)
	a.Date = daterange.StartOfDay(a.Date)
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	return a, nil
}

// ChangeStatus moves an appointment to any status. Moving an unpaid
// appointment into completed requires payment details; the transition and
// the payment recording commit together.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, to Status, pay *Payment) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if to == StatusCompleted && !a.Paid() {
		if pay == nil {
			return nil, ErrPaymentRequired
		}
		if err := validatePayment(*pay); err != nil {
			return nil, err
		}
		applyPayment(a, *pay, s.now())
	}

	a.Status = to
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("change appointment status: %w", err)
	}

	s.log.Info("appointment status changed",
		zap.String("appointment_id", a.ID.String()),
		zap.String("status", string(to)),
	)

	return a, nil
}

// RecordPayment attaches payment details to a completed appointment that is
// still unpaid, without altering its status.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, pay Payment) (*Appointment, error) {
	if err := validatePayment(pay); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if a.Status != StatusCompleted {
		return nil, ErrNotCompleted
	}
	if a.Paid() {
		return nil, ErrAlreadyPaid
	}

	applyPayment(a, pay, s.now())
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	s.log.Info("payment recorded",
		zap.String("appointment_id", a.ID.String()),
		zap.Float64("amount", pay.Amount),
		zap.String("method", string(pay.Method)),
	)

	return a, nil
}

// Delete removes an appointment from any state. It is unconditional and
// irreversible.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.log.Info("appointment deleted", zap.String("appointment_id", id.String()))
	return nil
}

// ParseAmount converts raw payment input into a validated amount.
// Non-numeric and non-positive values are rejected.
func ParseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrInvalidPaymentAmount
	}
	if err := validateAmount(v); err != nil {
		return 0, err
	}
	return v, nil
}

func validatePayment(p Payment) error {
	if err := validateAmount(p.Amount); err != nil {
		return err
	}
	if !ValidMethod(p.Method) {
		return ErrInvalidPaymentMethod
	}
	return nil
}

func validateAmount(v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrInvalidPaymentAmount
	}
	return nil
}

func applyPayment(a *Appointment, p Payment, at time.Time) {
	amount := p.Amount
	method := p.Method
	paidAt := at

	a.PaymentStatus = PaymentPaid
	a.PaymentAmount = &amount
	a.PaymentMethod = &method
	a.PaymentDate = &paidAt
}

func slotKey(doctorID uuid.UUID, date time.Time, slot string) string {
	return fmt.Sprintf("%s:%s:%s", doctorID, date.Format("2006-01-02"), slot)
}
