package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodUPI  PaymentMethod = "upi"
	MethodCard PaymentMethod = "card"
)

func ValidMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodUPI, MethodCard:
		return true
	}
	return false
}

type Appointment struct {
	ID          uuid.UUID
	DoctorID    uuid.UUID
	PatientName string
	PhoneNumber string
	Reason      string

	// Date is the appointment day at UTC midnight; Slot is the time-slot
	// label from the doctor's vocabulary, e.g. "9:30 AM".
	Date time.Time
	Slot string

	Status Status

	// Payment fields are all set or all unset together; set implies the
	// appointment is completed and paid.
	PaymentStatus PaymentStatus
	PaymentAmount *float64
	PaymentMethod *PaymentMethod
	PaymentDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Paid reports whether a payment has been recorded. An empty payment status
// counts as unpaid.
func (a *Appointment) Paid() bool {
	return a.PaymentStatus == PaymentPaid
}

// Update carries a partial appointment record for merge-by-id updates of the
// booking fields. Nil fields are preserved. Status and payment changes go
// through ChangeStatus / RecordPayment instead.
type Update struct {
	DoctorID    *uuid.UUID
	PatientName *string
	PhoneNumber *string
	Reason      *string
	Date        *time.Time
	Slot        *string
}

func (u Update) Apply(a *Appointment) {
	if u.DoctorID != nil {
		a.DoctorID = *u.DoctorID
	}
	if u.PatientName != nil {
		a.PatientName = *u.PatientName
	}
	if u.PhoneNumber != nil {
		a.PhoneNumber = *u.PhoneNumber
	}
	if u.Reason != nil {
		a.Reason = *u.Reason
	}
	if u.Date != nil {
		a.Date = *u.Date
	}
	if u.Slot != nil {
		a.Slot = *u.Slot
	}
}
