package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/daterange"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
)

// DateField selects which timestamp a date-range filter is evaluated
// against: the appointment day for scheduling views, the payment date for
// revenue history.
type DateField int

const (
	ByAppointmentDate DateField = iota
	ByPaymentDate
)

// Filter describes the predicates applied to the appointment collection.
// Zero values mean "no restriction"; provided predicates combine with AND.
type Filter struct {
	Search        string
	DoctorID      *uuid.UUID
	Status        Status
	PaymentMethod PaymentMethod
	DateRange     daterange.Key
	DateField     DateField
}

// DoctorNames resolves doctor ids for search and presentation. Dangling
// references resolve to "Unknown Doctor".
type DoctorNames map[uuid.UUID]string

const UnknownDoctor = "Unknown Doctor"

func (n DoctorNames) Resolve(id uuid.UUID) string {
	if name, ok := n[id]; ok {
		return name
	}
	return UnknownDoctor
}

// NamesFor builds a lookup table from a doctor listing.
func NamesFor(doctors []doctor.Doctor) DoctorNames {
	names := make(DoctorNames, len(doctors))
	for _, d := range doctors {
		names[d.ID] = d.Name
	}
	return names
}

// ApplyFilter returns the subset of appointments matching every provided
// predicate. now anchors the date-range boundaries.
func ApplyFilter(apps []Appointment, names DoctorNames, f Filter, now time.Time) []Appointment {
	var rng daterange.Range
	var restricted bool
	if f.DateRange != "" {
		rng, restricted = daterange.Resolve(f.DateRange, now)
	}

	out := make([]Appointment, 0, len(apps))
	for _, a := range apps {
		if f.Search != "" && !matchesSearch(&a, names, f.Search) {
			continue
		}
		if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.PaymentMethod != "" {
			if a.PaymentMethod == nil || *a.PaymentMethod != f.PaymentMethod {
				continue
			}
		}
		if restricted {
			t, ok := filterTime(&a, f.DateField)
			if !ok || !rng.Contains(t) {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func matchesSearch(a *Appointment, names DoctorNames, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(a.PatientName), q) ||
		strings.Contains(strings.ToLower(names.Resolve(a.DoctorID)), q) ||
		strings.Contains(a.PhoneNumber, q)
}

func filterTime(a *Appointment, field DateField) (time.Time, bool) {
	if field == ByPaymentDate {
		if a.PaymentDate == nil {
			return time.Time{}, false
		}
		return *a.PaymentDate, true
	}
	return a.Date, true
}
