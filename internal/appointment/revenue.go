package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/daterange"
)

// Summary holds the revenue aggregates over paid, completed appointments.
// Weekly/Monthly/Yearly are period-to-now sums anchored at the moment the
// summary was computed; weeks start on Monday.
type Summary struct {
	Total    float64
	Weekly   float64
	Monthly  float64
	Yearly   float64
	ByDoctor map[uuid.UUID]float64
	ByMonth  map[string]float64
}

// Summarize computes revenue aggregates from the appointment collection.
// Only completed appointments with a recorded payment contribute.
func Summarize(apps []Appointment, now time.Time) Summary {
	s := Summary{
		ByDoctor: make(map[uuid.UUID]float64),
		ByMonth:  make(map[string]float64),
	}

	weekStart := daterange.StartOfWeek(now)
	monthStart := daterange.StartOfMonth(now)
	yearStart := daterange.StartOfYear(now)

	for _, a := range apps {
		if a.Status != StatusCompleted || !a.Paid() || a.PaymentAmount == nil || a.PaymentDate == nil {
			continue
		}

		amount := *a.PaymentAmount
		paidAt := a.PaymentDate.UTC()

		s.Total += amount
		if !paidAt.Before(weekStart) {
			s.Weekly += amount
		}
		if !paidAt.Before(monthStart) {
			s.Monthly += amount
		}
		if !paidAt.Before(yearStart) {
			s.Yearly += amount
		}

		s.ByDoctor[a.DoctorID] += amount
		s.ByMonth[daterange.MonthLabel(paidAt)] += amount
	}

	return s
}

// Share returns part's percentage of total. A zero total yields zero rather
// than dividing by it.
func Share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
