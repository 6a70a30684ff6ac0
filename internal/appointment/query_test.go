package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clinicdesk/clinicdesk/internal/daterange"
)

var (
	drSmith   = uuid.New()
	drJohnson = uuid.New()
)

var testNames = DoctorNames{
	drSmith:   "Dr. John Smith",
	drJohnson: "Dr. Sarah Johnson",
}

func paid(doctorID uuid.UUID, patient string, date time.Time, amount float64, method PaymentMethod, paidAt time.Time) Appointment {
	return Appointment{
		ID:            uuid.New(),
		DoctorID:      doctorID,
		PatientName:   patient,
		PhoneNumber:   "1234567890",
		Date:          date,
		Slot:          "9:00 AM",
		Status:        StatusCompleted,
		PaymentStatus: PaymentPaid,
		PaymentAmount: &amount,
		PaymentMethod: &method,
		PaymentDate:   &paidAt,
	}
}

func unpaid(doctorID uuid.UUID, patient string, date time.Time, status Status) Appointment {
	return Appointment{
		ID:          uuid.New(),
		DoctorID:    doctorID,
		PatientName: patient,
		PhoneNumber: "9876543210",
		Date:        date,
		Slot:        "1:00 PM",
		Status:      status,
	}
}

func TestApplyFilter(t *testing.T) {
	now := testNow // Wednesday 2025-07-16

	fixture := []Appointment{
		unpaid(drSmith, "Alice Johnson", day(2025, 7, 16), StatusPending),
		unpaid(drSmith, "Bob Brown", day(2025, 7, 17), StatusConfirmed),
		paid(drJohnson, "Alice Cooper", day(2025, 7, 10), 150, MethodCard, day(2025, 7, 10)),
		paid(drJohnson, "Charlie Davis", day(2025, 6, 2), 200, MethodCash, day(2025, 6, 2)),
	}

	t.Run("No Predicates Returns Everything", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{}, now)
		assert.Len(t, got, len(fixture))
	})

	t.Run("Search By Patient Name Case Insensitive", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{Search: "alice"}, now)
		assert.Len(t, got, 2)
	})

	t.Run("Search By Doctor Name", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{Search: "sarah"}, now)
		assert.Len(t, got, 2)
		for _, a := range got {
			assert.Equal(t, drJohnson, a.DoctorID)
		}
	})

	t.Run("Search By Phone", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{Search: "98765"}, now)
		assert.Len(t, got, 2)
	})

	t.Run("AND Composition", func(t *testing.T) {
		// "Alice" matches two records and completed matches two, but only
		// one record satisfies both.
		got := ApplyFilter(fixture, testNames, Filter{Search: "Alice", Status: StatusCompleted}, now)
		assert.Len(t, got, 1)
		assert.Equal(t, "Alice Cooper", got[0].PatientName)
	})

	t.Run("Doctor Filter", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{DoctorID: &drSmith}, now)
		assert.Len(t, got, 2)
	})

	t.Run("Payment Method Filter Skips Unpaid", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{PaymentMethod: MethodCard}, now)
		assert.Len(t, got, 1)
		assert.Equal(t, "Alice Cooper", got[0].PatientName)
	})

	t.Run("Today Against Appointment Date", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{DateRange: daterange.Today}, now)
		assert.Len(t, got, 1)
		assert.Equal(t, "Alice Johnson", got[0].PatientName)
	})

	t.Run("Tomorrow", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{DateRange: daterange.Tomorrow}, now)
		assert.Len(t, got, 1)
		assert.Equal(t, "Bob Brown", got[0].PatientName)
	})

	t.Run("This Week Against Payment Date Drops Unpaid", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{
			DateRange: daterange.ThisWeek,
			DateField: ByPaymentDate,
		}, now)
		// Both unpaid records fall inside the week by appointment date but
		// have no payment date to evaluate.
		assert.Empty(t, got)
	})

	t.Run("This Month Against Payment Date", func(t *testing.T) {
		got := ApplyFilter(fixture, testNames, Filter{
			DateRange: daterange.ThisMonth,
			DateField: ByPaymentDate,
		}, now)
		assert.Len(t, got, 1)
		assert.Equal(t, "Alice Cooper", got[0].PatientName)
	})

	t.Run("Dangling Doctor Resolves To Unknown", func(t *testing.T) {
		orphan := unpaid(uuid.New(), "Eve Orphan", day(2025, 7, 16), StatusPending)
		got := ApplyFilter([]Appointment{orphan}, testNames, Filter{Search: "unknown doctor"}, now)
		assert.Len(t, got, 1)
	})
}
