package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	now := testNow // Wednesday 2025-07-16

	t.Run("Totals And Groups", func(t *testing.T) {
		apps := []Appointment{
			paid(drSmith, "Alice Johnson", day(2025, 7, 15), 100, MethodCard, day(2025, 7, 15)),  // this week
			paid(drSmith, "Bob Brown", day(2025, 7, 2), 200, MethodCash, day(2025, 7, 2)),        // this month
			paid(drJohnson, "Charlie Davis", day(2025, 2, 10), 300, MethodUPI, day(2025, 2, 10)), // this year
			unpaid(drSmith, "Dana Unpaid", day(2025, 7, 15), StatusConfirmed),
		}

		s := Summarize(apps, now)

		assert.Equal(t, 600.0, s.Total)
		assert.Equal(t, 100.0, s.Weekly)
		assert.Equal(t, 300.0, s.Monthly)
		assert.Equal(t, 600.0, s.Yearly)

		assert.Equal(t, 300.0, s.ByDoctor[drSmith])
		assert.Equal(t, 300.0, s.ByDoctor[drJohnson])

		var doctorTotal float64
		for _, v := range s.ByDoctor {
			doctorTotal += v
		}
		assert.Equal(t, s.Total, doctorTotal)

		assert.Equal(t, 300.0, s.ByMonth["Jul 2025"])
		assert.Equal(t, 300.0, s.ByMonth["Feb 2025"])
	})

	t.Run("Percentage Shares Sum To 100", func(t *testing.T) {
		apps := []Appointment{
			paid(drSmith, "A", day(2025, 7, 15), 100, MethodCard, day(2025, 7, 15)),
			paid(drSmith, "B", day(2025, 7, 15), 200, MethodCash, day(2025, 7, 15)),
			paid(drJohnson, "C", day(2025, 7, 15), 300, MethodUPI, day(2025, 7, 15)),
		}

		s := Summarize(apps, now)

		var sum float64
		for _, v := range s.ByDoctor {
			sum += Share(v, s.Total)
		}
		assert.InDelta(t, 100.0, sum, 1e-9)
	})

	t.Run("Completed But Unpaid Does Not Count", func(t *testing.T) {
		a := unpaid(drSmith, "A", day(2025, 7, 15), StatusCompleted)
		s := Summarize([]Appointment{a}, now)
		assert.Zero(t, s.Total)
	})

	t.Run("Empty Collection", func(t *testing.T) {
		s := Summarize(nil, now)
		assert.Zero(t, s.Total)
		assert.Empty(t, s.ByDoctor)
		assert.Empty(t, s.ByMonth)
	})
}

func TestShare(t *testing.T) {
	assert.Equal(t, 50.0, Share(300, 600))
	assert.Equal(t, 0.0, Share(0, 600))

	t.Run("Zero Total Does Not Divide", func(t *testing.T) {
		assert.Equal(t, 0.0, Share(100, 0))
	})
}

func TestSummarizeWeekBoundary(t *testing.T) {
	// Monday 2025-07-14 is the start of now's week; Sunday the 13th is not
	// part of it.
	sundayPaid := paid(uuid.New(), "Sunday", day(2025, 7, 13), 50, MethodCash, day(2025, 7, 13))
	mondayPaid := paid(uuid.New(), "Monday", day(2025, 7, 14), 70, MethodCash, day(2025, 7, 14))

	s := Summarize([]Appointment{sundayPaid, mondayPaid}, time.Date(2025, 7, 16, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, 70.0, s.Weekly)
	assert.Equal(t, 120.0, s.Total)
}
