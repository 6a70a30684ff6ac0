package appointment

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	apps := []Appointment{
		paid(drSmith, "Alice Johnson", day(2023, 7, 15), 150, MethodCard, day(2023, 7, 15)),
		unpaid(uuid.New(), "Bob Smith", day(2023, 7, 16), StatusConfirmed),
	}

	var b strings.Builder
	require.NoError(t, WriteCSV(&b, apps, testNames))

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Patient Name,Doctor,Date,Time,Amount,Payment Method,Payment Date", lines[0])
	assert.Equal(t, "Alice Johnson,Dr. John Smith,2023-07-15,9:00 AM,150.00,card,2023-07-15", lines[1])
	assert.Equal(t, "Bob Smith,Unknown Doctor,2023-07-16,1:00 PM,,,", lines[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteCSV(&b, nil, testNames))
	assert.Equal(t, "Patient Name,Doctor,Date,Time,Amount,Payment Method,Payment Date\n", b.String())
}
