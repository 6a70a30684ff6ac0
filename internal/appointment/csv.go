package appointment

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvHeader matches the appointment-history export format.
var csvHeader = []string{"Patient Name", "Doctor", "Date", "Time", "Amount", "Payment Method", "Payment Date"}

// WriteCSV streams the appointment history export: one row per record,
// amounts to two decimal places, dates as yyyy-MM-dd. Records without a
// payment get empty payment columns.
func WriteCSV(w io.Writer, apps []Appointment, names DoctorNames) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, a := range apps {
		amount := ""
		if a.PaymentAmount != nil {
			amount = fmt.Sprintf("%.2f", *a.PaymentAmount)
		}
		method := ""
		if a.PaymentMethod != nil {
			method = string(*a.PaymentMethod)
		}
		paidAt := ""
		if a.PaymentDate != nil {
			paidAt = a.PaymentDate.UTC().Format("2006-01-02")
		}

		row := []string{
			a.PatientName,
			names.Resolve(a.DoctorID),
			a.Date.UTC().Format("2006-01-02"),
			a.Slot,
			amount,
			method,
			paidAt,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
