package api

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/appointment"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
)

// paidHistory returns the filtered revenue-history view: completed, paid
// records with date ranges evaluated against the payment date.
func paidHistory(r *http.Request, svc *appointment.Service, names appointment.DoctorNames, now time.Time) ([]appointment.Appointment, error) {
	apps, err := svc.List(r.Context())
	if err != nil {
		return nil, err
	}

	f, err := filterFromQuery(r)
	if err != nil {
		return nil, err
	}
	f.DateField = appointment.ByPaymentDate

	paid := make([]appointment.Appointment, 0, len(apps))
	for _, a := range apps {
		if a.Status == appointment.StatusCompleted && a.Paid() {
			paid = append(paid, a)
		}
	}

	return appointment.ApplyFilter(paid, names, f, now), nil
}

func revenueSummaryHandler(svc *appointment.Service, doctors *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		names := doctorNames(r.Context(), doctors)

		apps, err := paidHistory(r, svc, names, now)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
			return
		}

		s := appointment.Summarize(apps, now)

		byDoctor := make([]DoctorRevenue, 0, len(s.ByDoctor))
		for id, amount := range s.ByDoctor {
			byDoctor = append(byDoctor, DoctorRevenue{
				DoctorID:   id,
				DoctorName: names.Resolve(id),
				Amount:     amount,
				Share:      appointment.Share(amount, s.Total),
			})
		}
		sort.Slice(byDoctor, func(i, j int) bool {
			if byDoctor[i].Amount != byDoctor[j].Amount {
				return byDoctor[i].Amount > byDoctor[j].Amount
			}
			return byDoctor[i].DoctorName < byDoctor[j].DoctorName
		})

		byMonth := make([]MonthRevenue, 0, len(s.ByMonth))
		for month, amount := range s.ByMonth {
			byMonth = append(byMonth, MonthRevenue{
				Month:  month,
				Amount: amount,
				Share:  appointment.Share(amount, s.Total),
			})
		}
		sort.Slice(byMonth, func(i, j int) bool {
			ti, _ := time.Parse("Jan 2006", byMonth[i].Month)
			tj, _ := time.Parse("Jan 2006", byMonth[j].Month)
			return ti.Before(tj)
		})

		writeJSON(w, http.StatusOK, RevenueSummaryResponse{
			Total:    s.Total,
			Weekly:   s.Weekly,
			Monthly:  s.Monthly,
			Yearly:   s.Yearly,
			ByDoctor: byDoctor,
			ByMonth:  byMonth,
		})
	}
}

func revenueExportHandler(svc *appointment.Service, doctors *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		names := doctorNames(r.Context(), doctors)

		apps, err := paidHistory(r, svc, names, now)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
			return
		}

		filename := fmt.Sprintf("appointment_history_%s.csv", now.UTC().Format(dateLayout))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := appointment.WriteCSV(w, apps, names); err != nil {
			// Headers are already out; nothing useful left to send.
			return
		}
	}
}
