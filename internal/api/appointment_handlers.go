package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/appointment"
	"github.com/clinicdesk/clinicdesk/internal/daterange"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
)

func bookAppointmentHandler(svc *appointment.Service, doctors *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		doctorID, _ := uuid.Parse(req.DoctorID)
		date, _ := time.ParseInLocation(dateLayout, req.Date, time.UTC)

		a, err := svc.Book(r.Context(), appointment.Booking{
			DoctorID:    doctorID,
			PatientName: req.PatientName,
			PhoneNumber: req.PhoneNumber,
			Reason:      req.Reason,
			Date:        date,
			Slot:        req.Time,
		})
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(a, doctorNames(r.Context(), doctors)))
	}
}

func listAppointmentsHandler(svc *appointment.Service, doctors *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		names := doctorNames(r.Context(), doctors)

		f, err := filterFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
			return
		}
		apps = appointment.ApplyFilter(apps, names, f, time.Now())

		resp := make([]AppointmentResponse, 0, len(apps))
		for i := range apps {
			resp = append(resp, toAppointmentResponse(&apps[i], names))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(svc *appointment.Service, doctors *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		a, err := svc.Get(r.Context(), id)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a, doctorNames(r.Context(), doctors)))
	}
}

func updateAppointmentHandler(svc *appointment.Service, doctors *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req UpdateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		var upd appointment.Update
		if req.DoctorID != nil {
			docID, _ := uuid.Parse(*req.DoctorID)
			upd.DoctorID = &docID
		}
		upd.PatientName = req.PatientName
		upd.PhoneNumber = req.PhoneNumber
		upd.Reason = req.Reason
		if req.Date != nil {
			date, _ := time.ParseInLocation(dateLayout, *req.Date, time.UTC)
			upd.Date = &date
		}
		upd.Slot = req.Time

		a, err := svc.Update(r.Context(), id, upd)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a, doctorNames(r.Context(), doctors)))
	}
}

func changeStatusHandler(svc *appointment.Service, doctors *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req ChangeStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		var pay *appointment.Payment
		if req.Payment != nil {
			p, err := paymentFromRequest(*req.Payment)
			if err != nil {
				handleAppointmentError(w, err)
				return
			}
			pay = &p
		}

		a, err := svc.ChangeStatus(r.Context(), id, appointment.Status(req.Status), pay)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a, doctorNames(r.Context(), doctors)))
	}
}

func recordPaymentHandler(svc *appointment.Service, doctors *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		pay, err := paymentFromRequest(req)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		a, err := svc.RecordPayment(r.Context(), id, pay)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a, doctorNames(r.Context(), doctors)))
	}
}

func deleteAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}

// Helpers

func paymentFromRequest(req PaymentRequest) (appointment.Payment, error) {
	amount, err := appointment.ParseAmount(req.Amount.String())
	if err != nil {
		return appointment.Payment{}, err
	}
	return appointment.Payment{
		Amount: amount,
		Method: appointment.PaymentMethod(req.Method),
	}, nil
}

// doctorNames loads the id-to-name table for response hydration. A failing
// lookup degrades to "Unknown Doctor" rather than failing the request.
func doctorNames(ctx context.Context, doctors *doctor.Service) appointment.DoctorNames {
	list, err := doctors.List(ctx)
	if err != nil {
		return appointment.DoctorNames{}
	}
	return appointment.NamesFor(list)
}

func filterFromQuery(r *http.Request) (appointment.Filter, error) {
	q := r.URL.Query()
	f := appointment.Filter{
		Search:        q.Get("search"),
		Status:        appointment.Status(q.Get("status")),
		PaymentMethod: appointment.PaymentMethod(q.Get("payment_method")),
	}

	if f.Status != "" && !appointment.ValidStatus(f.Status) {
		return f, errors.New("unknown status filter")
	}
	if f.PaymentMethod != "" && !appointment.ValidMethod(f.PaymentMethod) {
		return f, errors.New("unknown payment method filter")
	}

	if v := q.Get("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, errors.New("doctor_id must be a valid UUID")
		}
		f.DoctorID = &id
	}

	if v := q.Get("date_range"); v != "" && v != string(daterange.All) {
		f.DateRange = daterange.Key(v)
	}
	if q.Get("date_field") == "payment" {
		f.DateField = appointment.ByPaymentDate
	}

	return f, nil
}

func handleAppointmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, doctor.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, doctor.ErrDoctorUnavailable):
		writeError(w, http.StatusConflict, "doctor_unavailable", err.Error())
	case errors.Is(err, appointment.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.Is(err, appointment.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, appointment.ErrPaymentRequired):
		writeError(w, http.StatusUnprocessableEntity, "payment_required", err.Error())
	case errors.Is(err, appointment.ErrInvalidPaymentAmount):
		writeError(w, http.StatusUnprocessableEntity, "invalid_payment_amount", err.Error())
	case errors.Is(err, appointment.ErrInvalidPaymentMethod):
		writeError(w, http.StatusUnprocessableEntity, "invalid_payment_method", err.Error())
	case errors.Is(err, appointment.ErrNotCompleted):
		writeError(w, http.StatusConflict, "appointment_not_completed", err.Error())
	case errors.Is(err, appointment.ErrAlreadyPaid):
		writeError(w, http.StatusConflict, "appointment_already_paid", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
