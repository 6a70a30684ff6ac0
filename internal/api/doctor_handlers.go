package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/doctor"
)

func listDoctorsHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for i := range doctors {
			resp = append(resp, toDoctorResponse(&doctors[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		d, err := svc.Get(r.Context(), id)
		if err != nil {
			handleDoctorError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponse(d))
	}
}

func addDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		times, err := parseSchedule(req.AvailableTimes)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		dates, err := parseDates(req.UnavailableDates)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		d, err := svc.Add(r.Context(), doctor.NewDoctor{
			Name:             req.Name,
			Specialization:   req.Specialization,
			Email:            req.Email,
			Phone:            req.Phone,
			Experience:       req.Experience,
			Bio:              req.Bio,
			Address:          req.Address,
			ImageURL:         req.ImageURL,
			AvailableTimes:   times,
			UnavailableDates: dates,
		})
		if err != nil {
			handleDoctorError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDoctorResponse(d))
	}
}

func updateDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		var req UpdateDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		times, err := parseSchedule(req.AvailableTimes)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		dates, err := parseDates(req.UnavailableDates)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		d, err := svc.Update(r.Context(), id, doctor.Update{
			Name:             req.Name,
			Specialization:   req.Specialization,
			Email:            req.Email,
			Phone:            req.Phone,
			Experience:       req.Experience,
			Bio:              req.Bio,
			Address:          req.Address,
			ImageURL:         req.ImageURL,
			AvailableTimes:   times,
			UnavailableDates: dates,
		})
		if err != nil {
			handleDoctorError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDoctorResponse(d))
	}
}

func deleteDoctorHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleDoctorError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}

func doctorAvailabilityHandler(svc *doctor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		dateStr := r.URL.Query().Get("date")
		date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted yyyy-MM-dd")
			return
		}

		slots, err := svc.Availability(r.Context(), id, date)
		if err != nil {
			handleDoctorError(w, err)
			return
		}
		if slots == nil {
			slots = []string{}
		}

		writeJSON(w, http.StatusOK, AvailabilityResponse{
			DoctorID: id,
			Date:     dateStr,
			Slots:    slots,
		})
	}
}

func handleDoctorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, doctor.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, doctor.ErrDoctorUnavailable):
		writeError(w, http.StatusConflict, "doctor_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
