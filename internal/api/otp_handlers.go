package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicdesk/clinicdesk/internal/otp"
)

func sendOTPHandler(svc *otp.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		if err := svc.Send(r.Context(), req.PhoneNumber); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}

func verifyOTPHandler(svc *otp.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		err := svc.Verify(r.Context(), req.PhoneNumber, req.Code)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
		case errors.Is(err, otp.ErrInvalidCode):
			writeError(w, http.StatusUnauthorized, "invalid_otp_code", err.Error())
		case errors.Is(err, otp.ErrCodeExpired):
			writeError(w, http.StatusUnauthorized, "otp_code_expired", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
	}
}
