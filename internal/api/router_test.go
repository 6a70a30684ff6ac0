package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/appointment"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
	"github.com/clinicdesk/clinicdesk/internal/otp"
	redisclient "github.com/clinicdesk/clinicdesk/internal/redis"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log := zap.NewNop()
	doctorRepo := doctor.NewMemRepository()
	apptRepo := appointment.NewMemRepository()

	doctors := doctor.NewService(doctorRepo, log)
	appointments := appointment.NewService(apptRepo, doctorRepo, redisclient.NewLocalLocker(), log)
	otpSvc := otp.NewService(otp.NewMemStore(), otp.NewLogSender(log), 5*time.Minute, log)

	return NewRouter(RouterConfig{
		Doctors:        doctors,
		Appointments:   appointments,
		OTP:            otpSvc,
		Log:            log,
		AllowedOrigins: []string{"*"},
		Env:            "test",
		Version:        "test",
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func addTestDoctor(t *testing.T, router http.Handler, unavailable ...string) DoctorResponse {
	t.Helper()

	rr := doJSON(t, router, http.MethodPost, "/doctors", map[string]any{
		"name":           "Dr. John Smith",
		"specialization": "Cardiologist",
		"email":          "john.smith@example.com",
		"phone":          "1234567890",
		"experience":     15,
		"available_times": map[string][]string{
			"monday": {"9:00 AM", "9:30 AM"},
		},
		"unavailable_dates": unavailable,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[DoctorResponse](t, rr)
}

func TestDoctorEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("Add Derives Avatar", func(t *testing.T) {
		d := addTestDoctor(t, router)
		assert.Equal(t, "DJS", d.Avatar)
	})

	t.Run("Validation Failure Is 400", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/doctors", map[string]any{
			"name":  "X",
			"email": "not-an-email",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Unknown Weekday Rejected", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/doctors", map[string]any{
			"name":            "Dr. Sarah Johnson",
			"specialization":  "Dermatologist",
			"email":           "sarah@example.com",
			"phone":           "2345678901",
			"available_times": map[string][]string{"funday": {"9:00 AM"}},
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Update Merges", func(t *testing.T) {
		d := addTestDoctor(t, router)
		rr := doJSON(t, router, http.MethodPut, "/doctors/"+d.ID.String(), map[string]any{
			"bio": "Senior consultant.",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		updated := decode[DoctorResponse](t, rr)
		assert.Equal(t, "Senior consultant.", updated.Bio)
		assert.Equal(t, "Dr. John Smith", updated.Name)
	})

	t.Run("Update Missing Is 404", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPut, "/doctors/3f0c8aab-0000-4000-8000-000000000000", map[string]any{
			"bio": "x",
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		d := addTestDoctor(t, router)
		rr := doJSON(t, router, http.MethodDelete, "/doctors/"+d.ID.String(), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decode[SuccessResponse](t, rr).Success)

		rr = doJSON(t, router, http.MethodDelete, "/doctors/"+d.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Availability", func(t *testing.T) {
		d := addTestDoctor(t, router)

		// 2025-07-21 is a Monday.
		rr := doJSON(t, router, http.MethodGet, "/doctors/"+d.ID.String()+"/availability?date=2025-07-21", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decode[AvailabilityResponse](t, rr)
		assert.Equal(t, []string{"9:00 AM", "9:30 AM"}, resp.Slots)

		rr = doJSON(t, router, http.MethodGet, "/doctors/"+d.ID.String()+"/availability?date=2025-07-22", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, decode[AvailabilityResponse](t, rr).Slots)
	})
}

func TestAppointmentEndpoints(t *testing.T) {
	booking := func(d DoctorResponse) map[string]any {
		return map[string]any{
			"doctor_id":    d.ID.String(),
			"patient_name": "Alice Johnson",
			"phone_number": "1234567890",
			"reason":       "Regular heart checkup",
			"date":         "2025-07-21",
			"time":         "9:00 AM",
		}
	}

	t.Run("Book Forces Pending", func(t *testing.T) {
		router := newTestRouter(t)
		d := addTestDoctor(t, router)

		rr := doJSON(t, router, http.MethodPost, "/appointments", booking(d))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		resp := decode[AppointmentResponse](t, rr)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "unpaid", resp.PaymentStatus)
		assert.Equal(t, "Dr. John Smith", resp.DoctorName)
	})

	t.Run("Unavailable Date Is 409", func(t *testing.T) {
		router := newTestRouter(t)
		d := addTestDoctor(t, router, "2025-07-21")

		rr := doJSON(t, router, http.MethodPost, "/appointments", booking(d))
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "doctor_unavailable", decode[ErrorResponse](t, rr).Error)
	})

	t.Run("Double Booking Is 409", func(t *testing.T) {
		router := newTestRouter(t)
		d := addTestDoctor(t, router)

		rr := doJSON(t, router, http.MethodPost, "/appointments", booking(d))
		require.Equal(t, http.StatusCreated, rr.Code)
		rr = doJSON(t, router, http.MethodPost, "/appointments", booking(d))
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "slot_taken", decode[ErrorResponse](t, rr).Error)
	})

	t.Run("Short Reason Is 400", func(t *testing.T) {
		router := newTestRouter(t)
		d := addTestDoctor(t, router)

		b := booking(d)
		b["reason"] = "hi"
		rr := doJSON(t, router, http.MethodPost, "/appointments", b)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Complete Needs Payment", func(t *testing.T) {
		router := newTestRouter(t)
		d := addTestDoctor(t, router)

		created := decode[AppointmentResponse](t, doJSON(t, router, http.MethodPost, "/appointments", booking(d)))
		path := "/appointments/" + created.ID.String() + "/status"

		rr := doJSON(t, router, http.MethodPost, path, map[string]any{"status": "completed"})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		rr = doJSON(t, router, http.MethodPost, path, map[string]any{
			"status":  "completed",
			"payment": map[string]any{"amount": 150, "method": "card"},
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		resp := decode[AppointmentResponse](t, rr)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, "paid", resp.PaymentStatus)
		require.NotNil(t, resp.PaymentAmount)
		assert.Equal(t, 150.0, *resp.PaymentAmount)
	})

	t.Run("Bad Amounts Rejected", func(t *testing.T) {
		router := newTestRouter(t)
		d := addTestDoctor(t, router)

		created := decode[AppointmentResponse](t, doJSON(t, router, http.MethodPost, "/appointments", booking(d)))
		path := "/appointments/" + created.ID.String() + "/status"

		rr := doJSON(t, router, http.MethodPost, path, map[string]any{
			"status":  "completed",
			"payment": map[string]any{"amount": 0, "method": "card"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		rr = doJSON(t, router, http.MethodPost, path, map[string]any{
			"status":  "completed",
			"payment": map[string]any{"amount": -5, "method": "card"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("List With Filters", func(t *testing.T) {
		router := newTestRouter(t)
		d := addTestDoctor(t, router)

		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/appointments", booking(d)).Code)

		rr := doJSON(t, router, http.MethodGet, "/appointments?search=alice&status=pending", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[[]AppointmentResponse](t, rr), 1)

		rr = doJSON(t, router, http.MethodGet, "/appointments?search=alice&status=completed", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, decode[[]AppointmentResponse](t, rr))

		rr = doJSON(t, router, http.MethodGet, "/appointments?status=nonsense", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Delete Missing Is 404", func(t *testing.T) {
		router := newTestRouter(t)
		rr := doJSON(t, router, http.MethodDelete, "/appointments/3f0c8aab-0000-4000-8000-000000000000", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRevenueEndpoints(t *testing.T) {
	router := newTestRouter(t)
	d := addTestDoctor(t, router)

	// Two completed+paid bookings on today's date so period sums line up.
	today := time.Now().UTC().Format("2006-01-02")
	for i, amount := range []float64{100, 200} {
		rr := doJSON(t, router, http.MethodPost, "/appointments", map[string]any{
			"doctor_id":    d.ID.String(),
			"patient_name": "Alice Johnson",
			"phone_number": "1234567890",
			"reason":       "Regular heart checkup",
			"date":         today,
			"time":         fmt.Sprintf("%d:00 AM", 9+i),
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		created := decode[AppointmentResponse](t, rr)

		rr = doJSON(t, router, http.MethodPost, "/appointments/"+created.ID.String()+"/status", map[string]any{
			"status":  "completed",
			"payment": map[string]any{"amount": amount, "method": "cash"},
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	t.Run("Summary", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/revenue/summary", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		resp := decode[RevenueSummaryResponse](t, rr)
		assert.Equal(t, 300.0, resp.Total)
		require.Len(t, resp.ByDoctor, 1)
		assert.Equal(t, "Dr. John Smith", resp.ByDoctor[0].DoctorName)
		assert.InDelta(t, 100.0, resp.ByDoctor[0].Share, 1e-9)
	})

	t.Run("Export CSV", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/revenue/export", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rr.Body.String(), "Patient Name,Doctor,Date,Time,Amount,Payment Method,Payment Date")
		assert.Contains(t, rr.Body.String(), "100.00")
	})
}

func TestOTPEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/auth/otp/send", map[string]any{"phone_number": "1234567890"})
	require.Equal(t, http.StatusOK, rr.Code)

	t.Run("Wrong Code Is Rejected", func(t *testing.T) {
		// Two guesses cannot both match a single 4-digit code.
		first := doJSON(t, router, http.MethodPost, "/auth/otp/verify", map[string]any{
			"phone_number": "1234567890", "code": "0000",
		})
		second := doJSON(t, router, http.MethodPost, "/auth/otp/verify", map[string]any{
			"phone_number": "1234567890", "code": "0001",
		})
		assert.True(t, first.Code == http.StatusUnauthorized || second.Code == http.StatusUnauthorized)
	})

	t.Run("Never Sent Is 401", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/auth/otp/verify", map[string]any{
			"phone_number": "0000000000", "code": "1234",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Malformed Code Is 400", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/auth/otp/verify", map[string]any{
			"phone_number": "1234567890", "code": "12",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[ReadinessResponse](t, rr)
	assert.Equal(t, "memory", resp.Dependencies["store"])
}
