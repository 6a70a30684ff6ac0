package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/appointment"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
	"github.com/clinicdesk/clinicdesk/internal/otp"
)

type RouterConfig struct {
	Doctors        *doctor.Service
	Appointments   *appointment.Service
	OTP            *otp.Service
	Log            *zap.Logger
	PgPool         *pgxpool.Pool
	Redis          *redis.Client
	AllowedOrigins []string
	RateLimit      int
	Env            string
	Version        string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Doctor endpoints
	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", listDoctorsHandler(cfg.Doctors))
		r.Post("/", addDoctorHandler(cfg.Doctors))
		r.Get("/{id}", getDoctorHandler(cfg.Doctors))
		r.Put("/{id}", updateDoctorHandler(cfg.Doctors))
		r.Delete("/{id}", deleteDoctorHandler(cfg.Doctors))
		r.Get("/{id}/availability", doctorAvailabilityHandler(cfg.Doctors))
	})

	// Appointment endpoints
	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(cfg.Appointments, cfg.Doctors))
		r.Post("/", bookAppointmentHandler(cfg.Appointments, cfg.Doctors))
		r.Get("/{id}", getAppointmentHandler(cfg.Appointments, cfg.Doctors))
		r.Put("/{id}", updateAppointmentHandler(cfg.Appointments, cfg.Doctors))
		r.Delete("/{id}", deleteAppointmentHandler(cfg.Appointments))
		r.Post("/{id}/status", changeStatusHandler(cfg.Appointments, cfg.Doctors))
		r.Post("/{id}/payment", recordPaymentHandler(cfg.Appointments, cfg.Doctors))
	})

	// Revenue history endpoints
	r.Route("/revenue", func(r chi.Router) {
		r.Get("/summary", revenueSummaryHandler(cfg.Appointments, cfg.Doctors))
		r.Get("/export", revenueExportHandler(cfg.Appointments, cfg.Doctors))
	})

	// OTP endpoints
	r.Route("/auth/otp", func(r chi.Router) {
		r.Post("/send", sendOTPHandler(cfg.OTP))
		r.Post("/verify", verifyOTPHandler(cfg.OTP))
	})

	return r
}
