package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/api"
	"github.com/clinicdesk/clinicdesk/internal/appointment"
	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/db"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
	"github.com/clinicdesk/clinicdesk/internal/otp"
	redisclient "github.com/clinicdesk/clinicdesk/internal/redis"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	log := newLogger(cfg.Env)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		pgPool      *pgxpool.Pool
		redisClient *redis.Client

		doctorRepo doctor.Repository
		apptRepo   appointment.Repository
		locker     redisclient.Locker
		otpStore   otp.CodeStore
	)

	if cfg.MemoryStore {
		log.Warn("running with in-memory store, data will not survive restarts")
		doctorRepo = doctor.NewMemRepository()
		apptRepo = appointment.NewMemRepository()
		locker = redisclient.NewLocalLocker()
		otpStore = otp.NewMemStore()
	} else {
		pgPool, err = db.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("connect postgres", zap.Error(err))
		}
		defer pgPool.Close()

		redisClient, err = redisclient.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatal("connect redis", zap.Error(err))
		}
		defer redisClient.Close()

		doctorRepo = doctor.NewPgRepository(pgPool)
		apptRepo = appointment.NewPgRepository(pgPool)
		locker = redisclient.NewBookingLocker(redisClient, cfg.LockTTL)
		otpStore = otp.NewRedisStore(redisClient)
	}

	doctors := doctor.NewService(doctorRepo, log)
	appointments := appointment.NewService(apptRepo, doctorRepo, locker, log)
	otpSvc := otp.NewService(otpStore, otp.NewLogSender(log), cfg.OTPTTL, log)

	router := api.NewRouter(api.RouterConfig{
		Doctors:        doctors,
		Appointments:   appointments,
		OTP:            otpSvc,
		Log:            log,
		PgPool:         pgPool,
		Redis:          redisClient,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		Env:            cfg.Env,
		Version:        version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatal("http server failed", zap.Error(err))
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if env == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return log
}
