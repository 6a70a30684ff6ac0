package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinicdesk/internal/appointment"
	"github.com/clinicdesk/clinicdesk/internal/daterange"
	"github.com/clinicdesk/clinicdesk/internal/db"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := ensureSchema(context.Background(), pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	doctors, err := seedDoctors(context.Background(), pool, 12)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, doctors, 200); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS doctors (
			id                UUID PRIMARY KEY,
			name              TEXT NOT NULL,
			specialization    TEXT NOT NULL,
			avatar            TEXT NOT NULL DEFAULT '',
			email             TEXT NOT NULL DEFAULT '',
			phone             TEXT NOT NULL DEFAULT '',
			experience        INT NOT NULL DEFAULT 0,
			bio               TEXT NOT NULL DEFAULT '',
			address           TEXT NOT NULL DEFAULT '',
			image_url         TEXT,
			available_times   JSONB,
			unavailable_dates JSONB,
			created_at        TIMESTAMPTZ NOT NULL,
			updated_at        TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id             UUID PRIMARY KEY,
			doctor_id      UUID NOT NULL,
			patient_name   TEXT NOT NULL,
			phone_number   TEXT NOT NULL,
			reason         TEXT NOT NULL,
			date           TIMESTAMPTZ NOT NULL,
			slot           TEXT NOT NULL,
			status         TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			payment_amount DOUBLE PRECISION,
			payment_method TEXT,
			payment_date   TIMESTAMPTZ,
			created_at     TIMESTAMPTZ NOT NULL,
			updated_at     TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date
			ON appointments (doctor_id, date)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]doctor.Doctor, error) {
	log.Printf("seeding %d doctors", count)

	specializations := []string{
		"Cardiologist",
		"Dermatologist",
		"General Physician",
		"Orthopedist",
		"Neurologist",
		"Pediatrician",
		"Psychiatrist",
		"Ophthalmologist",
		"ENT Specialist",
		"Endocrinologist",
	}

	repo := doctor.NewPgRepository(pool)
	now := time.Now().UTC()

	doctors := make([]doctor.Doctor, 0, count)
	for i := 0; i < count; i++ {
		name := "Dr. " + gofakeit.Name()
		d := doctor.Doctor{
			ID:             uuid.New(),
			Name:           name,
			Specialization: specializations[gofakeit.Number(0, len(specializations)-1)],
			Avatar:         doctor.Initials(name),
			Email:          gofakeit.Email(),
			Phone:          gofakeit.Phone(),
			Experience:     gofakeit.Number(2, 30),
			Bio:            gofakeit.Sentence(12),
			Address:        gofakeit.Address().Address,
			AvailableTimes: randomSchedule(),
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		// A few doctors take next Friday off.
		if i%4 == 0 {
			d.UnavailableDates = []time.Time{nextWeekday(now, time.Friday)}
		}

		if err := repo.Create(ctx, &d); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}

	log.Println("doctors seeded")
	return doctors, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, doctors []doctor.Doctor, count int) error {
	log.Printf("seeding %d appointments", count)

	reasons := []string{
		"Regular checkup and consultation",
		"Follow-up on previous treatment",
		"Persistent headache and fatigue",
		"Annual physical examination",
		"Skin rash consultation",
		"Back pain evaluation",
	}
	methods := []appointment.PaymentMethod{
		appointment.MethodCash,
		appointment.MethodUPI,
		appointment.MethodCard,
	}

	repo := appointment.NewPgRepository(pool)
	slots := doctor.DefaultTimeSlots()
	now := time.Now().UTC()

	for i := 0; i < count; i++ {
		d := doctors[gofakeit.Number(0, len(doctors)-1)]

		// Spread dates across the past two months and the next two weeks.
		date := daterange.StartOfDay(now.AddDate(0, 0, gofakeit.Number(-60, 14)))

		a := appointment.Appointment{
			ID:            uuid.New(),
			DoctorID:      d.ID,
			PatientName:   gofakeit.Name(),
			PhoneNumber:   fmt.Sprintf("9%09d", gofakeit.Number(0, 999999999)),
			Reason:        reasons[gofakeit.Number(0, len(reasons)-1)],
			Date:          date,
			Slot:          slots[gofakeit.Number(0, len(slots)-1)],
			Status:        appointment.StatusPending,
			PaymentStatus: appointment.PaymentUnpaid,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		// Past appointments mostly completed and paid, the rest a mix.
		switch {
		case date.Before(daterange.StartOfDay(now)) && gofakeit.Number(0, 9) < 8:
			amount := float64(gofakeit.Number(20, 60)) * 10
			method := methods[gofakeit.Number(0, len(methods)-1)]
			paidAt := date.Add(18 * time.Hour)

			a.Status = appointment.StatusCompleted
			a.PaymentStatus = appointment.PaymentPaid
			a.PaymentAmount = &amount
			a.PaymentMethod = &method
			a.PaymentDate = &paidAt
		case gofakeit.Number(0, 9) < 2:
			a.Status = appointment.StatusCancelled
		case gofakeit.Number(0, 9) < 5:
			a.Status = appointment.StatusConfirmed
		}

		if err := repo.Create(ctx, &a); err != nil {
			return err
		}
	}

	log.Println("appointments seeded")
	return nil
}

func randomSchedule() map[doctor.Weekday][]string {
	slots := doctor.DefaultTimeSlots()
	schedule := make(map[doctor.Weekday][]string)

	for _, day := range doctor.Weekdays {
		if day == doctor.Sunday {
			continue
		}
		// Each working day gets a contiguous run of slots.
		start := gofakeit.Number(0, 4)
		end := gofakeit.Number(start+4, len(slots))
		schedule[day] = append([]string(nil), slots[start:end]...)
	}
	return schedule
}

func nextWeekday(from time.Time, day time.Weekday) time.Time {
	d := daterange.StartOfDay(from)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
