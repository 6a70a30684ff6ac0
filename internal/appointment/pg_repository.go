package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `id, doctor_id, patient_name, phone_number, reason, date, slot, status, payment_status, payment_amount, payment_method, payment_date, created_at, updated_at`

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var amount *float64
	var method *string
	var paidAt *time.Time

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientName,
		&a.PhoneNumber,
		&a.Reason,
		&a.Date,
		&a.Slot,
		&a.Status,
		&a.PaymentStatus,
		&amount,
		&method,
		&paidAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.PaymentAmount = amount
	if method != nil {
		m := PaymentMethod(*method)
		a.PaymentMethod = &m
	}
	a.PaymentDate = paidAt

	return &a, nil
}

func methodString(m *PaymentMethod) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}

// Interface methods

func (r *PgRepository) List(ctx context.Context) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY date, slot, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) Create(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_name, phone_number, reason, date, slot, status, payment_status, payment_amount, payment_method, payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, a.ID, a.DoctorID, a.PatientName, a.PhoneNumber, a.Reason, a.Date, a.Slot, a.Status, a.PaymentStatus, a.PaymentAmount, methodString(a.PaymentMethod), a.PaymentDate, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	return nil
}

func (r *PgRepository) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET doctor_id = $2,
		    patient_name = $3,
		    phone_number = $4,
		    reason = $5,
		    date = $6,
		    slot = $7,
		    status = $8,
		    payment_status = $9,
		    payment_amount = $10,
		    payment_method = $11,
		    payment_date = $12,
		    updated_at = $13
		WHERE id = $1
	`, a.ID, a.DoctorID, a.PatientName, a.PhoneNumber, a.Reason, a.Date, a.Slot, a.Status, a.PaymentStatus, a.PaymentAmount, methodString(a.PaymentMethod), a.PaymentDate, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *PgRepository) FindActiveSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND date::date = $2::date
		  AND slot = $3
		  AND status <> 'cancelled'
		LIMIT 1
	`, doctorID, date, slot)
	return scanAppointment(row)
}
