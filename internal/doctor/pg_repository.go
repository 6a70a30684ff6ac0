package doctor

import (
	"context"
	"encoding/json"
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

const doctorColumns = `id, name, specialization, avatar, email, phone, experience, bio, address, image_url, available_times, unavailable_dates, created_at, updated_at`

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var imageURL *string
	var timesJSON, datesJSON []byte

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Specialization,
		&d.Avatar,
		&d.Email,
		&d.Phone,
		&d.Experience,
		&d.Bio,
		&d.Address,
		&imageURL,
		&timesJSON,
		&datesJSON,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	d.ImageURL = imageURL

	if len(timesJSON) > 0 {
		if err := json.Unmarshal(timesJSON, &d.AvailableTimes); err != nil {
			return nil, fmt.Errorf("decode available_times: %w", err)
		}
	}
	if len(datesJSON) > 0 {
		dates, err := decodeDates(datesJSON)
		if err != nil {
			return nil, fmt.Errorf("decode unavailable_dates: %w", err)
		}
		d.UnavailableDates = dates
	}

	return &d, nil
}

func encodeSchedule(d *Doctor) (timesJSON, datesJSON []byte, err error) {
	if d.AvailableTimes != nil {
		timesJSON, err = json.Marshal(d.AvailableTimes)
		if err != nil {
			return nil, nil, fmt.Errorf("encode available_times: %w", err)
		}
	}

	days := make([]string, 0, len(d.UnavailableDates))
	for _, t := range d.UnavailableDates {
		days = append(days, t.UTC().Format("2006-01-02"))
	}
	datesJSON, err = json.Marshal(days)
	if err != nil {
		return nil, nil, fmt.Errorf("encode unavailable_dates: %w", err)
	}

	return timesJSON, datesJSON, nil
}

func decodeDates(raw []byte) ([]time.Time, error) {
	var days []string
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}
	out := make([]time.Time, 0, len(days))
	for _, s := range days {
		t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Interface methods

func (r *PgRepository) List(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) Create(ctx context.Context, d *Doctor) error {
	timesJSON, datesJSON, err := encodeSchedule(d)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO doctors (id, name, specialization, avatar, email, phone, experience, bio, address, image_url, available_times, unavailable_dates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, d.ID, d.Name, d.Specialization, d.Avatar, d.Email, d.Phone, d.Experience, d.Bio, d.Address, d.ImageURL, timesJSON, datesJSON, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}

	return nil
}

func (r *PgRepository) Update(ctx context.Context, d *Doctor) error {
	timesJSON, datesJSON, err := encodeSchedule(d)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE doctors
		SET name = $2,
		    specialization = $3,
		    avatar = $4,
		    email = $5,
		    phone = $6,
		    experience = $7,
		    bio = $8,
		    address = $9,
		    image_url = $10,
		    available_times = $11,
		    unavailable_dates = $12,
		    updated_at = $13
		WHERE id = $1
	`, d.ID, d.Name, d.Specialization, d.Avatar, d.Email, d.Phone, d.Experience, d.Bio, d.Address, d.ImageURL, timesJSON, datesJSON, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}

	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM doctors
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}

	return nil
}
