package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/appointment"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
)

var validate = validator.New()

const dateLayout = "2006-01-02"

// Requests

type CreateDoctorRequest struct {
	Name             string              `json:"name" validate:"required,min=2"`
	Specialization   string              `json:"specialization" validate:"required"`
	Email            string              `json:"email" validate:"required,email"`
	Phone            string              `json:"phone" validate:"required,min=10"`
	Experience       int                 `json:"experience" validate:"gte=0"`
	Bio              string              `json:"bio"`
	Address          string              `json:"address"`
	ImageURL         *string             `json:"image_url"`
	AvailableTimes   map[string][]string `json:"available_times"`
	UnavailableDates []string            `json:"unavailable_dates" validate:"dive,datetime=2006-01-02"`
}

type UpdateDoctorRequest struct {
	Name             *string             `json:"name" validate:"omitempty,min=2"`
	Specialization   *string             `json:"specialization" validate:"omitempty,min=1"`
	Email            *string             `json:"email" validate:"omitempty,email"`
	Phone            *string             `json:"phone" validate:"omitempty,min=10"`
	Experience       *int                `json:"experience" validate:"omitempty,gte=0"`
	Bio              *string             `json:"bio"`
	Address          *string             `json:"address"`
	ImageURL         *string             `json:"image_url"`
	AvailableTimes   map[string][]string `json:"available_times"`
	UnavailableDates []string            `json:"unavailable_dates" validate:"omitempty,dive,datetime=2006-01-02"`
}

type BookAppointmentRequest struct {
	DoctorID    string `json:"doctor_id" validate:"required,uuid"`
	PatientName string `json:"patient_name" validate:"required,min=3"`
	PhoneNumber string `json:"phone_number" validate:"required,min=10"`
	Reason      string `json:"reason" validate:"required,min=5"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required"`
}

type UpdateAppointmentRequest struct {
	DoctorID    *string `json:"doctor_id" validate:"omitempty,uuid"`
	PatientName *string `json:"patient_name" validate:"omitempty,min=3"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,min=10"`
	Reason      *string `json:"reason" validate:"omitempty,min=5"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time        *string `json:"time"`
}

type PaymentRequest struct {
	Amount json.Number `json:"amount" validate:"required"`
	Method string      `json:"method" validate:"required,oneof=cash upi card"`
}

type ChangeStatusRequest struct {
	Status  string          `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Payment *PaymentRequest `json:"payment"`
}

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=10"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=10"`
	Code        string `json:"code" validate:"required,len=4,number"`
}

// Responses

type DoctorResponse struct {
	ID               uuid.UUID           `json:"id"`
	Name             string              `json:"name"`
	Specialization   string              `json:"specialization"`
	Avatar           string              `json:"avatar"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
	Experience       int                 `json:"experience"`
	Bio              string              `json:"bio"`
	Address          string              `json:"address"`
	ImageURL         *string             `json:"image_url,omitempty"`
	AvailableTimes   map[string][]string `json:"available_times,omitempty"`
	UnavailableDates []string            `json:"unavailable_dates"`
}

type AppointmentResponse struct {
	ID            uuid.UUID  `json:"id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	DoctorName    string     `json:"doctor_name"`
	PatientName   string     `json:"patient_name"`
	PhoneNumber   string     `json:"phone_number"`
	Reason        string     `json:"reason"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	PaymentAmount *float64   `json:"payment_amount,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
}

type AvailabilityResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Slots    []string  `json:"slots"`
}

type DoctorRevenue struct {
	DoctorID   uuid.UUID `json:"doctor_id"`
	DoctorName string    `json:"doctor_name"`
	Amount     float64   `json:"amount"`
	Share      float64   `json:"share"`
}

type MonthRevenue struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
	Share  float64 `json:"share"`
}

type RevenueSummaryResponse struct {
	Total    float64         `json:"total"`
	Weekly   float64         `json:"weekly"`
	Monthly  float64         `json:"monthly"`
	Yearly   float64         `json:"yearly"`
	ByDoctor []DoctorRevenue `json:"by_doctor"`
	ByMonth  []MonthRevenue  `json:"by_month"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Conversions

func toDoctorResponse(d *doctor.Doctor) DoctorResponse {
	times := make(map[string][]string, len(d.AvailableTimes))
	for day, slots := range d.AvailableTimes {
		times[string(day)] = slots
	}
	if d.AvailableTimes == nil {
		times = nil
	}

	dates := make([]string, 0, len(d.UnavailableDates))
	for _, t := range d.UnavailableDates {
		dates = append(dates, t.UTC().Format(dateLayout))
	}

	return DoctorResponse{
		ID:               d.ID,
		Name:             d.Name,
		Specialization:   d.Specialization,
		Avatar:           d.Avatar,
		Email:            d.Email,
		Phone:            d.Phone,
		Experience:       d.Experience,
		Bio:              d.Bio,
		Address:          d.Address,
		ImageURL:         d.ImageURL,
		AvailableTimes:   times,
		UnavailableDates: dates,
	}
}

func toAppointmentResponse(a *appointment.Appointment, names appointment.DoctorNames) AppointmentResponse {
	resp := AppointmentResponse{
		ID:            a.ID,
		DoctorID:      a.DoctorID,
		DoctorName:    names.Resolve(a.DoctorID),
		PatientName:   a.PatientName,
		PhoneNumber:   a.PhoneNumber,
		Reason:        a.Reason,
		Date:          a.Date.UTC().Format(dateLayout),
		Time:          a.Slot,
		Status:        string(a.Status),
		PaymentStatus: string(a.PaymentStatus),
		PaymentAmount: a.PaymentAmount,
		PaymentDate:   a.PaymentDate,
	}
	if resp.PaymentStatus == "" {
		resp.PaymentStatus = string(appointment.PaymentUnpaid)
	}
	if a.PaymentMethod != nil {
		m := string(*a.PaymentMethod)
		resp.PaymentMethod = &m
	}
	return resp
}

func parseSchedule(in map[string][]string) (map[doctor.Weekday][]string, error) {
	if in == nil {
		return nil, nil
	}
	out := make(map[doctor.Weekday][]string, len(in))
	for day, slots := range in {
		w := doctor.Weekday(day)
		if !doctor.ValidWeekday(w) {
			return nil, fmt.Errorf("unknown weekday %q", day)
		}
		out[w] = slots
	}
	return out, nil
}

func parseDates(in []string) ([]time.Time, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]time.Time, 0, len(in))
	for _, s := range in {
		t, err := time.ParseInLocation(dateLayout, s, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", s)
		}
		out = append(out, t)
	}
	return out, nil
}
