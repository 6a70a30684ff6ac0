package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the seven valid schedule keys in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf maps a calendar date to its schedule key (UTC).
func WeekdayOf(t time.Time) Weekday {
	return Weekday(strings.ToLower(t.UTC().Weekday().String()))
}

func ValidWeekday(w Weekday) bool {
	for _, d := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

type Doctor struct {
	ID             uuid.UUID
	Name           string
	Specialization string
	Avatar         string
	Email          string
	Phone          string
	Experience     int
	Bio            string
	Address        string
	ImageURL       *string

	// AvailableTimes maps a weekday to the ordered slot labels the doctor
	// normally accepts. A missing or empty day means not scheduled that
	// weekday. A nil map means no explicit schedule at all, in which case
	// the system-wide default slots apply.
	AvailableTimes map[Weekday][]string

	// UnavailableDates are specific days the doctor cannot be booked,
	// overriding the weekday schedule. Day granularity.
	UnavailableDates []time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Update carries a partial doctor record. Nil fields are preserved on merge.
type Update struct {
	Name             *string
	Specialization   *string
	Email            *string
	Phone            *string
	Experience       *int
	Bio              *string
	Address          *string
	ImageURL         *string
	AvailableTimes   map[Weekday][]string
	UnavailableDates []time.Time
}

// Apply merges the update over d, leaving absent fields untouched.
func (u Update) Apply(d *Doctor) {
	if u.Name != nil {
		d.Name = *u.Name
		d.Avatar = Initials(*u.Name)
	}
	if u.Specialization != nil {
		d.Specialization = *u.Specialization
	}
	if u.Email != nil {
		d.Email = *u.Email
	}
	if u.Phone != nil {
		d.Phone = *u.Phone
	}
	if u.Experience != nil {
		d.Experience = *u.Experience
	}
	if u.Bio != nil {
		d.Bio = *u.Bio
	}
	if u.Address != nil {
		d.Address = *u.Address
	}
	if u.ImageURL != nil {
		d.ImageURL = u.ImageURL
	}
	if u.AvailableTimes != nil {
		d.AvailableTimes = u.AvailableTimes
	}
	if u.UnavailableDates != nil {
		d.UnavailableDates = u.UnavailableDates
	}
}

// Initials derives the avatar string from a name, one letter per word.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		b.WriteRune(r[0])
	}
	return b.String()
}
