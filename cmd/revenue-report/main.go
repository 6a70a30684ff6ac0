// Command revenue-report prints a revenue summary for the clinic and can
// export the paid appointment history as CSV. It is meant for one-shot use
// from cron or an operator shell.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/appointment"
	"github.com/clinicdesk/clinicdesk/internal/daterange"
	"github.com/clinicdesk/clinicdesk/internal/db"
	"github.com/clinicdesk/clinicdesk/internal/doctor"
)

func main() {
	log.SetFlags(0)

	var (
		rangeKey = flag.String("range", "all", "date range: all, today, tomorrow, this-week, this-month, last-3-months, this-year")
		csvPath  = flag.String("csv", "", "also write the paid appointment history as CSV to this path (- for stdout)")
	)
	flag.Parse()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	now := time.Now().UTC()
	if _, ok := daterange.Resolve(daterange.Key(*rangeKey), now); !ok && *rangeKey != string(daterange.All) {
		log.Fatalf("unknown range %q", *rangeKey)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	doctors, err := doctor.NewPgRepository(pool).List(ctx)
	if err != nil {
		log.Fatalf("list doctors: %v", err)
	}
	apps, err := appointment.NewPgRepository(pool).List(ctx)
	if err != nil {
		log.Fatalf("list appointments: %v", err)
	}

	names := appointment.NamesFor(doctors)
	paid := appointment.ApplyFilter(apps, names, appointment.Filter{
		Status:    appointment.StatusCompleted,
		DateRange: daterange.Key(*rangeKey),
		DateField: appointment.ByPaymentDate,
	}, now)

	summary := appointment.Summarize(paid, now)
	printSummary(summary, names, *rangeKey)

	if *csvPath != "" {
		if err := writeCSV(*csvPath, paid, names); err != nil {
			log.Fatalf("write csv: %v", err)
		}
	}
}

func printSummary(s appointment.Summary, names appointment.DoctorNames, rangeKey string) {
	fmt.Printf("Revenue summary (%s)\n", rangeKey)
	fmt.Printf("  total:      %10.2f\n", s.Total)
	fmt.Printf("  this week:  %10.2f\n", s.Weekly)
	fmt.Printf("  this month: %10.2f\n", s.Monthly)
	fmt.Printf("  this year:  %10.2f\n", s.Yearly)

	type row struct {
		name   string
		amount float64
	}
	rows := make([]row, 0, len(s.ByDoctor))
	for id, amount := range s.ByDoctor {
		rows = append(rows, row{names.Resolve(id), amount})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].amount != rows[j].amount {
			return rows[i].amount > rows[j].amount
		}
		return rows[i].name < rows[j].name
	})

	fmt.Println("\nBy doctor:")
	for _, r := range rows {
		fmt.Printf("  %-30s %10.2f  (%5.1f%%)\n", r.name, r.amount, appointment.Share(r.amount, s.Total))
	}

	months := make([]string, 0, len(s.ByMonth))
	for m := range s.ByMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		ti, _ := time.Parse("Jan 2006", months[i])
		tj, _ := time.Parse("Jan 2006", months[j])
		return ti.Before(tj)
	})

	fmt.Println("\nBy month:")
	for _, m := range months {
		fmt.Printf("  %-10s %10.2f\n", m, s.ByMonth[m])
	}
}

func writeCSV(path string, apps []appointment.Appointment, names appointment.DoctorNames) error {
	if path == "-" {
		return appointment.WriteCSV(os.Stdout, apps, names)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := appointment.WriteCSV(f, apps, names); err != nil {
		return err
	}
	return f.Close()
}
