package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/AlexTLDR/hawkins/internal/config"
	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/internal/utils"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type guestLister interface {
	ListGuests(ctx context.Context) ([]*database.Guest, error)
}

type phoneFinding struct {
	GuestID    string
	Name       string
	Stored     string
	Normalized string
	Err        error
}

type phoneReport struct {
	WithPhone   int
	Normalized  int
	Pending     []phoneFinding
	Unparseable []phoneFinding
}

// auditPhones lists stored phones that are not in E.164 form and what they
// would normalise to. Guests are read only.
func auditPhones(ctx context.Context, store guestLister, region string) (*phoneReport, error) {
	guests, err := store.ListGuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}

	report := &phoneReport{}
	for _, g := range guests {
		if g.Phone == nil {
			continue
		}
		report.WithPhone++

		finding := phoneFinding{GuestID: g.ID, Name: g.Name, Stored: *g.Phone}
		normalized, err := utils.NormalizePhoneNumber(*g.Phone, region)
		switch {
		case err != nil:
			finding.Err = err
			report.Unparseable = append(report.Unparseable, finding)
		case normalized != *g.Phone:
			finding.Normalized = normalized
			report.Pending = append(report.Pending, finding)
		default:
			report.Normalized++
		}
	}
	return report, nil
}

func (r *phoneReport) print(w io.Writer) {
	for _, f := range r.Pending {
		fmt.Fprintf(w, "%s (%s): %q -> %q\n", f.Name, f.GuestID, f.Stored, f.Normalized)
	}
	for _, f := range r.Unparseable {
		fmt.Fprintf(w, "%s (%s): %q cannot be parsed: %v\n", f.Name, f.GuestID, f.Stored, f.Err)
	}

	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "  With phone: %d\n", r.WithPhone)
	fmt.Fprintf(w, "  Already E.164: %d\n", r.Normalized)
	fmt.Fprintf(w, "  Would normalise: %d\n", len(r.Pending))
	fmt.Fprintf(w, "  Unparseable: %d\n", len(r.Unparseable))
}

// Reports stored phone numbers that differ from their E.164 form under
// PHONE_REGION. Nothing is written back.
func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	report, err := auditPhones(context.Background(), db, cfg.PhoneRegion)
	if err != nil {
		log.Fatal().Err(err).Msg("phone audit failed")
	}
	report.print(os.Stdout)
}
