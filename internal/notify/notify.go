// Package notify tells the host about new RSVPs by e-mail.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Notifier interface {
	GuestResponded(ctx context.Context, guest *database.Guest) error
}

// Nop is used when no mail provider is configured.
type Nop struct{}

func (Nop) GuestResponded(context.Context, *database.Guest) error { return nil }

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGrid struct {
	client sender
	from   *mail.Email
	to     *mail.Email
	host   string
	log    zerolog.Logger
}

// New returns a SendGrid notifier, or Nop when either apiKey or recipient
// is empty.
func New(apiKey, recipient, host string, log zerolog.Logger) Notifier {
	if apiKey == "" || recipient == "" {
		return Nop{}
	}
	return newSendGrid(sendgrid.NewSendClient(apiKey), recipient, host, log)
}

func newSendGrid(client sender, recipient, host string, log zerolog.Logger) *SendGrid {
	return &SendGrid{
		client: client,
		from:   mail.NewEmail("Hawkins RSVP", recipient),
		to:     mail.NewEmail(host, recipient),
		host:   host,
		log:    log.With().Str("component", "notify").Logger(),
	}
}

func (s *SendGrid) GuestResponded(ctx context.Context, guest *database.Guest) error {
	subject := fmt.Sprintf("RSVP: %s (%s)", guest.Name, guest.Status)
	body := Summary(guest)

	m := mail.NewSingleEmail(s.from, subject, s.to, body, "")
	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("failed to send rsvp notification: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send rsvp notification: status %d", resp.StatusCode)
	}

	s.log.Debug().Str("guest_id", guest.ID).Int("status", resp.StatusCode).Msg("rsvp notification sent")
	return nil
}

// Summary renders a guest as the plain-text mail body.
func Summary(guest *database.Guest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nome: %s\n", guest.Name)
	fmt.Fprintf(&b, "Presença: %s\n", guest.Status)
	fmt.Fprintf(&b, "Pessoas: %d\n", guest.Headcount())
	if guest.Phone != nil {
		fmt.Fprintf(&b, "Telefone: %s\n", *guest.Phone)
	}
	if guest.CompanionName != nil {
		fmt.Fprintf(&b, "Acompanhante: %s\n", *guest.CompanionName)
	}
	if guest.Message != nil {
		fmt.Fprintf(&b, "Mensagem: %s\n", *guest.Message)
	}
	return b.String()
}
