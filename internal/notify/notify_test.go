package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	resp, _ := args.Get(0).(*rest.Response)
	return resp, args.Error(1)
}

func guest() *database.Guest {
	companion := "Robin"
	return &database.Guest{
		ID:            "g-1",
		Name:          "Steve Harrington",
		Status:        database.StatusYes,
		AdditionalQty: 1,
		CompanionName: &companion,
		CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNew_NopWhenUnconfigured(t *testing.T) {
	assert.IsType(t, Nop{}, New("", "host@example.com", "Brenda", zerolog.Nop()))
	assert.IsType(t, Nop{}, New("key", "", "Brenda", zerolog.Nop()))
	assert.IsType(t, &SendGrid{}, New("key", "host@example.com", "Brenda", zerolog.Nop()))

	assert.NoError(t, Nop{}.GuestResponded(context.Background(), guest()))
}

func TestSendGrid_GuestResponded(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendWithContext", mock.Anything, mock.MatchedBy(func(m *mail.SGMailV3) bool {
		return m.Subject == "RSVP: Steve Harrington (YES)"
	})).Return(&rest.Response{StatusCode: 202}, nil)

	n := newSendGrid(sender, "host@example.com", "Brenda", zerolog.Nop())
	require.NoError(t, n.GuestResponded(context.Background(), guest()))
	sender.AssertExpectations(t)
}

func TestSendGrid_Failures(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendWithContext", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: timeout")).Once()
	sender.On("SendWithContext", mock.Anything, mock.Anything).Return(&rest.Response{StatusCode: 401}, nil).Once()

	n := newSendGrid(sender, "host@example.com", "Brenda", zerolog.Nop())
	assert.ErrorContains(t, n.GuestResponded(context.Background(), guest()), "timeout")
	assert.ErrorContains(t, n.GuestResponded(context.Background(), guest()), "status 401")
}

func TestSummary(t *testing.T) {
	body := Summary(guest())

	assert.Contains(t, body, "Nome: Steve Harrington\n")
	assert.Contains(t, body, "Pessoas: 2\n")
	assert.Contains(t, body, "Acompanhante: Robin\n")
	assert.NotContains(t, body, "Telefone")
	assert.NotContains(t, body, "Mensagem")
}
