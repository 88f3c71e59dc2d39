package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlexTLDR/hawkins/internal/config"
	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/internal/intro"
	"github.com/AlexTLDR/hawkins/internal/notify"
	"github.com/AlexTLDR/hawkins/internal/rsvp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateGuest(ctx context.Context, in database.NewGuest) (*database.Guest, error) {
	args := m.Called(ctx, in)
	g, _ := args.Get(0).(*database.Guest)
	return g, args.Error(1)
}

func (m *mockStore) ListGuests(ctx context.Context) ([]*database.Guest, error) {
	args := m.Called(ctx)
	g, _ := args.Get(0).([]*database.Guest)
	return g, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) GuestResponded(ctx context.Context, guest *database.Guest) error {
	return m.Called(ctx, guest).Error(0)
}

type memorySession map[string]string

func (s memorySession) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

func (s memorySession) Set(key, value string) error {
	s[key] = value
	return nil
}

type testServer struct {
	store     *mockStore
	notifier  notify.Notifier
	cfg       *config.Config
	validator *rsvp.Validator
	session   memorySession
	now       time.Time
}

func newTestServer(variant rsvp.Variant) *testServer {
	return &testServer{
		store:    &mockStore{},
		notifier: notify.Nop{},
		cfg: &config.Config{
			RSVPVariant:  string(variant),
			IntroVariant: config.IntroConfirm,
			IntroVideo:   "/static/intro.mp4",
			Event:        config.DefaultEvent(),
		},
		validator: rsvp.NewValidator(variant, "BR"),
		session:   memorySession{},
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *testServer) GetStore() GuestStore { return s.store }
func (s *testServer) GetConfig() *config.Config { return s.cfg }
func (s *testServer) GetValidator() *rsvp.Validator { return s.validator }
func (s *testServer) GetNotifier() notify.Notifier { return s.notifier }
func (s *testServer) GetLogger() zerolog.Logger { return zerolog.Nop() }
func (s *testServer) Now() time.Time { return s.now }
func (s *testServer) IntroSession(http.ResponseWriter, *http.Request) intro.SessionStore {
	return s.session
}

func postRSVP(t *testing.T, s Server, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/rsvp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	HandleRSVPSubmit(s)(rec, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandleRSVPSubmit_Created(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	created := &database.Guest{
		ID:        "6f1c2b7e-0000-4000-8000-000000000001",
		Name:      "Ana Silva",
		Status:    database.StatusYes,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	s.store.On("CreateGuest", mock.Anything, database.NewGuest{
		Name:          "Ana Silva",
		Status:        database.StatusYes,
		AdditionalQty: 2,
	}).Return(created, nil)

	rec, resp := postRSVP(t, s, `{"name":"Ana Silva","status":"YES","additionalQty":2,"message":""}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, resp["ok"])
	guest := resp["guest"].(map[string]any)
	assert.Equal(t, created.ID, guest["id"])
	assert.Equal(t, "2026-03-01T12:00:00Z", guest["createdAt"])
	s.store.AssertExpectations(t)
}

func TestHandleRSVPSubmit_ValidationError(t *testing.T) {
	s := newTestServer(rsvp.Quantity)

	rec, resp := postRSVP(t, s, `{"name":"A"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, "Dados inválidos", resp["error"])
	issues := resp["issues"].(map[string]any)
	fields := issues["fieldErrors"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "additionalQty")
	s.store.AssertNotCalled(t, "CreateGuest", mock.Anything, mock.Anything)
}

func TestHandleRSVPSubmit_InvalidJSON(t *testing.T) {
	s := newTestServer(rsvp.Quantity)

	rec, resp := postRSVP(t, s, `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	issues := resp["issues"].(map[string]any)
	assert.NotEmpty(t, issues["formErrors"])
}

func TestHandleRSVPSubmit_StoreFailure(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	s.store.On("CreateGuest", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	rec, resp := postRSVP(t, s, `{"name":"Ana Silva","status":"YES","additionalQty":0}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, "Erro ao salvar RSVP", resp["error"])
	assert.NotContains(t, resp, "issues")
}

func TestHandleRSVPSubmit_DeadlinePassed(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	s.cfg.RSVPDeadline = s.now.Add(-time.Minute)

	rec, resp := postRSVP(t, s, `{"name":"Ana Silva","status":"YES","additionalQty":0}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, resp["ok"])
	s.store.AssertNotCalled(t, "CreateGuest", mock.Anything, mock.Anything)
}

func TestHandleRSVPSubmit_NotificationFailureStillCreated(t *testing.T) {
	s := newTestServer(rsvp.Companion)
	guest := &database.Guest{ID: "g-1", Name: "Steve", Status: database.StatusYes, AdditionalQty: 1}
	s.store.On("CreateGuest", mock.Anything, mock.Anything).Return(guest, nil)
	n := &mockNotifier{}
	n.On("GuestResponded", mock.Anything, guest).Return(errors.New("sendgrid down"))
	s.notifier = n

	rec, _ := postRSVP(t, s, `{"name":"Steve","status":"YES","bringCompanion":true,"companionName":"Robin"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	n.AssertExpectations(t)
}

func TestHandleListGuests(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	newer := &database.Guest{ID: "2", Name: "Newer", Status: database.StatusYes, CreatedAt: s.now}
	older := &database.Guest{ID: "1", Name: "Older", Status: database.StatusNo, CreatedAt: s.now.Add(-time.Hour)}
	s.store.On("ListGuests", mock.Anything).Return([]*database.Guest{newer, older}, nil)

	rec := httptest.NewRecorder()
	HandleListGuests(s)(rec, httptest.NewRequest(http.MethodGet, "/api/guests", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		OK     bool             `json:"ok"`
		Guests []database.Guest `json:"guests"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	require.Len(t, resp.Guests, 2)
	assert.Equal(t, "Newer", resp.Guests[0].Name)
	assert.Nil(t, resp.Guests[0].Message)
}

func TestHandleListGuests_EmptyIsArray(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	s.store.On("ListGuests", mock.Anything).Return(nil, nil)

	rec := httptest.NewRecorder()
	HandleListGuests(s)(rec, httptest.NewRequest(http.MethodGet, "/api/guests", nil))

	assert.JSONEq(t, `{"ok":true,"guests":[]}`, rec.Body.String())
}

func TestHandleAdminDashboard(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	s.store.On("ListGuests", mock.Anything).Return([]*database.Guest{
		{ID: "1", Name: "Ana Silva", Status: database.StatusYes, AdditionalQty: 2},
		{ID: "2", Name: "Bob", Status: database.StatusMaybe},
	}, nil)

	rec := httptest.NewRecorder()
	HandleAdminDashboard(s)(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana Silva")
	assert.Contains(t, rec.Body.String(), `<p class="count">4</p>`)
}

func TestHandleAdminDashboard_StoreFailure(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	s.store.On("ListGuests", mock.Anything).Return(nil, errors.New("boom"))

	rec := httptest.NewRecorder()
	HandleAdminDashboard(s)(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleAdminPrint(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	s.store.On("ListGuests", mock.Anything).Return([]*database.Guest{}, nil)

	rec := httptest.NewRecorder()
	HandleAdminPrint(s)(rec, httptest.NewRequest(http.MethodGet, "/admin/print", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<script src="/static/print.js" defer></script>`)
}

func TestHandleAdminDownloadCSV(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	msg := "Levo \"pipoca\"\ne refri"
	s.store.On("ListGuests", mock.Anything).Return([]*database.Guest{
		{ID: "1", Name: "Ana Silva", Status: database.StatusYes, AdditionalQty: 2, Message: &msg, CreatedAt: s.now},
	}, nil)

	rec := httptest.NewRecorder()
	HandleAdminDownloadCSV(s)(rec, httptest.NewRequest(http.MethodGet, "/admin/guests.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Nome,Presença,Acompanhantes,Acompanhante,WhatsApp,Recado,Criado", lines[0])
	assert.Equal(t, `Ana Silva,Confirmado,2,,,"Levo ""pipoca"" e refri",2026-03-01 12:00:00`, lines[1])
}

func TestHandleAdminDownloadCSV_NeutralisesFormulas(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	formula := "=HYPERLINK(\"http://x\")"
	phone := "+5511987654321"
	companion := "@SUM(A1)"
	s.store.On("ListGuests", mock.Anything).Return([]*database.Guest{
		{ID: "1", Name: "-2+3", Status: database.StatusNo, Phone: &phone, CompanionName: &companion, Message: &formula, CreatedAt: s.now},
	}, nil)

	rec := httptest.NewRecorder()
	HandleAdminDownloadCSV(s)(rec, httptest.NewRequest(http.MethodGet, "/admin/guests.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(rec.Body.String(), "\xEF\xBB\xBF"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "'-2+3", records[1][0])
	assert.Equal(t, "'@SUM(A1)", records[1][3])
	assert.Equal(t, "'+5511987654321", records[1][4])
	assert.Equal(t, `'=HYPERLINK("http://x")`, records[1][5])
}

func TestCSVCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Ana Silva", want: "Ana Silva"},
		{in: "", want: ""},
		{in: "=1+1", want: "'=1+1"},
		{in: "\tx", want: "'\tx"},
		{in: "a\r\nb\nc", want: "a b c"},
		{in: "Oi - tudo bem?", want: "Oi - tudo bem?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, csvCell(tt.in), "input %q", tt.in)
	}
}

func TestHandleHome_IntroOverlay(t *testing.T) {
	s := newTestServer(rsvp.Quantity)

	rec := httptest.NewRecorder()
	HandleHome(s)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-phase="confirm"`)
}

func TestHandleHome_AutoplayAlreadyPlayed(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	s.cfg.IntroVariant = config.IntroAutoplay
	s.session[intro.SeenKey] = "1"

	rec := httptest.NewRecorder()
	HandleHome(s)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `id="intro"`)
}

func TestHandleHome_AutoplayFirstVisit(t *testing.T) {
	s := newTestServer(rsvp.Quantity)
	s.cfg.IntroVariant = config.IntroAutoplay

	rec := httptest.NewRecorder()
	HandleHome(s)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rec.Body.String(), `data-phase="playing"`)
}

func TestHandleIntroSeen(t *testing.T) {
	s := newTestServer(rsvp.Quantity)

	rec := httptest.NewRecorder()
	HandleIntroSeen(s)(rec, httptest.NewRequest(http.MethodPost, "/intro/seen", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, intro.AlreadyPlayed(s.session))
}

func TestHandleThanks(t *testing.T) {
	s := newTestServer(rsvp.Quantity)

	rec := httptest.NewRecorder()
	HandleThanks(s)(rec, httptest.NewRequest(http.MethodGet, "/thanks?id=abc-123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "abc-123")
}

func TestHandleParticles(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleParticles(rec, httptest.NewRequest(http.MethodGet, "/api/particles?w=1440&h=900", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var field struct {
		Particles []map[string]any `json:"particles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &field))
	assert.Len(t, field.Particles, 72)
}

func TestHandleParticles_ReducedMotion(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleParticles(rec, httptest.NewRequest(http.MethodGet, "/api/particles?w=1440&h=900&reduced=1", nil))

	var field struct {
		Particles []map[string]any `json:"particles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &field))
	assert.NotNil(t, field.Particles)
	assert.Empty(t, field.Particles)
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
