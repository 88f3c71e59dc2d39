package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlexTLDR/hawkins/internal/config"
	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/internal/notify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AdminUser:     "hopper",
		AdminPassword: "eggos",
		SessionSecret: "test-secret-test-secret-test-secret",
		RSVPVariant:   config.VariantQuantity,
		PhoneRegion:   "BR",
		RSVPRateLimit: 100,
		IntroVariant:  config.IntroConfirm,
		IntroVideo:    "/static/intro.mp4",
		Event:         config.DefaultEvent(),
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	db, err := database.New("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	s, err := New(cfg, db, notify.Nop{}, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestNew_InvalidVariant(t *testing.T) {
	cfg := testConfig()
	cfg.RSVPVariant = "Z"

	_, err := New(cfg, nil, notify.Nop{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestAdminRoutes_RequireCredentials(t *testing.T) {
	s := newTestServer(t, testConfig())

	for _, path := range []string{"/api/guests", "/admin", "/admin/print", "/admin/guests.csv", "/admin/anything"} {
		t.Run(path, func(t *testing.T) {
			rec := do(s, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, `Basic realm="Admin"`, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestAdminRoutes_WrongCredentials(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name     string
		user     string
		password string
	}{
		{name: "wrong password", user: "hopper", password: "waffles"},
		{name: "wrong user", user: "joyce", password: "eggos"},
		{name: "empty", user: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/guests", nil)
			req.SetBasicAuth(tt.user, tt.password)
			assert.Equal(t, http.StatusUnauthorized, do(s, req).Code)
		})
	}
}

func TestAdminRoutes_DeniedWhenUnconfigured(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPassword = ""
	s := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth("hopper", "")
	rec := do(s, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="Admin"`, rec.Header().Get("WWW-Authenticate"))
}

func TestAdminRoutes_PasswordWithColon(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPassword = "upside:down"
	s := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth("hopper", "upside:down")
	assert.Equal(t, http.StatusOK, do(s, req).Code)
}

func TestSubmitThenList(t *testing.T) {
	s := newTestServer(t, testConfig())

	for _, body := range []string{
		`{"name":"Ana Silva","status":"YES","additionalQty":2,"message":""}`,
		`{"name":"Jim Hopper","phone":"(11) 98765-4321","status":"MAYBE","additionalQty":"1"}`,
	} {
		rec := do(s, httptest.NewRequest(http.MethodPost, "/api/rsvp", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/guests", nil)
	req.SetBasicAuth("hopper", "eggos")
	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK     bool             `json:"ok"`
		Guests []database.Guest `json:"guests"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Guests, 2)
	assert.Equal(t, "Jim Hopper", resp.Guests[0].Name)
	require.NotNil(t, resp.Guests[0].Phone)
	assert.Equal(t, "+5511987654321", *resp.Guests[0].Phone)
	assert.Equal(t, "Ana Silva", resp.Guests[1].Name)
	assert.Nil(t, resp.Guests[1].Message)
}

func TestSubmit_InvalidIsNotStored(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(s, httptest.NewRequest(http.MethodPost, "/api/rsvp", strings.NewReader(`{"name":"A"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/guests", nil)
	req.SetBasicAuth("hopper", "eggos")
	assert.JSONEq(t, `{"ok":true,"guests":[]}`, do(s, req).Body.String())
}

func TestSubmit_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RSVPRateLimit = 0.001
	s := newTestServer(t, cfg)

	var limited bool
	for i := 0; i < rsvpBurst+2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/rsvp", strings.NewReader(`{}`))
		if do(s, req).Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, testConfig())

	assert.Equal(t, http.StatusMethodNotAllowed, do(s, httptest.NewRequest(http.MethodGet, "/api/rsvp", nil)).Code)
}

func TestIntroSeen_SkipsAutoplayIntro(t *testing.T) {
	cfg := testConfig()
	cfg.IntroVariant = config.IntroAutoplay
	s := newTestServer(t, cfg)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="intro"`)

	rec = do(s, httptest.NewRequest(http.MethodPost, "/intro/seen", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = do(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `id="intro"`)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
