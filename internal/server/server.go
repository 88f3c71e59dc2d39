package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AlexTLDR/hawkins/internal/config"
	"github.com/AlexTLDR/hawkins/internal/intro"
	"github.com/AlexTLDR/hawkins/internal/notify"
	"github.com/AlexTLDR/hawkins/internal/rsvp"
	"github.com/AlexTLDR/hawkins/internal/server/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config       *config.Config
	store        handlers.GuestStore
	validator    *rsvp.Validator
	notifier     notify.Notifier
	sessionStore sessions.Store
	router       *mux.Router
	log          zerolog.Logger
	now          func() time.Time
	staticDir    string
}

// GetStore implements handlers.Server interface
func (s *Server) GetStore() handlers.GuestStore {
	return s.store
}

// GetConfig implements handlers.Server interface
func (s *Server) GetConfig() *config.Config {
	return s.config
}

func (s *Server) GetValidator() *rsvp.Validator {
	return s.validator
}

func (s *Server) GetNotifier() notify.Notifier {
	return s.notifier
}

func (s *Server) GetLogger() zerolog.Logger {
	return s.log
}

func (s *Server) IntroSession(w http.ResponseWriter, r *http.Request) intro.SessionStore {
	return &cookieSession{store: s.sessionStore, w: w, r: r}
}

func (s *Server) Now() time.Time {
	return s.now()
}

func New(cfg *config.Config, store handlers.GuestStore, notifier notify.Notifier, log zerolog.Logger) (*Server, error) {
	variant, err := rsvp.ParseVariant(cfg.RSVPVariant)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	cookies := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		config:       cfg,
		store:        store,
		validator:    rsvp.NewValidator(variant, cfg.PhoneRegion),
		notifier:     notifier,
		sessionStore: cookies,
		router:       mux.NewRouter(),
		log:          log.With().Str("component", "server").Logger(),
		now:          time.Now,
		staticDir:    "./static",
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	// Static files
	fs := http.FileServer(http.Dir(s.staticDir))
	s.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs)).Methods(http.MethodGet, http.MethodHead)

	// Public routes
	s.router.HandleFunc("/", handlers.HandleHome(s)).Methods(http.MethodGet)
	s.router.HandleFunc("/thanks", handlers.HandleThanks(s)).Methods(http.MethodGet)
	s.router.Handle("/api/rsvp", s.rateLimit(handlers.HandleRSVPSubmit(s))).Methods(http.MethodPost)
	s.router.HandleFunc("/intro/seen", handlers.HandleIntroSeen(s)).Methods(http.MethodPost)
	s.router.HandleFunc("/api/particles", handlers.HandleParticles).Methods(http.MethodGet)
	s.router.HandleFunc("/health", handlers.HandleHealth).Methods(http.MethodGet)

	// Admin routes (protected)
	s.router.HandleFunc("/api/guests", s.requireAuth(handlers.HandleListGuests(s))).Methods(http.MethodGet)
	s.router.HandleFunc("/admin", s.requireAuth(handlers.HandleAdminDashboard(s))).Methods(http.MethodGet)
	s.router.HandleFunc("/admin/print", s.requireAuth(handlers.HandleAdminPrint(s))).Methods(http.MethodGet)
	s.router.HandleFunc("/admin/guests.csv", s.requireAuth(handlers.HandleAdminDownloadCSV(s))).Methods(http.MethodGet)

	// Unknown paths under the protected prefixes still ask for credentials
	s.router.PathPrefix("/admin/").HandlerFunc(s.requireAuth(http.NotFound))
	s.router.PathPrefix("/api/guests/").HandlerFunc(s.requireAuth(http.NotFound))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
