package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/AlexTLDR/hawkins/internal/config"
	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/internal/i18n"
	"github.com/AlexTLDR/hawkins/internal/intro"
	"github.com/AlexTLDR/hawkins/internal/notify"
	"github.com/AlexTLDR/hawkins/internal/particles"
	"github.com/AlexTLDR/hawkins/internal/rsvp"
	"github.com/AlexTLDR/hawkins/templates"
	"github.com/rs/zerolog"
)

// GuestStore is the part of the database the handlers use.
type GuestStore interface {
	CreateGuest(ctx context.Context, in database.NewGuest) (*database.Guest, error)
	ListGuests(ctx context.Context) ([]*database.Guest, error)
}

// Server interface defines the methods needed by handlers
type Server interface {
	GetStore() GuestStore
	GetConfig() *config.Config
	GetValidator() *rsvp.Validator
	GetNotifier() notify.Notifier
	GetLogger() zerolog.Logger
	// IntroSession returns the visitor's session store for the intro marker.
	IntroSession(w http.ResponseWriter, r *http.Request) intro.SessionStore
	Now() time.Time
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HandleHome renders the landing page
func HandleHome(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := s.GetConfig()
		lang := i18n.GetLanguageFromRequest(r)
		variant := intro.Variant(cfg.IntroVariant)
		phase := intro.InitialPhase(variant, intro.AlreadyPlayed(s.IntroSession(w, r)))

		data := templates.HomeData{
			Lang:     string(lang),
			Event:    cfg.Event,
			Variant:  string(s.GetValidator().Variant()),
			Statuses: templates.StatusOptions(s.GetValidator().Variant().Statuses()),
			Intro: templates.IntroData{
				Variant:     variant,
				Phase:       phase,
				Video:       cfg.IntroVideo,
				ExitDelayMS: intro.ExitDelay.Milliseconds(),
				Messages:    intro.Messages(lang),
			},
			DeadlinePassed:  cfg.DeadlinePassed(s.Now()),
			DeadlineMessage: i18n.T(lang, i18n.DeadlinePassed),
			Particles:       1,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.Home(data).Render(r.Context(), w); err != nil {
			log := s.GetLogger()
			log.Error().Err(err).Msg("failed to render home page")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// HandleThanks renders the confirmation page shown after an RSVP
func HandleThanks(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := templates.ThanksData{
			Lang: string(i18n.GetLanguageFromRequest(r)),
			Host: s.GetConfig().Event.Host,
			ID:   r.URL.Query().Get("id"),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.Thanks(data).Render(r.Context(), w); err != nil {
			log := s.GetLogger()
			log.Error().Err(err).Msg("failed to render thanks page")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// HandleIntroSeen records that the visitor finished the intro so the
// autoplay variant skips it for the rest of the session.
func HandleIntroSeen(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.IntroSession(w, r).Set(intro.SeenKey, "1"); err != nil {
			log := s.GetLogger()
			log.Warn().Err(err).Msg("failed to save intro session marker")
			http.Error(w, "Failed to save session", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
	maxViewport           = 8192
	maxIntensity          = 4
)

func floatParam(r *http.Request, key string, def, lo, hi float64) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || math.IsNaN(v) {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HandleParticles returns a freshly seeded particle field for the canvas.
func HandleParticles(w http.ResponseWriter, r *http.Request) {
	width := floatParam(r, "w", defaultViewportWidth, 1, maxViewport)
	height := floatParam(r, "h", defaultViewportHeight, 1, maxViewport)
	intensity := floatParam(r, "intensity", 1, 0, maxIntensity)

	var field *particles.Field
	switch r.URL.Query().Get("reduced") {
	case "1", "true":
		field = particles.Empty(width, height)
	default:
		field = particles.NewField(width, height, intensity, nil)
	}

	writeJSON(w, http.StatusOK, field)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
