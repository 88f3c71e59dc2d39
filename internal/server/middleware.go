package server

import (
	"net/http"
	"time"

	"github.com/AlexTLDR/hawkins/internal/i18n"
	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if r.URL.Path == "/health" {
			return
		}
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// rsvpBurst lets a guest retry a rejected form a few times in quick succession.
const rsvpBurst = 3

// rateLimit limits each client IP to RSVPRateLimit requests per second.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(s.config.RSVPRateLimit, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetBurst(rsvpBurst)
	lmt.SetMessageContentType("application/json; charset=utf-8")
	lmt.SetMessage(`{"ok":false,"error":"` + i18n.T(i18n.Portuguese, i18n.TooManyRequests) + `"}`)
	lmt.SetOnLimitReached(func(w http.ResponseWriter, r *http.Request) {
		s.log.Warn().Str("remote_addr", r.RemoteAddr).Msg("rsvp rate limit reached")
	})

	return tollbooth.LimitHandler(lmt, next)
}
