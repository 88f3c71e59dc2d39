package handlers

import (
	"net/http"

	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/internal/i18n"
	"github.com/AlexTLDR/hawkins/templates"
)

type guestsResponse struct {
	OK     bool              `json:"ok"`
	Guests []*database.Guest `json:"guests"`
}

// loadRoster lists guests newest first. On failure it writes the error
// response and returns false.
func loadRoster(s Server, w http.ResponseWriter, r *http.Request) ([]*database.Guest, bool) {
	guests, err := s.GetStore().ListGuests(r.Context())
	if err != nil {
		log := s.GetLogger()
		log.Error().Err(err).Msg("failed to list guests")
		http.Error(w, "Failed to load guests", http.StatusInternalServerError)
		return nil, false
	}
	if guests == nil {
		guests = []*database.Guest{}
	}
	return guests, true
}

// HandleListGuests returns every RSVP as JSON
func HandleListGuests(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guests, err := s.GetStore().ListGuests(r.Context())
		if err != nil {
			log := s.GetLogger()
			log.Error().Err(err).Msg("failed to list guests")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: i18n.T(i18n.GetLanguageFromRequest(r), i18n.LoadFailed)})
			return
		}
		if guests == nil {
			guests = []*database.Guest{}
		}
		writeJSON(w, http.StatusOK, guestsResponse{OK: true, Guests: guests})
	}
}

func adminData(s Server, guests []*database.Guest) templates.AdminData {
	return templates.AdminData{
		Lang:    string(i18n.Portuguese),
		Host:    s.GetConfig().Event.Host,
		Guests:  guests,
		Summary: database.Summarize(guests),
	}
}

// HandleAdminDashboard renders the roster with its summary
func HandleAdminDashboard(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guests, ok := loadRoster(s, w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.Admin(adminData(s, guests)).Render(r.Context(), w); err != nil {
			log := s.GetLogger()
			log.Error().Err(err).Msg("failed to render admin page")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// HandleAdminPrint renders the print-friendly roster, which opens the
// print dialog on load
func HandleAdminPrint(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guests, ok := loadRoster(s, w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.AdminPrint(adminData(s, guests)).Render(r.Context(), w); err != nil {
			log := s.GetLogger()
			log.Error().Err(err).Msg("failed to render print page")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}
