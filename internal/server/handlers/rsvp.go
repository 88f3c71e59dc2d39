package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/AlexTLDR/hawkins/internal/i18n"
	"github.com/AlexTLDR/hawkins/internal/rsvp"
)

// maxBodyBytes bounds an RSVP submission; valid ones are well under 2 KiB.
const maxBodyBytes = 16 << 10

type createdGuest struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type createdResponse struct {
	OK    bool         `json:"ok"`
	Guest createdGuest `json:"guest"`
}

type errorResponse struct {
	OK     bool         `json:"ok"`
	Error  string       `json:"error"`
	Issues *rsvp.Issues `json:"issues,omitempty"`
}

// HandleRSVPSubmit validates and stores an RSVP submitted as JSON
func HandleRSVPSubmit(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.GetLanguageFromRequest(r)
		log := s.GetLogger()

		if s.GetConfig().DeadlinePassed(s.Now()) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: i18n.T(lang, i18n.DeadlinePassed)})
			return
		}

		in, err := s.GetValidator().Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes), lang)
		if err != nil {
			var verr *rsvp.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusBadRequest, errorResponse{
					Error:  i18n.T(lang, i18n.InvalidData),
					Issues: &verr.Issues,
				})
				return
			}
			log.Error().Err(err).Msg("failed to parse rsvp")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: i18n.T(lang, i18n.SaveFailed)})
			return
		}

		guest, err := s.GetStore().CreateGuest(r.Context(), *in)
		if err != nil {
			log.Error().Err(err).Msg("failed to save rsvp")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: i18n.T(lang, i18n.SaveFailed)})
			return
		}

		log.Info().Str("guest_id", guest.ID).Str("status", string(guest.Status)).Int("additional_qty", guest.AdditionalQty).Msg("rsvp saved")

		// The RSVP is already stored; a failed notification is only logged.
		if err := s.GetNotifier().GuestResponded(r.Context(), guest); err != nil {
			log.Warn().Err(err).Str("guest_id", guest.ID).Msg("failed to notify host")
		}

		writeJSON(w, http.StatusCreated, createdResponse{
			OK:    true,
			Guest: createdGuest{ID: guest.ID, CreatedAt: guest.CreatedAt},
		})
	}
}
