// Package templates holds the site's templ components. Edit the .templ
// sources and run `templ generate` to refresh the *_templ.go files.
package templates

import (
	"time"
	_ "time/tzdata"

	"github.com/AlexTLDR/hawkins/internal/database"
)

// StatusLabel is the roster label for an attendance status.
func StatusLabel(status database.Status) string {
	switch status {
	case database.StatusYes:
		return "Confirmado"
	case database.StatusMaybe:
		return "Talvez"
	}
	return "Não"
}

func homeTitle(host string) string {
	return "Convite • " + host
}

func rosterTitle(host string) string {
	return "Lista de convidados — " + host
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}

var saoPaulo = func() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.UTC
	}
	return loc
}()

func formatTime(t time.Time) string {
	return t.In(saoPaulo).Format("02/01/2006 15:04:05")
}
