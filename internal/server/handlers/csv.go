package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/templates"
)

var csvHeader = []string{"Nome", "Presença", "Acompanhantes", "Acompanhante", "WhatsApp", "Recado", "Criado"}

// csvCell flattens newlines, which break some spreadsheet imports, and
// quotes a leading formula trigger so spreadsheets show the value as text.
func csvCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func optionalField(s *string) string {
	if s == nil {
		return ""
	}
	return csvCell(*s)
}

// formatGuestForCSV converts a guest to a CSV record
func formatGuestForCSV(g *database.Guest) []string {
	return []string{
		csvCell(g.Name),
		templates.StatusLabel(g.Status),
		strconv.Itoa(g.AdditionalQty),
		optionalField(g.CompanionName),
		optionalField(g.Phone),
		optionalField(g.Message),
		g.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// writeCSVHeaders sets HTTP headers and writes the BOM
func writeCSVHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=rsvp-list.csv")

	// UTF-8 BOM for Excel compatibility
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})
}

// HandleAdminDownloadCSV exports the roster to CSV
func HandleAdminDownloadCSV(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guests, ok := loadRoster(s, w, r)
		if !ok {
			return
		}

		writeCSVHeaders(w)

		cw := csv.NewWriter(w)
		_ = cw.Write(csvHeader)
		for _, g := range guests {
			_ = cw.Write(formatGuestForCSV(g))
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			log := s.GetLogger()
			log.Warn().Err(err).Msg("failed to write csv export")
		}
	}
}
