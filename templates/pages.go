package templates

import (
	"github.com/AlexTLDR/hawkins/internal/config"
	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/internal/intro"
)

type StatusOption struct {
	Value string
	Label string
}

// StatusOptions labels the statuses offered by the form.
func StatusOptions(statuses []string) []StatusOption {
	labels := map[string]string{
		"YES":   "Confirmado",
		"MAYBE": "Talvez",
		"NO":    "Não vou conseguir",
	}
	opts := make([]StatusOption, 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, StatusOption{Value: s, Label: labels[s]})
	}
	return opts
}

// IntroData configures the intro overlay script. It is embedded in the page
// as JSON.
type IntroData struct {
	Variant     intro.Variant     `json:"variant"`
	Phase       intro.Phase       `json:"phase"`
	Video       string            `json:"video"`
	ExitDelayMS int64             `json:"exitDelayMs"`
	Messages    map[string]string `json:"messages"`
}

type HomeData struct {
	Lang            string
	Event           config.Event
	Variant         string
	Statuses        []StatusOption
	Intro           IntroData
	DeadlinePassed  bool
	DeadlineMessage string
	// Particles is the overlay density multiplier.
	Particles float64
}

// ShowOverlay reports whether the intro overlay is rendered at all.
func (d HomeData) ShowOverlay() bool {
	return d.Intro.Phase != intro.PhaseDone
}

type ThanksData struct {
	Lang string
	Host string
	ID   string
}

type AdminData struct {
	Lang    string
	Host    string
	Guests  []*database.Guest
	Summary database.Summary
}
