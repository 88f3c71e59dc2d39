package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Event holds the invitation content shown on the landing page.
// It is read from a YAML file so the copy can change without a rebuild.
type Event struct {
	Host     string   `yaml:"host"`
	Tagline  string   `yaml:"tagline"`
	Date     string   `yaml:"date"`
	Time     string   `yaml:"time"`
	Location string   `yaml:"location"`
	Rules    []string `yaml:"rules"`
	Contact  string   `yaml:"contact"`
}

// DefaultEvent is used when no event file exists.
func DefaultEvent() Event {
	return Event{
		Host:     "Brenda",
		Tagline:  "Você está sendo convocado para uma noite estranha (e incrível). Confirme sua presença abaixo.",
		Date:     "07/03",
		Time:     "07:00",
		Location: "(definir)",
		Rules: []string{
			"Chegue com fome (e curiosidade).",
			"Se ouvir um relógio… finja que não ouviu.",
			"Traga sua melhor energia.",
		},
		Contact: "Se precisar de infos do local/data, fale com o anfitrião.",
	}
}

// LoadEvent reads the event file at path. A missing file yields DefaultEvent;
// fields left empty in the file keep their default value.
func LoadEvent(path string) (*Event, error) {
	event := DefaultEvent()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &event, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}

	var fromFile Event
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("failed to parse event file: %w", err)
	}

	if fromFile.Host != "" {
		event.Host = fromFile.Host
	}
	if fromFile.Tagline != "" {
		event.Tagline = fromFile.Tagline
	}
	if fromFile.Date != "" {
		event.Date = fromFile.Date
	}
	if fromFile.Time != "" {
		event.Time = fromFile.Time
	}
	if fromFile.Location != "" {
		event.Location = fromFile.Location
	}
	if len(fromFile.Rules) > 0 {
		event.Rules = fromFile.Rules
	}
	if fromFile.Contact != "" {
		event.Contact = fromFile.Contact
	}

	return &event, nil
}
