package rsvp

import (
	"fmt"
	"sort"
	"strings"
)

// Issues lists validation problems: form-level messages plus messages keyed
// by JSON field name.
type Issues struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func newIssues() Issues {
	return Issues{FormErrors: []string{}, FieldErrors: map[string][]string{}}
}

func (i *Issues) addField(field, msg string) {
	i.FieldErrors[field] = append(i.FieldErrors[field], msg)
}

func (i *Issues) addForm(msg string) {
	i.FormErrors = append(i.FormErrors, msg)
}

func (i Issues) empty() bool {
	return len(i.FormErrors) == 0 && len(i.FieldErrors) == 0
}

// ValidationError is returned when a submission is rejected.
type ValidationError struct {
	Issues Issues
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Issues.FieldErrors))
	for field := range e.Issues.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := append([]string{}, e.Issues.FormErrors...)
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Issues.FieldErrors[field], ", ")))
	}
	return "invalid rsvp: " + strings.Join(parts, "; ")
}
