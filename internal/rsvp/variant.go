package rsvp

import (
	"fmt"
	"strings"
)

// Variant selects which submission schema the form uses.
type Variant string

const (
	// Quantity asks for an optional phone and a companion count (0..10).
	Quantity Variant = "A"
	// Companion asks whether the guest brings someone and that person's name.
	Companion Variant = "B"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToUpper(strings.TrimSpace(s))) {
	case Quantity:
		return Quantity, nil
	case Companion:
		return Companion, nil
	}
	return "", fmt.Errorf("unknown rsvp variant %q", s)
}

// Statuses lists the attendance values accepted by the variant, in the
// order the form offers them.
func (v Variant) Statuses() []string {
	if v == Companion {
		return []string{"YES", "NO"}
	}
	return []string{"YES", "MAYBE", "NO"}
}
