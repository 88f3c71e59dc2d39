package rsvp

import (
	"math"
	"strconv"
	"strings"
)

// The submission endpoint accepts untyped JSON. These helpers pull a field out
// of the decoded object, coercing the string forms an HTML form produces.
// ok is false when the field is present with a type that cannot be used.

func stringField(m map[string]any, key string) (value string, ok bool) {
	raw, present := m[key]
	if !present || raw == nil {
		return "", true
	}
	s, isString := raw.(string)
	if !isString {
		return "", false
	}
	return s, true
}

// intField follows JavaScript Number() for strings: blank is 0, anything
// else must parse as a finite number. The number must also be integral.
func intField(m map[string]any, key string) (value *int, ok bool) {
	raw, present := m[key]
	if !present || raw == nil {
		return nil, true
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			f = 0
			break
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, false
		}
		f = parsed
	default:
		return nil, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil, false
	}
	n := int(f)
	return &n, true
}

func boolField(m map[string]any, key string) (value bool, ok bool) {
	raw, present := m[key]
	if !present || raw == nil {
		return false, true
	}

	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1":
			return true, true
		case "false", "off", "0", "":
			return false, true
		}
	}
	return false, false
}
