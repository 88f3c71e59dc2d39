package i18n

import (
	"net/http"
)

type Language string

const (
	Portuguese Language = "pt"
	English    Language = "en"
)

func parse(value string) (Language, bool) {
	switch value {
	case "pt", "pt-BR", "pt-br":
		return Portuguese, true
	case "en":
		return English, true
	}
	return "", false
}

// GetLanguageFromRequest extracts language from request (query param or cookie)
func GetLanguageFromRequest(r *http.Request) Language {
	if lang, ok := parse(r.URL.Query().Get("lang")); ok {
		return lang
	}

	if cookie, err := r.Cookie("lang"); err == nil {
		if lang, ok := parse(cookie.Value); ok {
			return lang
		}
	}

	// Default to Portuguese
	return Portuguese
}
