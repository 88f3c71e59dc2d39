package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const introSessionName = "intro-session"

// cookieSession adapts a gorilla session to intro.SessionStore for a single
// request. The cookie has no MaxAge, so the marker lasts for the browser
// session.
type cookieSession struct {
	store sessions.Store
	w     http.ResponseWriter
	r     *http.Request
}

func (c *cookieSession) Get(key string) (string, bool) {
	session, err := c.store.Get(c.r, introSessionName)
	if err != nil {
		return "", false
	}
	v, ok := session.Values[key].(string)
	return v, ok
}

func (c *cookieSession) Set(key, value string) error {
	// A cookie signed with an old secret yields an error and a fresh session.
	session, _ := c.store.Get(c.r, introSessionName)
	session.Values[key] = value
	if err := session.Save(c.r, c.w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
