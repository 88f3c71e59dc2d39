// Package intro implements the gate that plays a full-screen video to
// first-time visitors before the invitation is revealed.
//
// The gate is driven by browser events: clicks, the video's ended and error
// events, and the result of asynchronous playback requests. Browsers refuse
// playback without a user gesture (and refuse audio more often still), so a
// rejected request is an expected outcome that moves the gate to PhaseIdle
// with a retry prompt rather than an error for the caller.
//
// The server uses InitialPhase, Messages and ExitDelay to render the overlay;
// static/app.js then drives it in the browser with the same transitions as
// Gate. TestBrowserScriptMirrorsGate fails when the two drift apart.
package intro

import (
	"context"
	"time"

	"github.com/AlexTLDR/hawkins/internal/i18n"
)

type Phase string

const (
	// PhaseConfirm asks whether to continue, with or without sound.
	PhaseConfirm Phase = "confirm"
	// PhaseIdle waits for a click because playback was refused.
	PhaseIdle Phase = "idle"
	// PhasePlaying has the video running.
	PhasePlaying Phase = "playing"
	// PhaseExiting fades the overlay out for ExitDelay.
	PhaseExiting Phase = "exiting"
	// PhaseDone reveals the page. It is terminal.
	PhaseDone Phase = "done"
)

type Variant string

const (
	// ConfirmFirst starts every visit at PhaseConfirm and offers an
	// "enable sound" action while playing.
	ConfirmFirst Variant = "confirm"
	// Autoplay starts muted playback immediately and skips the intro for
	// the rest of the session once it has completed.
	Autoplay Variant = "autoplay"
)

// ExitDelay is how long PhaseExiting lasts before PhaseDone.
const ExitDelay = 500 * time.Millisecond

// SeenKey is the session key marking the intro as already played.
const SeenKey = "intro_played"

// Player controls the video element.
type Player interface {
	SetMuted(muted bool)
	// Play requests playback and blocks until the browser accepts or
	// rejects it. ctx is cancelled when the gate is torn down.
	Play(ctx context.Context) error
}

// ScrollLocker locks page scrolling. The returned func restores the value
// that was in effect before Lock.
type ScrollLocker interface {
	Lock() (restore func())
}

// SessionStore is a session-scoped key/value store.
type SessionStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type Timer interface {
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// AlreadyPlayed reports whether the session carries the SeenKey marker.
// A nil store never has it.
func AlreadyPlayed(store SessionStore) bool {
	if store == nil {
		return false
	}
	v, ok := store.Get(SeenKey)
	return ok && v != ""
}

// InitialPhase returns the phase a gate starts in.
func InitialPhase(variant Variant, alreadyPlayed bool) Phase {
	if variant == Autoplay {
		if alreadyPlayed {
			return PhaseDone
		}
		return PhasePlaying
	}
	return PhaseConfirm
}

// Snapshot is the observable state of a gate.
type Snapshot struct {
	Phase        Phase  `json:"phase"`
	Error        string `json:"error,omitempty"`
	SoundEnabled bool   `json:"soundEnabled"`
}

// Overlay reports whether the intro overlay covers the page.
func (s Snapshot) Overlay() bool {
	return s.Phase != PhaseDone
}

// Messages lists the user-facing strings of the gate in lang.
func Messages(lang i18n.Language) map[string]string {
	return map[string]string{
		"autoplayBlocked": i18n.T(lang, i18n.IntroAutoplayBlocked),
		"audioBlocked":    i18n.T(lang, i18n.IntroAudioBlocked),
		"startFailed":     i18n.T(lang, i18n.IntroStartFailed),
		"soundBlocked":    i18n.T(lang, i18n.IntroSoundBlocked),
		"videoMissing":    i18n.T(lang, i18n.IntroVideoMissing),
	}
}
