package intro

import (
	"context"
	"sync"

	"github.com/AlexTLDR/hawkins/internal/i18n"
)

type Options struct {
	Variant       Variant
	AlreadyPlayed bool
	Player        Player
	Scroll        ScrollLocker
	// Session receives the SeenKey marker when an Autoplay gate completes.
	Session SessionStore
	// Clock defaults to the wall clock.
	Clock Clock
	Lang  i18n.Language
	// OnChange is called after every state change, outside the gate's lock.
	OnChange func(Snapshot)
}

// Gate is one intro sequence. All methods are safe to call from event
// handlers and timer callbacks; none of them return playback errors.
type Gate struct {
	mu sync.Mutex

	variant      Variant
	phase        Phase
	errKey       i18n.Key
	soundEnabled bool
	videoMissing bool

	player   Player
	session  SessionStore
	clock    Clock
	lang     i18n.Language
	onChange func(Snapshot)

	restoreScroll func()
	exitTimer     Timer
	// attempt identifies the latest playback request; results of older
	// requests are ignored.
	attempt int

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

func New(opts Options) *Gate {
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	g := &Gate{
		variant:  opts.Variant,
		phase:    InitialPhase(opts.Variant, opts.AlreadyPlayed),
		player:   opts.Player,
		session:  opts.Session,
		clock:    clock,
		lang:     opts.Lang,
		onChange: opts.OnChange,
		ctx:      ctx,
		cancel:   cancel,
	}

	if g.phase != PhaseDone && opts.Scroll != nil {
		g.restoreScroll = opts.Scroll.Lock()
	}
	return g
}

func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Gate) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Gate) snapshotLocked() Snapshot {
	s := Snapshot{Phase: g.phase, SoundEnabled: g.soundEnabled}
	if g.errKey != "" {
		s.Error = i18n.T(g.lang, g.errKey)
	}
	return s
}

// Begin starts muted playback for an Autoplay gate that opened in
// PhasePlaying. It does nothing for other gates.
func (g *Gate) Begin() {
	g.mu.Lock()
	if g.closed || g.variant != Autoplay || g.phase != PhasePlaying {
		g.mu.Unlock()
		return
	}
	attempt := g.nextAttemptLocked()
	muted := !g.soundEnabled
	g.mu.Unlock()

	g.play(attempt, muted, func(err error) {
		g.phase = PhaseIdle
		g.errKey = i18n.IntroAutoplayBlocked
	})
}

// Confirm answers the confirm prompt. The click is the user gesture
// browsers require, so playback is attempted right away.
func (g *Gate) Confirm(withAudio bool) {
	g.mu.Lock()
	if g.closed || g.phase != PhaseConfirm {
		g.mu.Unlock()
		return
	}
	g.errKey = ""
	g.soundEnabled = withAudio
	g.phase = PhasePlaying
	attempt := g.nextAttemptLocked()
	g.mu.Unlock()
	g.notify()

	g.play(attempt, !withAudio, func(err error) {
		g.phase = PhaseIdle
		if withAudio {
			g.errKey = i18n.IntroAudioBlocked
		} else {
			g.errKey = i18n.IntroAutoplayBlocked
		}
	})
}

// Start retries playback from PhaseIdle. A refusal leaves the gate in
// PhaseIdle so the user can try again.
func (g *Gate) Start() {
	g.mu.Lock()
	if g.closed || g.phase != PhaseIdle {
		g.mu.Unlock()
		return
	}
	g.errKey = ""
	g.phase = PhasePlaying
	attempt := g.nextAttemptLocked()
	muted := !g.soundEnabled
	g.mu.Unlock()
	g.notify()

	g.play(attempt, muted, func(err error) {
		g.phase = PhaseIdle
		g.errKey = i18n.IntroStartFailed
	})
}

// EnableSound unmutes a playing ConfirmFirst gate. A refusal only sets the
// error message.
func (g *Gate) EnableSound() {
	g.mu.Lock()
	if g.closed || g.variant != ConfirmFirst || g.phase != PhasePlaying || g.soundEnabled {
		g.mu.Unlock()
		return
	}
	g.soundEnabled = true
	attempt := g.nextAttemptLocked()
	g.mu.Unlock()
	g.notify()

	g.play(attempt, false, func(err error) {
		g.soundEnabled = false
		g.errKey = i18n.IntroSoundBlocked
		if g.player != nil {
			g.player.SetMuted(true)
		}
	})
}

// Ended handles the video reaching its natural end.
func (g *Gate) Ended() {
	g.mu.Lock()
	if g.closed || g.phase != PhasePlaying {
		g.mu.Unlock()
		return
	}
	g.exitLocked()
	g.mu.Unlock()
	g.notify()
}

// Skip ends the intro early. It works while playing and, once the video
// is known to be missing, from PhaseConfirm and PhaseIdle too.
func (g *Gate) Skip() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	switch g.phase {
	case PhasePlaying:
	case PhaseConfirm, PhaseIdle:
		if !g.videoMissing {
			g.mu.Unlock()
			return
		}
	default:
		g.mu.Unlock()
		return
	}
	g.exitLocked()
	g.mu.Unlock()
	g.notify()
}

// VideoError records that the video resource could not be loaded.
func (g *Gate) VideoError() {
	g.mu.Lock()
	if g.closed || g.phase == PhaseDone {
		g.mu.Unlock()
		return
	}
	g.videoMissing = true
	g.errKey = i18n.IntroVideoMissing
	g.mu.Unlock()
	g.notify()
}

// Close tears the gate down: the exit timer is stopped, pending playback
// requests are cancelled and scrolling is restored. Later events are ignored.
func (g *Gate) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	if g.exitTimer != nil {
		g.exitTimer.Stop()
		g.exitTimer = nil
	}
	g.releaseScrollLocked()
	g.mu.Unlock()

	g.cancel()
}

func (g *Gate) nextAttemptLocked() int {
	g.attempt++
	return g.attempt
}

// play runs one playback request outside the lock. onReject is applied
// under the lock only if the request is still current and the gate is
// still playing.
func (g *Gate) play(attempt int, muted bool, onReject func(error)) {
	if g.player == nil {
		return
	}
	g.player.SetMuted(muted)
	err := g.player.Play(g.ctx)
	if err == nil {
		return
	}

	g.mu.Lock()
	if g.closed || attempt != g.attempt || g.phase != PhasePlaying {
		g.mu.Unlock()
		return
	}
	onReject(err)
	g.mu.Unlock()
	g.notify()
}

func (g *Gate) exitLocked() {
	g.phase = PhaseExiting
	g.exitTimer = g.clock.AfterFunc(ExitDelay, g.finish)
}

func (g *Gate) finish() {
	g.mu.Lock()
	if g.closed || g.phase != PhaseExiting {
		g.mu.Unlock()
		return
	}
	g.phase = PhaseDone
	g.exitTimer = nil
	g.releaseScrollLocked()
	session := g.session
	markSeen := g.variant == Autoplay
	g.mu.Unlock()

	if markSeen && session != nil {
		// The marker only shortens later visits; failing to store it is harmless.
		_ = session.Set(SeenKey, "1")
	}
	g.notify()
}

func (g *Gate) releaseScrollLocked() {
	if g.restoreScroll != nil {
		g.restoreScroll()
		g.restoreScroll = nil
	}
}

func (g *Gate) notify() {
	if g.onChange == nil {
		return
	}
	g.onChange(g.Snapshot())
}
