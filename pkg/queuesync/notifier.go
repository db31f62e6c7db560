package queuesync

import (
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

/*
|--------------------------------------------------------------------------
| Notification Dispatcher
|--------------------------------------------------------------------------
| Watches one queue number on the public portal and fires sound,
| vibration and a transient "called" banner when that number moves
| from waiting to serving. The transition is detected against the
| held prior snapshot, not the event payload, because the portal only
| receives generic queue-updated hints.
*/

// Banner states. Terminal and initial state is idle.
const (
	BannerIdle   = "idle"
	BannerCalled = "called"
)

const bannerWindow = 10 * time.Second

// ToneSpec describes the synthesized fallback tone: a short beep
// with a linear amplitude ramp up then down so it is not a jarring
// click.
type ToneSpec struct {
	FrequencyHz float64
	Duration    time.Duration
	Ramp        time.Duration
}

// DefaultTone is used whenever the primary player fails.
var DefaultTone = ToneSpec{FrequencyHz: 880, Duration: 600 * time.Millisecond, Ramp: 80 * time.Millisecond}

// SoundPlayer plays the preloaded call chime. Play may be rejected
// on platforms that block autoplay.
type SoundPlayer interface {
	Supported() bool
	Play() error
}

// ToneSynth renders the fallback tone programmatically.
type ToneSynth interface {
	PlayTone(spec ToneSpec) error
}

// Vibrator is feature-detected; Vibrate must never panic when the
// platform lacks the capability.
type Vibrator interface {
	Supported() bool
	Vibrate(pattern []time.Duration) error
}

// vibrationPattern is short, pause, long, pause, short.
var vibrationPattern = []time.Duration{
	200 * time.Millisecond,
	100 * time.Millisecond,
	400 * time.Millisecond,
	100 * time.Millisecond,
	200 * time.Millisecond,
}

// Notifier tracks one watched number across successive snapshots.
type Notifier struct {
	clock clockwork.Clock
	sound SoundPlayer
	tone  ToneSynth
	vib   Vibrator

	mux        sync.Mutex
	watched    int
	prevStatus string
	banner     string
	timer      clockwork.Timer
	unlocked   bool
}

func NewNotifier(watched int, sound SoundPlayer, tone ToneSynth, vib Vibrator) *Notifier {
	return newNotifier(watched, sound, tone, vib, clockwork.NewRealClock())
}

func newNotifier(watched int, sound SoundPlayer, tone ToneSynth, vib Vibrator, clock clockwork.Clock) *Notifier {
	return &Notifier{
		clock:   clock,
		sound:   sound,
		tone:    tone,
		vib:     vib,
		watched: watched,
		banner:  BannerIdle,
	}
}

// SoundSupported reports whether the platform can play audio at all.
func (n *Notifier) SoundSupported() bool {
	return n.sound != nil && n.sound.Supported()
}

// SoundEnabled is distinct from SoundSupported: audio support does
// not mean playback will be allowed before a user gesture.
func (n *Notifier) SoundEnabled() bool {
	n.mux.Lock()
	defer n.mux.Unlock()
	return n.unlocked && n.SoundSupported()
}

// Unlock must be called from a user gesture on platforms that block
// autoplay. Until then no sound is attempted.
func (n *Notifier) Unlock() {
	n.mux.Lock()
	n.unlocked = true
	n.mux.Unlock()
}

// Banner returns the current banner state.
func (n *Notifier) Banner() string {
	n.mux.Lock()
	defer n.mux.Unlock()
	return n.banner
}

// Observe feeds the next snapshot. Exactly the waiting-to-serving
// edge for the watched number triggers the alert; staying in serving
// across polls does not re-trigger.
func (n *Notifier) Observe(snap Snapshot) {
	status := statusOf(snap, n.watched)

	n.mux.Lock()
	triggered := n.prevStatus == "waiting" && status == "serving"
	n.prevStatus = status
	if triggered {
		n.banner = BannerCalled
		// Replace any running timer so a superseding call cannot be
		// cleared early by the previous call's timer.
		if n.timer != nil {
			n.timer.Stop()
		}
		n.timer = n.clock.AfterFunc(bannerWindow, func() {
			n.mux.Lock()
			n.banner = BannerIdle
			n.mux.Unlock()
		})
	}
	n.mux.Unlock()

	if triggered {
		n.playSound()
		n.vibrate()
	}
}

func statusOf(snap Snapshot, number int) string {
	if snap.CurrentlyServing != nil && snap.CurrentlyServing.Number == number {
		return "serving"
	}
	for _, entry := range snap.WaitingQueue {
		if entry.Number == number {
			return "waiting"
		}
	}
	for _, skipped := range snap.SkippedQueue {
		if skipped == number {
			return "skipped"
		}
	}
	return ""
}

// playSound tries the preloaded chime first and falls back to the
// synthesized tone when playback is rejected. Fire and forget.
func (n *Notifier) playSound() {
	if !n.SoundEnabled() {
		return
	}
	if err := n.sound.Play(); err == nil {
		return
	}
	if n.tone == nil {
		return
	}
	if err := n.tone.PlayTone(DefaultTone); err != nil {
		log.Printf("[Notifier] Fallback tone failed: %v", err)
	}
}

func (n *Notifier) vibrate() {
	if n.vib == nil || !n.vib.Supported() {
		return
	}
	if err := n.vib.Vibrate(vibrationPattern); err != nil {
		log.Printf("[Notifier] Vibration failed: %v", err)
	}
}
