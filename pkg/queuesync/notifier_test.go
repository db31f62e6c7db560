package queuesync

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSound struct {
	supported bool
	playErr   error
	plays     int
}

func (s *fakeSound) Supported() bool { return s.supported }
func (s *fakeSound) Play() error {
	s.plays++
	return s.playErr
}

type fakeTone struct {
	specs []ToneSpec
}

func (t *fakeTone) PlayTone(spec ToneSpec) error {
	t.specs = append(t.specs, spec)
	return nil
}

type fakeVibrator struct {
	supported bool
	patterns  [][]time.Duration
}

func (v *fakeVibrator) Supported() bool { return v.supported }
func (v *fakeVibrator) Vibrate(pattern []time.Duration) error {
	v.patterns = append(v.patterns, pattern)
	return nil
}

func waitingSnap(number int) Snapshot {
	return Snapshot{WaitingQueue: []Entry{{Number: number, Status: "waiting"}}}
}

func servingSnap(number int) Snapshot {
	return Snapshot{CurrentlyServing: &Entry{Number: number, Status: "serving"}}
}

func TestEdgeTriggeredNotServingLevel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sound := &fakeSound{supported: true}
	n := newNotifier(7, sound, nil, nil, clock)
	n.Unlock()

	n.Observe(waitingSnap(7))
	n.Observe(waitingSnap(7))
	n.Observe(servingSnap(7))
	n.Observe(servingSnap(7))

	assert.Equal(t, 1, sound.plays, "only the waiting-to-serving edge fires, not the serving level")
	assert.Equal(t, BannerCalled, n.Banner())
}

func TestFirstObservationIsNotATrigger(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sound := &fakeSound{supported: true}
	n := newNotifier(7, sound, nil, nil, clock)
	n.Unlock()

	// First snapshot already shows serving; there was no observed
	// waiting state to transition from.
	n.Observe(servingSnap(7))

	assert.Zero(t, sound.plays)
	assert.Equal(t, BannerIdle, n.Banner())
}

func TestBannerClearsAfterWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	n := newNotifier(7, nil, nil, nil, clock)

	n.Observe(waitingSnap(7))
	n.Observe(servingSnap(7))
	require.Equal(t, BannerCalled, n.Banner())

	clock.Advance(bannerWindow - time.Second)
	assert.Equal(t, BannerCalled, n.Banner())

	// The fake clock fires the expiry callback on its own goroutine.
	clock.Advance(2 * time.Second)
	assert.Eventually(t, func() bool {
		return n.Banner() == BannerIdle
	}, time.Second, 10*time.Millisecond)
}

func TestRetriggerReplacesBannerTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	n := newNotifier(7, nil, nil, nil, clock)

	n.Observe(waitingSnap(7))
	n.Observe(servingSnap(7))
	clock.Advance(6 * time.Second)

	// Superseding call before the first window elapses.
	n.Observe(waitingSnap(7))
	n.Observe(servingSnap(7))

	// 12s after the first call: the superseded timer must not fire.
	clock.Advance(6 * time.Second)
	assert.Never(t, func() bool {
		return n.Banner() == BannerIdle
	}, 100*time.Millisecond, 10*time.Millisecond, "old timer must not clear a superseding call")

	clock.Advance(5 * time.Second)
	assert.Eventually(t, func() bool {
		return n.Banner() == BannerIdle
	}, time.Second, 10*time.Millisecond)
}

func TestSoundRequiresUnlock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sound := &fakeSound{supported: true}
	n := newNotifier(7, sound, nil, nil, clock)

	assert.True(t, n.SoundSupported())
	assert.False(t, n.SoundEnabled(), "support alone never implies playback is allowed")

	n.Observe(waitingSnap(7))
	n.Observe(servingSnap(7))
	assert.Zero(t, sound.plays)

	n.Unlock()
	assert.True(t, n.SoundEnabled())
}

func TestToneFallbackOnRejectedPlayback(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sound := &fakeSound{supported: true, playErr: errors.New("autoplay blocked")}
	tone := &fakeTone{}
	n := newNotifier(7, sound, tone, nil, clock)
	n.Unlock()

	n.Observe(waitingSnap(7))
	n.Observe(servingSnap(7))

	assert.Equal(t, 1, sound.plays)
	require.Len(t, tone.specs, 1)
	assert.Equal(t, DefaultTone, tone.specs[0])
}

func TestVibrationPattern(t *testing.T) {
	clock := clockwork.NewFakeClock()
	vib := &fakeVibrator{supported: true}
	n := newNotifier(7, nil, nil, vib, clock)

	n.Observe(waitingSnap(7))
	n.Observe(servingSnap(7))

	require.Len(t, vib.patterns, 1)
	assert.Equal(t, vibrationPattern, vib.patterns[0])
}

func TestUnsupportedVibratorIsSkipped(t *testing.T) {
	clock := clockwork.NewFakeClock()
	vib := &fakeVibrator{supported: false}
	n := newNotifier(7, nil, nil, vib, clock)

	n.Observe(waitingSnap(7))
	n.Observe(servingSnap(7))

	assert.Empty(t, vib.patterns)
}

func TestOtherNumbersDoNotTrigger(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sound := &fakeSound{supported: true}
	n := newNotifier(7, sound, nil, nil, clock)
	n.Unlock()

	n.Observe(Snapshot{WaitingQueue: []Entry{{Number: 7}, {Number: 8}}})
	n.Observe(Snapshot{
		CurrentlyServing: &Entry{Number: 8},
		WaitingQueue:     []Entry{{Number: 7}},
	})

	assert.Zero(t, sound.plays)
	assert.Equal(t, BannerIdle, n.Banner())
}
