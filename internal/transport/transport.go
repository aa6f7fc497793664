// Package transport holds playback state: the playhead frame, play/pause,
// volume, mute, rate and fullscreen. It is independent of the timeline.
package transport

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// DefaultRates is the playback-rate cycle used by the [ and ] keys.
var DefaultRates = []float64{0.5, 1, 1.5, 2}

var ErrInvalidRate = errors.New("unsupported playback rate")

const (
	DefaultFPS         = 30
	DefaultTotalFrames = 150
)

type State struct {
	Frame       int
	Playing     bool
	Volume      float64
	Muted       bool
	Fullscreen  bool
	Rate        float64
	TotalFrames int
	FPS         int
}

type Transport struct {
	state State
	rates []float64
	sched Scheduler
	media Media
}

// New returns a paused transport at frame 0. Non-positive fps or
// totalFrames fall back to the defaults; an empty rate list uses
// DefaultRates.
func New(fps, totalFrames int, rates []float64) *Transport {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if totalFrames <= 0 {
		totalFrames = DefaultTotalFrames
	}
	if len(rates) == 0 {
		rates = DefaultRates
	}
	rates = slices.Clone(rates)
	slices.Sort(rates)

	rate := rates[0]
	if slices.Contains(rates, 1) {
		rate = 1
	}
	return &Transport{
		state: State{
			Volume:      1,
			Rate:        rate,
			TotalFrames: totalFrames,
			FPS:         fps,
		},
		rates: rates,
		media: Media{Loading: true},
	}
}

func (t *Transport) State() State          { return t.state }
func (t *Transport) Frame() int            { return t.state.Frame }
func (t *Transport) Playing() bool         { return t.state.Playing }
func (t *Transport) Volume() float64       { return t.state.Volume }
func (t *Transport) Muted() bool           { return t.state.Muted }
func (t *Transport) Rate() float64         { return t.state.Rate }
func (t *Transport) FPS() int              { return t.state.FPS }
func (t *Transport) TotalFrames() int      { return t.state.TotalFrames }
func (t *Transport) Rates() []float64      { return slices.Clone(t.rates) }
func (t *Transport) Fullscreen() bool      { return t.state.Fullscreen }
func (t *Transport) Media() Media          { return t.media }
func (t *Transport) Seconds() float64      { return t.FrameToSeconds(t.state.Frame) }
func (t *Transport) Scheduler() *Scheduler { return &t.sched }

func (t *Transport) FrameToSeconds(frame int) float64 {
	return float64(frame) / float64(t.state.FPS)
}

func (t *Transport) SecondsToFrame(seconds float64) int {
	return int(math.Round(seconds * float64(t.state.FPS)))
}

// EffectiveVolume is the output gain after mute.
func (t *Transport) EffectiveVolume() float64 {
	if t.state.Muted {
		return 0
	}
	return t.state.Volume
}

// SetFrame moves the playhead, clamped to [0, TotalFrames], and returns the
// frame actually set.
func (t *Transport) SetFrame(frame int) int {
	t.state.Frame = min(max(frame, 0), t.state.TotalFrames)
	return t.state.Frame
}

func (t *Transport) StepFrames(delta int) int {
	return t.SetFrame(t.state.Frame + delta)
}

// SetTotalFrames changes the composition length and re-clamps the playhead.
func (t *Transport) SetTotalFrames(total int) {
	if total < 0 {
		total = 0
	}
	t.state.TotalFrames = total
	t.SetFrame(t.state.Frame)
}

// SetVolume clamps to [0,1].
func (t *Transport) SetVolume(volume float64) float64 {
	t.state.Volume = min(max(volume, 0), 1)
	return t.state.Volume
}

func (t *Transport) ToggleMute()       { t.state.Muted = !t.state.Muted }
func (t *Transport) ToggleFullscreen() { t.state.Fullscreen = !t.state.Fullscreen }

// SetPlaybackRate accepts only rates from the configured list.
func (t *Transport) SetPlaybackRate(rate float64) error {
	if !slices.Contains(t.rates, rate) {
		return fmt.Errorf("rate %v: %w", rate, ErrInvalidRate)
	}
	t.state.Rate = rate
	return nil
}

// CycleRate moves dir steps through the rate list, stopping at either end.
// A current rate missing from the list is treated as the first entry.
func (t *Transport) CycleRate(dir int) float64 {
	idx := max(slices.Index(t.rates, t.state.Rate), 0)
	idx = min(max(idx+dir, 0), len(t.rates)-1)
	t.state.Rate = t.rates[idx]
	return t.state.Rate
}

// Play starts the frame-advance loop and returns its token. Calling Play
// while playing restarts the loop; the previous token goes stale.
func (t *Transport) Play(now time.Time) Token {
	t.state.Playing = true
	return t.sched.Start(now)
}

func (t *Transport) Pause() {
	t.state.Playing = false
	t.sched.Stop()
}

// TogglePlayback flips between playing and paused. The returned token is
// only valid when the transport is now playing.
func (t *Transport) TogglePlayback(now time.Time) (Token, bool) {
	if t.state.Playing {
		t.Pause()
		return Token{}, false
	}
	return t.Play(now), true
}

// Tick advances the playhead for the time elapsed since the previous tick
// of the same loop. Past TotalFrames the playhead wraps to 0. It reports
// whether the loop is still live; a stale token changes nothing.
func (t *Transport) Tick(tok Token, now time.Time) bool {
	n, ok := t.sched.advance(tok, now, t.state.Rate, t.state.FPS)
	if !ok {
		return false
	}
	if n > 0 {
		cycle := t.state.TotalFrames + 1
		t.state.Frame = (t.state.Frame + n) % cycle
	}
	return true
}

// Timecode renders the playhead as HH:MM:SS:FF.
func (t *Transport) Timecode() string {
	return FormatTimecode(t.state.Frame, t.state.FPS)
}

func FormatTimecode(frame, fps int) string {
	if fps <= 0 {
		fps = DefaultFPS
	}
	totalSeconds := frame / fps
	return fmt.Sprintf("%02d:%02d:%02d:%02d",
		totalSeconds/3600, (totalSeconds/60)%60, totalSeconds%60, frame%fps)
}
