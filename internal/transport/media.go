package transport

import "math"

// MediaEvent mirrors the native events of the element that actually plays
// the media.
type MediaEvent int

const (
	MediaLoadStart MediaEvent = iota
	MediaLoadedData
	MediaWaiting
	MediaPlaying
	MediaEnded
	MediaError
)

func (e MediaEvent) String() string {
	switch e {
	case MediaLoadStart:
		return "loadstart"
	case MediaLoadedData:
		return "loadeddata"
	case MediaWaiting:
		return "waiting"
	case MediaPlaying:
		return "playing"
	case MediaEnded:
		return "ended"
	case MediaError:
		return "error"
	}
	return "unknown"
}

// Media is the loading/buffering indicator. It is separate from the
// play/pause flag and carries no retry policy.
type Media struct {
	Loading   bool
	Buffering bool
	Failed    bool
}

// Busy reports whether a spinner should show.
func (m Media) Busy() bool { return m.Loading || m.Buffering }

// seekTolerance is how far the media clock may drift from the playhead
// before a seek is issued.
const seekTolerance = 0.1

func (t *Transport) HandleMedia(ev MediaEvent) {
	switch ev {
	case MediaLoadStart:
		t.media = Media{Loading: true}
	case MediaLoadedData:
		t.media.Loading = false
	case MediaWaiting:
		t.media.Buffering = true
	case MediaPlaying:
		t.media.Loading = false
		t.media.Buffering = false
	case MediaEnded:
		t.media.Buffering = false
		if t.state.Playing {
			t.Pause()
		}
	case MediaError:
		t.media = Media{Failed: true}
	}
}

// SyncFromMedia applies a timeupdate from the media clock. It reports
// whether the playhead moved.
func (t *Transport) SyncFromMedia(seconds float64) bool {
	frame := t.SecondsToFrame(seconds)
	if frame == t.state.Frame {
		return false
	}
	t.SetFrame(frame)
	return true
}

// SeekTarget returns where the media element should seek to follow the
// playhead, or false when it is already close enough.
func (t *Transport) SeekTarget(mediaSeconds float64) (float64, bool) {
	want := t.Seconds()
	if math.Abs(mediaSeconds-want) > seekTolerance {
		return want, true
	}
	return 0, false
}
