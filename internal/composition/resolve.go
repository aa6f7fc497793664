package composition

import (
	"github.com/aschmelyun/robomovie/internal/timeline"
)

type Audible struct {
	Clip timeline.Clip
	Gain float64
}

// Frame is what the composition shows and plays at one instant.
type Frame struct {
	Seconds float64
	Video   *timeline.Clip
	Audio   []Audible
	Text    []timeline.Clip
}

func (f Frame) Empty() bool {
	return f.Video == nil && len(f.Audio) == 0 && len(f.Text) == 0
}

// Resolve collects the clips active at seconds across the visible tracks,
// which must be in display order. The first video track with a clip wins.
// Audio gain is track volume times clip volume times output, where
// output is the transport's effective volume.
func Resolve(tracks []timeline.Track, seconds, output float64) Frame {
	frame := Frame{Seconds: seconds}
	for _, track := range tracks {
		if !track.Visible {
			continue
		}
		for _, clip := range track.At(seconds) {
			switch body := clip.Body.(type) {
			case timeline.VideoBody:
				if frame.Video == nil {
					c := clip
					frame.Video = &c
				}
			case timeline.AudioBody:
				frame.Audio = append(frame.Audio, Audible{
					Clip: clip,
					Gain: track.Volume * body.Volume * output,
				})
			case timeline.TextBody:
				frame.Text = append(frame.Text, clip)
			}
		}
	}
	return frame
}
