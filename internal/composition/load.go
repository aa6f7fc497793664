package composition

import (
	"fmt"
	"slices"

	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Placement is one clip of a composition payload. Start and Duration
// are in frames.
type Placement struct {
	ID       string        `json:"id"`
	Kind     timeline.Kind `json:"type"`
	Source   string        `json:"src,omitempty"`
	Text     string        `json:"text,omitempty"`
	Name     string        `json:"name,omitempty"`
	Start    int           `json:"from"`
	Duration int           `json:"durationInFrames"`
	Track    int           `json:"trackIndex"`
}

// Payload is the composition a scene opens with.
type Payload struct {
	DurationInFrames int         `json:"durationInFrames"`
	FPS              int         `json:"fps,omitempty"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	Clips            []Placement `json:"clips"`
}

// Aspect is width over height, or DefaultAspect when either is unset.
func (p Payload) Aspect() float64 {
	if p.Width <= 0 || p.Height <= 0 {
		return DefaultAspect
	}
	return float64(p.Width) / float64(p.Height)
}

type Skipped struct {
	Placement Placement
	Err       error
}

type SeedResult struct {
	// ClipIDs maps placement ids to the ids the store assigned.
	ClipIDs map[string]string
	Skipped []Skipped
}

// Seed replaces the store's tracks with the payload's. Each distinct track
// index becomes one track, ordered by index, whose kind is that of its
// first placement. Placements that disagree with their track's kind or
// have no duration are skipped and reported.
func Seed(store *timeline.Store, p Payload, fps int) SeedResult {
	if p.FPS > 0 {
		fps = p.FPS
	}
	if fps <= 0 {
		fps = 30
	}
	store.Reset()

	indices := lo.Uniq(lo.Map(p.Clips, func(pl Placement, _ int) int { return pl.Track }))
	slices.Sort(indices)

	counts := map[timeline.Kind]int{}
	tracks := map[int]timeline.Track{}
	for _, idx := range indices {
		first, ok := lo.Find(p.Clips, func(pl Placement) bool { return pl.Track == idx && pl.Kind.Valid() })
		if !ok {
			continue
		}
		counts[first.Kind]++
		name := fmt.Sprintf("%s %d", trackLabel(first.Kind), counts[first.Kind])
		tracks[idx] = store.AddTrack(first.Kind, name)
	}

	res := SeedResult{ClipIDs: map[string]string{}}
	for _, pl := range p.Clips {
		track, ok := tracks[pl.Track]
		err := check(pl, track)
		if !ok && err == nil {
			err = fmt.Errorf("placement %s track %d: %w", pl.ID, pl.Track, timeline.ErrNotFound)
		}
		if err != nil {
			logger.Warn("composition clip skipped", zap.String("placement", pl.ID), zap.Error(err))
			res.Skipped = append(res.Skipped, Skipped{Placement: pl, Err: err})
			continue
		}
		name := pl.Name
		if name == "" {
			name = pl.ID
		}
		clip, err := store.AddClip(track.ID, timeline.ClipSpec{
			Name:    name,
			Start:   float64(pl.Start) / float64(fps),
			End:     float64(pl.Start+pl.Duration) / float64(fps),
			Source:  pl.Source,
			Content: pl.Text,
		})
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Placement: pl, Err: err})
			continue
		}
		res.ClipIDs[pl.ID] = clip.ID
	}
	logger.Info("composition seeded",
		zap.Int("tracks", len(tracks)),
		zap.Int("clips", len(res.ClipIDs)),
		zap.Int("skipped", len(res.Skipped)))
	return res
}

func check(pl Placement, track timeline.Track) error {
	if !pl.Kind.Valid() {
		return fmt.Errorf("placement %s kind %d: %w", pl.ID, pl.Kind, timeline.ErrKindMismatch)
	}
	if pl.Kind != track.Kind {
		return fmt.Errorf("placement %s is %s on %s track %d: %w", pl.ID, pl.Kind, track.Kind, pl.Track, timeline.ErrKindMismatch)
	}
	if pl.Start < 0 || pl.Duration <= 0 {
		return fmt.Errorf("placement %s frames %d+%d: %w", pl.ID, pl.Start, pl.Duration, timeline.ErrInvalidRange)
	}
	return nil
}

func trackLabel(k timeline.Kind) string {
	switch k {
	case timeline.KindVideo:
		return "Video"
	case timeline.KindAudio:
		return "Audio"
	case timeline.KindText:
		return "Text"
	}
	return "Track"
}

// DefaultPayload is what a scene opens with when the project has no
// composition of its own: the scene's video on track 0 over its audio on
// track 1, both spanning the whole length.
func DefaultPayload(res media.Resolved, frames, width, height int) Payload {
	return Payload{
		DurationInFrames: frames,
		Width:            width,
		Height:           height,
		Clips: []Placement{
			{ID: "video-clip", Kind: timeline.KindVideo, Source: res.VideoURL, Name: "Video", Duration: frames, Track: 0},
			{ID: "audio-clip", Kind: timeline.KindAudio, Source: res.AudioURL, Name: "Audio", Duration: frames, Track: 1},
		},
	}
}
