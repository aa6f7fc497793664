package timeline

import (
	"slices"

	"github.com/samber/lo"
)

// Track is an ordered lane of one media kind. Volume is only meaningful for
// audio tracks and stays at 1 for the others.
type Track struct {
	ID      string
	Name    string
	Kind    Kind
	Locked  bool
	Visible bool
	Order   int
	Volume  float64
	Clips   []Clip
}

func (t Track) clone() Track {
	t.Clips = slices.Clone(t.Clips)
	return t
}

func (t Track) clipIndex(clipID string) int {
	_, idx, _ := lo.FindIndexOf(t.Clips, func(c Clip) bool { return c.ID == clipID })
	return idx
}

// Clip returns the clip with the given id if the track holds it.
func (t Track) Clip(clipID string) (Clip, bool) {
	return lo.Find(t.Clips, func(c Clip) bool { return c.ID == clipID })
}

// ByStart returns the track's clips ordered by start time.
func (t Track) ByStart() []Clip {
	clips := slices.Clone(t.Clips)
	slices.SortStableFunc(clips, func(a, b Clip) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
	return clips
}

// End is the latest clip end on the track, or 0 for an empty track.
func (t Track) End() float64 {
	end := 0.0
	for _, c := range t.Clips {
		end = max(end, c.End)
	}
	return end
}

// At returns the clips covering time t.
func (t Track) At(seconds float64) []Clip {
	return lo.Filter(t.Clips, func(c Clip, _ int) bool { return c.Contains(seconds) })
}
