package interaction

import (
	"github.com/aschmelyun/robomovie/internal/timeline"
)

// HeaderWidth is the column count reserved for track headers left of the
// lanes.
const HeaderWidth = 18

type Region int

const (
	RegionNone Region = iota
	RegionRuler
	RegionHeader
	RegionLane
	RegionClip
	RegionLeftEdge
	RegionRightEdge
)

func (r Region) String() string {
	return [...]string{"none", "ruler", "header", "lane", "clip", "left-edge", "right-edge"}[r]
}

// ClipBox is a clip's full horizontal extent in columns. It can reach
// past either side of the ruler when the clip is partly scrolled away.
type ClipBox struct {
	Clip timeline.Clip
	X    int
	W    int
}

type Lane struct {
	Track timeline.Track
	Y     int
	Clips []ClipBox
}

// Layout is the on-screen geometry of the timeline: one ruler row
// followed by one row per track in order.
type Layout struct {
	Top   int
	Ruler Ruler
	Zoom  float64
	Scale Scale
	Lanes []Lane
}

// NewLayout places the ruler at row top and the lanes below it across
// width columns, the first HeaderWidth of which hold track headers.
func NewLayout(st timeline.State, scale Scale, top, width int) Layout {
	l := Layout{
		Top: top,
		Ruler: Ruler{
			Left:   HeaderWidth,
			Width:  max(width-HeaderWidth, 0),
			Scroll: st.ScrollPosition,
		},
		Zoom:  st.Zoom,
		Scale: scale,
	}
	for i, track := range st.Tracks {
		lane := Lane{Track: track, Y: top + 1 + i}
		for _, clip := range track.ByStart() {
			lane.Clips = append(lane.Clips, l.box(clip))
		}
		l.Lanes = append(l.Lanes, lane)
	}
	return l
}

func (l Layout) box(clip timeline.Clip) ClipBox {
	x := l.Ruler.Left + l.Scale.TimeToCell(clip.Start-l.Ruler.Scroll, l.Zoom)
	end := l.Ruler.Left + l.Scale.TimeToCell(clip.End-l.Ruler.Scroll, l.Zoom)
	return ClipBox{Clip: clip, X: x, W: max(end-x, 1)}
}

// Visible returns the on-screen column span [from, to) of the box, empty
// when it lies outside the ruler.
func (l Layout) Visible(b ClipBox) (from, to int) {
	from = max(b.X, l.Ruler.Left)
	to = min(b.X+b.W, l.Ruler.Left+l.Ruler.Width)
	if to < from {
		to = from
	}
	return from, to
}

func (l Layout) Height() int { return 1 + len(l.Lanes) }

// Hit describes what lies under a pointer position. Offset and Width are
// relative to the clip's full box so they can feed SplitTime directly.
type Hit struct {
	Region Region
	Track  timeline.Track
	Clip   timeline.Clip
	Offset int
	Width  int
}

// HitTest resolves a cell. Clips narrower than three columns have no
// edge handles.
func (l Layout) HitTest(x, y int) Hit {
	if y == l.Top {
		if x >= l.Ruler.Left && x < l.Ruler.Left+l.Ruler.Width {
			return Hit{Region: RegionRuler}
		}
		return Hit{}
	}
	idx := y - l.Top - 1
	if idx < 0 || idx >= len(l.Lanes) {
		return Hit{}
	}
	lane := l.Lanes[idx]
	if x < l.Ruler.Left {
		return Hit{Region: RegionHeader, Track: lane.Track}
	}
	if x >= l.Ruler.Left+l.Ruler.Width {
		return Hit{}
	}
	for i := len(lane.Clips) - 1; i >= 0; i-- {
		b := lane.Clips[i]
		from, to := l.Visible(b)
		if x < from || x >= to {
			continue
		}
		hit := Hit{Region: RegionClip, Track: lane.Track, Clip: b.Clip, Offset: x - b.X, Width: b.W}
		if b.W >= 3 {
			switch hit.Offset {
			case 0:
				hit.Region = RegionLeftEdge
			case b.W - 1:
				hit.Region = RegionRightEdge
			}
		}
		return hit
	}
	return Hit{Region: RegionLane, Track: lane.Track}
}
