package interaction

import (
	"github.com/aschmelyun/robomovie/internal/events"
	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/aschmelyun/robomovie/internal/transport"
)

type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
)

func (e Edge) String() string {
	if e == EdgeLeft {
		return "left"
	}
	return "right"
}

// gesture owns the move/up listener pair of one drag. The pair is attached
// on begin and detached on pointer up or Cancel, whichever comes first.
type gesture struct {
	offs []func()
}

func (g *gesture) attach(bus *events.Bus, move, up events.Handler) {
	g.offs = []func(){
		bus.On(events.PointerMove, move),
		bus.On(events.PointerUp, func(ev *events.Event) {
			if up != nil {
				up(ev)
			}
			g.detach()
		}),
	}
}

func (g *gesture) detach() {
	for _, off := range g.offs {
		off()
	}
	g.offs = nil
}

func (g *gesture) Active() bool { return len(g.offs) > 0 }

// Cancel ends the gesture without waiting for pointer up. Edits already
// applied stay applied.
func (g *gesture) Cancel() { g.detach() }

// ResizeDrag moves one edge of a clip while the pointer is held.
type ResizeDrag struct {
	gesture
	guard   *Guard
	scale   Scale
	zoom    float64
	fps     int
	edge    Edge
	clipID  string
	originX int
	start   float64
	end     float64
}

// BeginResize captures the clip's bounds and the pointer column. Moves
// are measured against those captured values, not the live clip.
func BeginResize(bus *events.Bus, guard *Guard, scale Scale, zoom float64, fps int, edge Edge, clip timeline.Clip, x int) *ResizeDrag {
	d := &ResizeDrag{
		guard:   guard,
		scale:   scale,
		zoom:    zoom,
		fps:     fps,
		edge:    edge,
		clipID:  clip.ID,
		originX: x,
		start:   clip.Start,
		end:     clip.End,
	}
	d.attach(bus, d.move, nil)
	return d
}

func (d *ResizeDrag) ClipID() string { return d.clipID }
func (d *ResizeDrag) Edge() Edge     { return d.edge }

func (d *ResizeDrag) move(ev *events.Event) {
	delta := float64(ev.X-d.originX) / d.scale.DragCellsPerSecond(d.zoom)
	store := d.guard.Store()

	switch d.edge {
	case EdgeLeft:
		start := store.Snap(max(0, d.start+delta), d.fps)
		if start >= d.end {
			return
		}
		_ = d.guard.Resize(d.clipID, start, d.end)
	case EdgeRight:
		end := store.Snap(max(d.start, d.end+delta), d.fps)
		_ = d.guard.Resize(d.clipID, d.start, end)
	}
}

// Ruler is the time ruler's placement: its first column, its width in
// columns, and the time shown at the first column.
type Ruler struct {
	Left   int
	Width  int
	Scroll float64
}

// ScrubDrag moves the playhead while the pointer is held on the ruler.
type ScrubDrag struct {
	gesture
	tr    *transport.Transport
	scale Scale
	zoom  float64
	ruler Ruler
}

// BeginScrub seeks to the pressed column right away and keeps following
// the pointer until release.
func BeginScrub(bus *events.Bus, tr *transport.Transport, scale Scale, zoom float64, ruler Ruler, x int) *ScrubDrag {
	d := &ScrubDrag{tr: tr, scale: scale, zoom: zoom, ruler: ruler}
	d.seek(x)
	d.attach(bus, func(ev *events.Event) { d.seek(ev.X) }, nil)
	return d
}

func (d *ScrubDrag) seek(x int) {
	x = min(max(x, d.ruler.Left), d.ruler.Left+max(d.ruler.Width-1, 0))
	offset := d.tr.SecondsToFrame(d.ruler.Scroll)
	d.tr.SetFrame(offset + d.scale.FrameAtCell(x, d.ruler.Left, d.zoom, d.tr.FPS()))
}
