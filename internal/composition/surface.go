package composition

import (
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/aschmelyun/robomovie/internal/transport"
)

// View is everything the preview panel draws for one render.
type View struct {
	Rect     CellRect
	Frame    Frame
	Media    media.Resolved
	Timecode string
	Busy     bool
	Failed   bool
}

// Surface keeps the letterboxed preview rectangle in step with its
// container and pairs it with the selected scene's media.
type Surface struct {
	aspect     float64
	cols, rows int
	rect       CellRect
	media      media.Resolved
}

func NewSurface(aspect float64) *Surface {
	if aspect <= 0 {
		aspect = DefaultAspect
	}
	return &Surface{aspect: aspect}
}

// Resize recomputes the preview rectangle for a new container size and
// reports whether it changed.
func (s *Surface) Resize(cols, rows int) bool {
	if cols == s.cols && rows == s.rows {
		return false
	}
	s.cols, s.rows = cols, rows
	rect := FitCells(cols, rows, s.aspect)
	changed := rect != s.rect
	s.rect = rect
	return changed
}

func (s *Surface) SetAspect(aspect float64) {
	if aspect <= 0 {
		aspect = DefaultAspect
	}
	s.aspect = aspect
	s.rect = FitCells(s.cols, s.rows, aspect)
}

func (s *Surface) Rect() CellRect            { return s.rect }
func (s *Surface) Media() media.Resolved     { return s.media }
func (s *Surface) SetMedia(m media.Resolved) { s.media = m }
func (s *Surface) Size() (cols, rows int)    { return s.cols, s.rows }
func (s *Surface) Aspect() float64           { return s.aspect }

// View resolves the composition at the transport's playhead.
func (s *Surface) View(tracks []timeline.Track, tr *transport.Transport) View {
	m := tr.Media()
	return View{
		Rect:     s.rect,
		Frame:    Resolve(tracks, tr.Seconds(), tr.EffectiveVolume()),
		Media:    s.media,
		Timecode: tr.Timecode(),
		Busy:     m.Busy(),
		Failed:   m.Failed,
	}
}
