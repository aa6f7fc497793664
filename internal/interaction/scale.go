package interaction

import "math"

// DefaultCellsPerSecond is the horizontal scale at zoom 1.
const DefaultCellsPerSecond = 4

// Scale converts between terminal cells and seconds. Both the ruler and
// clip edge drags follow the zoom unless FixedDragCellsPerSecond is set,
// in which case edge drags use that fixed rate.
type Scale struct {
	BaseCellsPerSecond      float64
	FixedDragCellsPerSecond float64
}

func (s Scale) CellsPerSecond(zoom float64) float64 {
	base := s.BaseCellsPerSecond
	if base <= 0 {
		base = DefaultCellsPerSecond
	}
	if zoom <= 0 {
		zoom = 1
	}
	return base * zoom
}

func (s Scale) DragCellsPerSecond(zoom float64) float64 {
	if s.FixedDragCellsPerSecond > 0 {
		return s.FixedDragCellsPerSecond
	}
	return s.CellsPerSecond(zoom)
}

func (s Scale) TimeToCell(seconds, zoom float64) int {
	return int(math.Round(seconds * s.CellsPerSecond(zoom)))
}

func (s Scale) CellToTime(cells int, zoom float64) float64 {
	return float64(cells) / s.CellsPerSecond(zoom)
}

// FrameAtCell is the frame under column x of a ruler whose first column
// is left.
func (s Scale) FrameAtCell(x, left int, zoom float64, fps int) int {
	return int(math.Round(s.CellToTime(x-left, zoom) * float64(fps)))
}

// SplitTime maps cell offset x inside a clip drawn width cells wide to a
// time within the clip.
func SplitTime(start, end float64, x, width int) float64 {
	if width <= 0 {
		return start
	}
	return start + float64(x)/float64(width)*(end-start)
}
