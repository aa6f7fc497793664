// Package composition is the render side of the editor: where the video
// sits inside its container, what plays at a given time, and how a
// composition payload seeds the timeline.
package composition

import "math"

// DefaultAspect is the composition's width over height.
const DefaultAspect = 16.0 / 9.0

// CellAspect is a terminal cell's width over its height.
const CellAspect = 0.5

type Rect struct {
	X, Y, W, H float64
}

// Fit returns the largest rectangle of the given aspect that fits in the
// container, centred on the unconstrained axis.
func Fit(containerW, containerH, aspect float64) Rect {
	if aspect <= 0 {
		aspect = DefaultAspect
	}
	if containerW <= 0 || containerH <= 0 {
		return Rect{}
	}
	if containerW/containerH > aspect {
		h := containerH
		w := h * aspect
		return Rect{X: (containerW - w) / 2, W: w, H: h}
	}
	w := containerW
	h := w / aspect
	return Rect{Y: (containerH - h) / 2, W: w, H: h}
}

type CellRect struct {
	X, Y, W, H int
}

// FitCells is Fit for a container measured in terminal cells, which are
// about twice as tall as they are wide.
func FitCells(cols, rows int, aspect float64) CellRect {
	r := Fit(float64(cols)*CellAspect, float64(rows), aspect)
	return CellRect{
		X: int(math.Round(r.X / CellAspect)),
		Y: int(math.Round(r.Y)),
		W: int(math.Round(r.W / CellAspect)),
		H: int(math.Round(r.H)),
	}
}
