// Package keys maps key presses to editing and transport actions while the
// editor view is mounted.
package keys

import (
	"fmt"
	"math"
	"time"

	"github.com/aschmelyun/robomovie/internal/events"
	"github.com/aschmelyun/robomovie/internal/interaction"
	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/aschmelyun/robomovie/internal/transport"
	"go.uber.org/zap"
)

const (
	MinZoom    = 0.5
	MaxZoom    = 2.0
	ZoomStep   = 0.5
	VolumeStep = 0.1
	ShiftStep  = 10
)

// Result is the outcome of a consumed key. Action is the short
// notification text, empty when there is nothing to announce. Started is
// set when playback began and Token identifies the new frame loop.
type Result struct {
	Action  string
	Started bool
	Token   transport.Token
}

// Binding is one row of the key table.
type Binding struct {
	Key   string
	Shift bool
	Mod   bool
	Help  string
	run   func(d *Dispatcher, now time.Time) Result
}

func (b Binding) matches(ev Event) bool {
	return b.Key == ev.Key && b.Shift == ev.Shift && b.Mod == ev.Mod()
}

// Dispatcher owns the single keydown listener of an editor view.
type Dispatcher struct {
	guard *interaction.Guard
	tr    *transport.Transport

	// OnAction receives every consumed key's result when mounted on a bus.
	OnAction func(Result)
	// Now is the clock used for play starts. Defaults to time.Now.
	Now func() time.Time

	inputFocused bool
	bindings     []Binding
}

func NewDispatcher(guard *interaction.Guard, tr *transport.Transport) *Dispatcher {
	return &Dispatcher{
		guard:    guard,
		tr:       tr,
		Now:      time.Now,
		bindings: table,
	}
}

func (d *Dispatcher) Bindings() []Binding { return d.bindings }

// SetInputFocused suspends dispatch while a text field has focus so typed
// characters reach the field.
func (d *Dispatcher) SetInputFocused(focused bool) { d.inputFocused = focused }

func (d *Dispatcher) InputFocused() bool { return d.inputFocused }

// Handle runs the binding for ev. It reports false for unmapped keys and
// while an input has focus; the caller should then let the key through.
func (d *Dispatcher) Handle(ev Event, now time.Time) (Result, bool) {
	if d.inputFocused {
		return Result{}, false
	}
	for _, b := range d.bindings {
		if b.matches(ev) {
			res := b.run(d, now)
			logger.Debug("key handled", zap.String("key", ev.String()), zap.String("action", res.Action))
			return res, true
		}
	}
	return Result{}, false
}

// Mount attaches the dispatcher to bus and returns the matching unmount.
// Consumed keys are marked handled on the event.
func (d *Dispatcher) Mount(bus *events.Bus) (unmount func()) {
	return bus.On(events.KeyDown, func(e *events.Event) {
		res, ok := d.Handle(Event{Key: e.Key, Shift: e.Shift, Ctrl: e.Ctrl, Meta: e.Meta}, d.Now())
		if !ok {
			return
		}
		e.PreventDefault()
		if d.OnAction != nil {
			d.OnAction(res)
		}
	})
}

func (d *Dispatcher) step(delta int, action string) Result {
	d.tr.StepFrames(delta)
	return Result{Action: action}
}

func (d *Dispatcher) volume(delta float64) Result {
	v := d.tr.SetVolume(math.Round((d.tr.Volume()+delta)*100) / 100)
	return Result{Action: fmt.Sprintf("Volume: %.0f%%", v*100)}
}

func (d *Dispatcher) zoom(z float64) Result {
	z = min(max(z, MinZoom), MaxZoom)
	d.guard.Store().SetZoom(z)
	return Result{Action: fmt.Sprintf("Zoom: %.0f%%", z*100)}
}

func (d *Dispatcher) rate(dir int) Result {
	return Result{Action: fmt.Sprintf("Speed: %gx", d.tr.CycleRate(dir))}
}

func (d *Dispatcher) deleteSelected() Result {
	id := d.guard.Store().SelectedClipID()
	if id == "" {
		return Result{}
	}
	if err := d.guard.RemoveClip(id); err != nil {
		return Result{}
	}
	return Result{Action: "Deleted clip"}
}

func (d *Dispatcher) splitSelected() Result {
	id := d.guard.Store().SelectedClipID()
	if id == "" {
		return Result{}
	}
	if _, err := d.guard.Split(id, d.tr.Seconds()); err != nil {
		return Result{}
	}
	return Result{Action: "Split clip"}
}

func (d *Dispatcher) togglePlayback(now time.Time) Result {
	tok, playing := d.tr.TogglePlayback(now)
	if playing {
		return Result{Action: "Playing", Started: true, Token: tok}
	}
	return Result{Action: "Paused"}
}

var table = []Binding{
	{Key: " ", Help: "play/pause", run: func(d *Dispatcher, now time.Time) Result { return d.togglePlayback(now) }},
	{Key: "ArrowLeft", Help: "previous frame", run: func(d *Dispatcher, _ time.Time) Result { return d.step(-1, "Previous frame") }},
	{Key: "ArrowLeft", Shift: true, Help: "back 10 frames", run: func(d *Dispatcher, _ time.Time) Result {
		return d.step(-ShiftStep, fmt.Sprintf("Moved back %d frames", ShiftStep))
	}},
	{Key: "ArrowRight", Help: "next frame", run: func(d *Dispatcher, _ time.Time) Result { return d.step(1, "Next frame") }},
	{Key: "ArrowRight", Shift: true, Help: "forward 10 frames", run: func(d *Dispatcher, _ time.Time) Result {
		return d.step(ShiftStep, fmt.Sprintf("Moved forward %d frames", ShiftStep))
	}},
	{Key: "Home", Help: "jump to start", run: func(d *Dispatcher, _ time.Time) Result {
		d.tr.SetFrame(0)
		return Result{Action: "Jumped to start"}
	}},
	{Key: "End", Help: "jump to end", run: func(d *Dispatcher, _ time.Time) Result {
		d.tr.SetFrame(d.tr.TotalFrames())
		return Result{Action: "Jumped to end"}
	}},
	{Key: "ArrowUp", Help: "volume up", run: func(d *Dispatcher, _ time.Time) Result { return d.volume(VolumeStep) }},
	{Key: "ArrowDown", Help: "volume down", run: func(d *Dispatcher, _ time.Time) Result { return d.volume(-VolumeStep) }},
	{Key: "[", Help: "slower", run: func(d *Dispatcher, _ time.Time) Result { return d.rate(-1) }},
	{Key: "]", Help: "faster", run: func(d *Dispatcher, _ time.Time) Result { return d.rate(1) }},
	{Key: "Delete", Help: "delete clip", run: func(d *Dispatcher, _ time.Time) Result { return d.deleteSelected() }},
	{Key: "Backspace", Help: "delete clip", run: func(d *Dispatcher, _ time.Time) Result { return d.deleteSelected() }},
	{Key: "s", Mod: true, Help: "split at playhead", run: func(d *Dispatcher, _ time.Time) Result { return d.splitSelected() }},
	{Key: "-", Mod: true, Help: "zoom out", run: func(d *Dispatcher, _ time.Time) Result {
		return d.zoom(d.guard.Store().Zoom() - ZoomStep)
	}},
	{Key: "=", Mod: true, Help: "zoom in", run: func(d *Dispatcher, _ time.Time) Result {
		return d.zoom(d.guard.Store().Zoom() + ZoomStep)
	}},
	{Key: "0", Mod: true, Help: "reset zoom", run: func(d *Dispatcher, _ time.Time) Result { return d.zoom(1) }},
}
