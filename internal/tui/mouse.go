package tui

import (
	"github.com/aschmelyun/robomovie/internal/events"
	"github.com/aschmelyun/robomovie/internal/interaction"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ed := m.ed
	if m.mode != modeTimeline {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		ed.bus.Emit(&events.Event{Type: events.PointerMove, X: msg.X, Y: msg.Y})
		return m, nil

	case tea.MouseActionRelease:
		ed.bus.Emit(&events.Event{Type: events.PointerUp, X: msg.X, Y: msg.Y})
		ed.drag = nil
		return m, nil

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll(-scrollStep)
		case tea.MouseButtonWheelDown:
			m.scroll(scrollStep)
		case tea.MouseButtonLeft:
			return m.press(msg.X, msg.Y)
		}
	}
	return m, nil
}

// press starts whatever gesture lies under the pointer: a scrub on the
// ruler, a resize on a clip edge, selection or a double-click split on a
// clip body, track selection elsewhere in a lane.
func (m Model) press(x, y int) (tea.Model, tea.Cmd) {
	ed := m.ed
	if ed.tr.Fullscreen() {
		return m, nil
	}
	if ed.drag != nil {
		ed.drag.Cancel()
		ed.drag = nil
	}

	l := m.layout()
	hit := l.HitTest(x, y)
	switch hit.Region {
	case interaction.RegionRuler:
		ed.drag = interaction.BeginScrub(ed.bus, ed.tr, l.Scale, l.Zoom, l.Ruler, x)

	case interaction.RegionLeftEdge, interaction.RegionRightEdge:
		edge := interaction.EdgeLeft
		if hit.Region == interaction.RegionRightEdge {
			edge = interaction.EdgeRight
		}
		ed.clicks.Reset()
		ed.drag = interaction.BeginResize(ed.bus, ed.guard, l.Scale, l.Zoom, ed.tr.FPS(), edge, hit.Clip, x)

	case interaction.RegionClip:
		if ed.clicks.Click(hit.Clip.ID, ed.now()) {
			if _, err := ed.guard.SplitAtOffset(hit.Clip, hit.Offset, hit.Width); err != nil {
				return m, m.notify(refusal(err))
			}
			return m, m.notify("Split clip")
		}
		_ = ed.guard.ToggleSelect(hit.Clip.ID)

	case interaction.RegionHeader, interaction.RegionLane:
		ed.clicks.Reset()
		_ = ed.store.SelectTrack(hit.Track.ID)
	}
	return m, nil
}
