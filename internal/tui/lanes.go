package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/aschmelyun/robomovie/internal/interaction"
	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	headerRows    = 1
	transportRows = 1
)

// previewRows is the height of the preview panel. Fullscreen gives it
// everything but the title and transport lines.
func (m Model) previewRows() int {
	if m.ed.tr.Fullscreen() {
		return max(m.height-headerRows-transportRows, 3)
	}
	return min(max(m.height/3, 3), 14)
}

// layout places the ruler directly below the transport line. View and the
// mouse handler both use it so hit tests match what is drawn.
func (m Model) layout() interaction.Layout {
	top := headerRows + m.previewRows() + transportRows
	return interaction.NewLayout(m.ed.store.Snapshot(), m.ed.scale, top, m.width)
}

// cell is one column of a lane. owner indexes the run styles; wide runes
// leave a zero rune in the column they spill into.
type cell struct {
	r     rune
	owner int
}

type canvas struct {
	cells  []cell
	styles []lipgloss.Style
}

func newCanvas(width int) *canvas {
	c := &canvas{cells: make([]cell, width), styles: []lipgloss.Style{lipgloss.NewStyle()}}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) style(s lipgloss.Style) int {
	c.styles = append(c.styles, s)
	return len(c.styles) - 1
}

// text writes s from column x, clipped to [from, to).
func (c *canvas) text(x, from, to int, s string, owner int) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x >= from && x+w <= to && x >= 0 && x+w <= len(c.cells) {
			c.cells[x] = cell{r: r, owner: owner}
			for i := 1; i < w; i++ {
				c.cells[x+i] = cell{owner: owner}
			}
		}
		x += w
	}
}

func (c *canvas) fill(from, to int, owner int) {
	for x := max(from, 0); x < min(to, len(c.cells)); x++ {
		c.cells[x] = cell{r: ' ', owner: owner}
	}
}

func (c *canvas) render() string {
	var b strings.Builder
	var run strings.Builder
	owner := -1
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(c.styles[owner].Render(run.String()))
			run.Reset()
		}
	}
	for _, cl := range c.cells {
		if cl.owner != owner {
			flush()
			owner = cl.owner
		}
		if cl.r != 0 {
			run.WriteRune(cl.r)
		}
	}
	flush()
	return b.String()
}

// playheadCol is the ruler column of the playhead, or -1 when scrolled
// out of view.
func (m Model) playheadCol(l interaction.Layout) int {
	col := l.Scale.TimeToCell(m.ed.tr.Seconds()-l.Ruler.Scroll, l.Zoom)
	if col < 0 || col >= l.Ruler.Width {
		return -1
	}
	return col
}

func (m Model) rulerView(l interaction.Layout) string {
	badge := fmt.Sprintf(" %.0f%%", l.Zoom*100)
	if m.ed.store.SnapEnabled() {
		badge += fmt.Sprintf(" ⌗%d", m.ed.store.GridSize())
	}
	header := BadgeStyle.Render(runewidth.FillRight(badge, interaction.HeaderWidth-1)) + " "

	c := newCanvas(l.Ruler.Width)
	tick := c.style(DimTextStyle)
	head := c.style(PlayheadStyle)

	// One tick per second, labelled while the labels fit.
	cps := l.Scale.CellsPerSecond(l.Zoom)
	every := max(1, int(math.Ceil(6/cps)))
	first := int(math.Ceil(l.Ruler.Scroll))
	for s := first; ; s++ {
		col := l.Scale.TimeToCell(float64(s)-l.Ruler.Scroll, l.Zoom)
		if col >= l.Ruler.Width {
			break
		}
		if col < 0 {
			continue
		}
		if s%every == 0 {
			c.text(col, 0, l.Ruler.Width, fmt.Sprintf("|%ds", s), tick)
		} else {
			c.text(col, 0, l.Ruler.Width, "·", tick)
		}
	}
	if col := m.playheadCol(l); col >= 0 {
		c.text(col, 0, l.Ruler.Width, "▼", head)
	}
	return header + c.render()
}

func trackHeader(t timeline.Track, selected bool) string {
	flags := ""
	if t.Locked {
		flags += "⊘"
	}
	if !t.Visible {
		flags += "◌"
	}
	if t.Kind == timeline.KindAudio {
		flags += fmt.Sprintf("%.0f%%", t.Volume*100)
	}
	nameWidth := interaction.HeaderWidth - 3 - runewidth.StringWidth(flags) - 1
	name := runewidth.FillRight(runewidth.Truncate(t.Name, max(nameWidth, 1), "…"), max(nameWidth, 1))
	label := fmt.Sprintf("%s %s %s ", kindGlyphs[t.Kind], name, flags)
	label = runewidth.FillRight(runewidth.Truncate(label, interaction.HeaderWidth, ""), interaction.HeaderWidth)

	switch {
	case selected:
		return SelectedItemStyle.Render(label)
	case !t.Visible:
		return DimTextStyle.Render(label)
	}
	return TextStyle.Render(label)
}

func clipLabel(c timeline.Clip) string {
	if body, ok := c.Body.(timeline.TextBody); ok && body.Content != "" {
		return body.Content
	}
	return c.Name
}

// laneView draws one track row: its header, then each clip as a coloured
// box with bracket handles when wide enough, then the playhead.
func (m Model) laneView(l interaction.Layout, lane interaction.Lane, playhead int) string {
	selectedClip := m.ed.store.SelectedClipID()
	header := trackHeader(lane.Track, lane.Track.ID == m.ed.store.SelectedTrackID())

	c := newCanvas(l.Ruler.Width)
	base := clipStyles[lane.Track.Kind]
	if lane.Track.Locked || !lane.Track.Visible {
		base = LockedStyle
	}
	for _, box := range lane.Clips {
		from, to := l.Visible(box)
		if from >= to {
			continue
		}
		style := base
		if box.Clip.ID == selectedClip {
			style = SelectedStyle
		}
		owner := c.style(style)
		from, to, x := from-l.Ruler.Left, to-l.Ruler.Left, box.X-l.Ruler.Left
		c.fill(from, to, owner)
		if box.W >= 3 {
			c.text(x, from, to, "▏", owner)
			c.text(x+box.W-1, from, to, "▕", owner)
			c.text(x+1, from, to, runewidth.Truncate(clipLabel(box.Clip), box.W-2, "…"), owner)
		} else {
			c.text(x, from, to, runewidth.Truncate(clipLabel(box.Clip), box.W, ""), owner)
		}
	}
	if playhead >= 0 {
		c.text(playhead, 0, l.Ruler.Width, "│", c.style(PlayheadStyle))
	}
	return header + c.render()
}

func (m Model) timelineView() string {
	l := m.layout()
	rows := []string{m.rulerView(l)}
	playhead := m.playheadCol(l)
	for _, lane := range l.Lanes {
		rows = append(rows, m.laneView(l, lane, playhead))
	}
	if len(l.Lanes) == 0 {
		rows = append(rows, DimTextStyle.Render("  No tracks. Press v, a or t to add one."))
	}
	return strings.Join(rows, "\n")
}
