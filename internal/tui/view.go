package tui

import (
	"fmt"
	"strings"

	"github.com/aschmelyun/robomovie/internal/composition"
	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func (m Model) View() string {
	if m.quitting {
		return StyleOutput(m.statuses)
	}
	if m.width == 0 {
		return m.spinner.View() + "Loading editor..."
	}

	if m.mode == modeScenes {
		return m.titleView() + "\n" + m.scenes.View()
	}

	sections := []string{
		m.titleView(),
		m.previewView(),
		m.transportView(),
	}
	if !m.ed.tr.Fullscreen() {
		sections = append(sections, m.timelineView())
	}
	if m.mode == modeRename || m.mode == modeContent || m.mode == modeTrackName {
		sections = append(sections, m.input.View())
	}
	if notes := m.notificationsView(); notes != "" {
		sections = append(sections, notes)
	}
	sections = append(sections, m.help.View(editorKeys))
	if m.errorMsg != "" {
		sections = append(sections, strings.TrimSuffix(StyleOutput(m.statuses), "\n"))
	}
	return strings.Join(sections, "\n")
}

func (m Model) titleView() string {
	title := BulletStyle.Render("┌") + TitleStyle.Render(m.ed.project.Title)
	if scene, ok := m.ed.library.Selected(); ok {
		title += DimTextStyle.Render("  " + scene.Label())
	}
	if m.ed.dirty {
		title += TextStyle.Render(" •")
	}
	return title
}

// previewView draws the letterboxed composition frame at the playhead.
func (m Model) previewView() string {
	cols, rows := m.ed.surface.Size()
	v := m.ed.surface.View(m.ed.store.Tracks(), m.ed.tr)
	lines := screenLines(v)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteString("\n")
		}
		if y < v.Rect.Y || y >= v.Rect.Y+v.Rect.H {
			b.WriteString(LetterboxStyle.Render(strings.Repeat(" ", cols)))
			continue
		}
		line := ""
		if i := y - v.Rect.Y - (v.Rect.H-len(lines))/2; i >= 0 && i < len(lines) {
			line = lines[i]
		}
		line = runewidth.Truncate(line, v.Rect.W, "…")
		pad := v.Rect.W - runewidth.StringWidth(line)
		line = strings.Repeat(" ", pad/2) + line + strings.Repeat(" ", pad-pad/2)

		b.WriteString(LetterboxStyle.Render(strings.Repeat(" ", v.Rect.X)))
		b.WriteString(ScreenStyle.Render(line))
		b.WriteString(LetterboxStyle.Render(strings.Repeat(" ", max(cols-v.Rect.X-v.Rect.W, 0))))
	}
	return b.String()
}

// screenLines is the text shown inside the preview: the active video, any
// titles and the audible clips with their gain.
func screenLines(v composition.View) []string {
	switch {
	case v.Failed:
		return []string{"Media failed to load"}
	case v.Busy:
		return []string{"Loading..."}
	}
	var lines []string
	f := v.Frame
	if f.Video != nil {
		lines = append(lines, "▣ "+f.Video.Name, f.Video.Source())
	} else if v.Media.VideoURL != "" && f.Empty() {
		lines = append(lines, "▣ "+v.Media.VideoURL)
	}
	for _, t := range f.Text {
		if body, ok := t.Body.(timeline.TextBody); ok {
			lines = append(lines, "“"+body.Content+"”")
		}
	}
	for _, a := range f.Audio {
		lines = append(lines, fmt.Sprintf("♪ %s %.0f%%", a.Clip.Name, a.Gain*100))
	}
	if len(lines) == 0 {
		lines = append(lines, "No clips at "+v.Timecode)
	}
	return lines
}

func (m Model) transportView() string {
	tr := m.ed.tr
	state := "▶"
	if tr.Playing() {
		state = "❚❚"
	}
	volume := fmt.Sprintf("vol %.0f%%", tr.Volume()*100)
	if tr.Muted() {
		volume = "muted"
	}
	parts := []string{
		TitleStyle.Render(state),
		TextStyle.Render(tr.Timecode()),
		DimTextStyle.Render(fmt.Sprintf("frame %d/%d", tr.Frame(), tr.TotalFrames())),
		DimTextStyle.Render(fmt.Sprintf("%gx", tr.Rate())),
		DimTextStyle.Render(volume),
	}
	if m.busy() {
		parts = append(parts, m.spinner.View())
	}
	if tr.Media().Failed {
		parts = append(parts, ErrorStyle.Render("media error"))
	}
	return strings.Join(parts, " ")
}

// notificationsView stacks the live notifications, oldest first. Items in
// their fade-out window are dimmed.
func (m Model) notificationsView() string {
	items := m.ed.notes.Items()
	if len(items) == 0 {
		return ""
	}
	now := m.ed.now()
	lines := make([]string, len(items))
	for i, item := range items {
		bullet := "├"
		if i == len(items)-1 {
			bullet = "└"
		}
		style := SuccessStyle
		if item.Closing(now) {
			style = DimTextStyle
		}
		lines[i] = BulletStyle.Render(bullet) + style.Render(item.Message)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
