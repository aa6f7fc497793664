package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type sceneItem struct {
	scene    media.Scene
	status   string
	selected bool
}

func (i sceneItem) FilterValue() string { return i.scene.Label() }

type sceneDelegate struct{}

func (d sceneDelegate) Height() int                             { return 2 }
func (d sceneDelegate) Spacing() int                            { return 0 }
func (d sceneDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d sceneDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(sceneItem)
	if !ok {
		return
	}

	checkbox := "☐"
	if i.selected {
		checkbox = "◼"
	}

	statusLine := TimestampStyle.Render(i.status)
	str := fmt.Sprintf("%s %s", checkbox, i.scene.Label())

	fn := ItemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return SelectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprintf(w, "%s\n%s\n", statusLine, fn(str))
}

// mediaStatus summarises a scene's generated media for the picker.
func mediaStatus(m media.SceneMedia, ok bool) string {
	if !ok {
		return "no media"
	}
	return fmt.Sprintf("video %s · audio %s", sourceStatus(m.Video), sourceStatus(m.Audio))
}

func sourceStatus(s media.Source) string {
	if s.Status == "" {
		return string(media.StatusPending)
	}
	if s.Status == media.StatusFailed && s.Err != "" {
		return fmt.Sprintf("%s (%s)", s.Status, s.Err)
	}
	return string(s.Status)
}

func sceneItems(scenes []media.Scene, lib *media.Library) []list.Item {
	current, _ := lib.Selected()
	items := make([]list.Item, len(scenes))
	for i, scene := range scenes {
		items[i] = sceneItem{
			scene:    scene,
			status:   mediaStatus(lib.Status(scene.ID)),
			selected: scene.ID == current.ID,
		}
	}
	return items
}

func newSceneList(items []list.Item, width, height int) list.Model {
	l := list.New(items, sceneDelegate{}, width, height)
	l.Title = "Scenes"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)
	l.SetShowPagination(false)

	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "open scene"),
			),
			key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "back"),
			),
		}
	}
	return l
}
