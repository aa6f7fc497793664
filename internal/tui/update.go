package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/aschmelyun/robomovie/internal/events"
	"github.com/aschmelyun/robomovie/internal/keys"
	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/notify"
	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/aschmelyun/robomovie/internal/transport"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	// newClipSeconds is the length of a clip added at the playhead.
	newClipSeconds = 5.0
	// scrollStep is how far the view moves per key or wheel notch, in seconds.
	scrollStep      = 1.0
	trackVolumeStep = 0.1
)

var kindLabels = map[timeline.Kind]string{
	timeline.KindVideo: "Video",
	timeline.KindAudio: "Audio",
	timeline.KindText:  "Text",
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ed.surface.Resize(m.width, m.previewRows())
		m.scenes.SetSize(msg.Width, max(msg.Height-2, 4))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case frameTickMsg:
		if m.ed.tr.Tick(msg.token, msg.at) {
			return m, frameTickCmd(msg.token, m.ed.tr.FPS())
		}
		return m, nil

	case notifyTickMsg:
		m.ed.notes.Expire(time.Time(msg))
		return m, m.ed.notifyCmd()

	case mediaResolvedMsg:
		if msg.err != nil {
			m.ed.tr.HandleMedia(transport.MediaError)
			return m.Update(errorMsg{err: msg.err})
		}
		m.ed.surface.SetMedia(msg.media)
		m.ed.tr.HandleMedia(transport.MediaLoadedData)
		if !msg.reseed {
			return m, nil
		}
		return m, m.reseed(msg)

	case projectChangedMsg:
		return m.reload(msg)

	case projectSavedMsg:
		m.ed.dirty = false
		m.ed.saved = msg.stamp
		return m, m.notify("Saved " + msg.path)

	case previewDoneMsg:
		if msg.err != nil {
			m.ed.tr.HandleMedia(transport.MediaError)
			return m.Update(errorMsg{err: msg.err})
		}
		m.ed.tr.HandleMedia(transport.MediaEnded)
		return m, nil

	case copiedMsg:
		return m, m.notify("Copied " + msg.text)

	case errorMsg:
		logger.Warn("editor error", zap.Error(msg.err))
		m.statuses = append(m.statuses, msg.err.Error())
		m.errorMsg = msg.err.Error()
		return m, m.notify(msg.err.Error())

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) busy() bool { return m.ed.tr.Media().Busy() }

// notify shows a message and schedules its removal.
func (m Model) notify(text string) tea.Cmd {
	m.ed.notes.Show(text, m.ed.now())
	return m.ed.notifyCmd()
}

// dismiss closes the newest notification early.
func (m Model) dismiss() {
	if items := m.ed.notes.Items(); len(items) > 0 {
		m.ed.notes.Hide(items[len(items)-1].ID)
	}
}

// notifyCmd wakes the model when the next notification starts closing or
// expires.
func (ed *editor) notifyCmd() tea.Cmd {
	next, ok := ed.notes.NextExpiry()
	if !ok {
		return nil
	}
	now := ed.now()
	at := next.Add(-notify.FadeOut)
	if !at.After(now) {
		at = next
	}
	return notifyTickCmd(at.Sub(now))
}

// drainResults turns the dispatcher's results into notifications and
// starts the frame loop for a fresh play.
func (m Model) drainResults() tea.Cmd {
	var cmds []tea.Cmd
	for _, res := range m.ed.results {
		if res.Action != "" {
			cmds = append(cmds, m.notify(res.Action))
		}
		if res.Started {
			cmds = append(cmds, frameTickCmd(res.Token, m.ed.tr.FPS()))
		}
	}
	m.ed.results = m.ed.results[:0]
	return tea.Batch(cmds...)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeRename, modeContent, modeTrackName:
		return m.updateInput(msg)
	case modeScenes:
		return m.updateScenes(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()
	}

	ev := keys.Parse(msg.String())
	if m.ed.bus.Emit(&events.Event{Type: events.KeyDown, Key: ev.Key, Shift: ev.Shift, Ctrl: ev.Ctrl, Meta: ev.Meta}) {
		return m, m.drainResults()
	}
	return m.command(msg.String())
}

// command handles the editor keys the dispatcher does not own.
func (m Model) command(k string) (tea.Model, tea.Cmd) {
	ed := m.ed
	switch k {
	case "v":
		return m, m.addTrack(timeline.KindVideo)
	case "a":
		return m, m.addTrack(timeline.KindAudio)
	case "t":
		return m, m.addTrack(timeline.KindText)
	case "n":
		return m, m.addClip()
	case "tab":
		return m, m.nextClip()
	case "r":
		return m.beginEdit(modeRename)
	case "R":
		return m.beginEdit(modeTrackName)
	case "x":
		m.dismiss()
		return m, nil
	case "e":
		return m.beginEdit(modeContent)
	case "l":
		return m, m.withTrack(func(t timeline.Track) string {
			_ = ed.store.ToggleTrackLock(t.ID)
			return lo.Ternary(t.Locked, "Unlocked ", "Locked ") + t.Name
		})
	case "h":
		return m, m.withTrack(func(t timeline.Track) string {
			_ = ed.store.ToggleTrackVisibility(t.ID)
			return lo.Ternary(t.Visible, "Hid ", "Showed ") + t.Name
		})
	case "K":
		return m, m.moveTrack(-1)
	case "J":
		return m, m.moveTrack(1)
	case "X":
		return m, m.removeTrack()
	case ",":
		return m, m.trackVolume(-trackVolumeStep)
	case ".":
		return m, m.trackVolume(trackVolumeStep)
	case "m":
		ed.tr.ToggleMute()
		return m, m.notify(lo.Ternary(ed.tr.Muted(), "Muted", "Unmuted"))
	case "f":
		ed.tr.ToggleFullscreen()
		ed.surface.Resize(m.width, m.previewRows())
		return m, m.notify(lo.Ternary(ed.tr.Fullscreen(), "Fullscreen", "Exited fullscreen"))
	case "g":
		ed.store.ToggleSnapToGrid()
		return m, m.notify(fmt.Sprintf("Snap: %s", lo.Ternary(ed.store.SnapEnabled(), "on", "off")))
	case "<":
		m.scroll(-scrollStep)
		return m, nil
	case ">":
		m.scroll(scrollStep)
		return m, nil
	case "o":
		m.scenes.SetItems(sceneItems(ed.project.Scenes, ed.library))
		m.mode = modeScenes
		return m, nil
	case "p":
		return m, m.preview()
	case "y":
		return m, copyCmd(ed.tr.Timecode())
	case "ctrl+w":
		return m, saveProjectCmd(ed.path, ed.snapshot())
	case "?":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case "esc":
		if ed.drag != nil {
			ed.drag.Cancel()
			ed.drag = nil
		}
		_ = ed.store.SelectClip("")
		return m, nil
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Close()
	if m.ed.dirty && m.ed.path != "" {
		m.statuses = append(m.statuses, "Saved project to "+m.ed.path)
		return m, tea.Sequence(saveProjectCmd(m.ed.path, m.ed.snapshot()), tea.Quit)
	}
	return m, tea.Quit
}

// refusal is the notification text for a rejected edit.
func refusal(err error) string {
	switch {
	case errors.Is(err, timeline.ErrLocked):
		return "Track is locked"
	case errors.Is(err, timeline.ErrInvalidRange):
		return "Invalid clip range"
	case errors.Is(err, timeline.ErrKindMismatch):
		return "Wrong track type"
	case errors.Is(err, timeline.ErrNotFound):
		return "Nothing selected"
	}
	return err.Error()
}

func (m Model) withTrack(fn func(timeline.Track) string) tea.Cmd {
	t, ok := m.ed.store.Track(m.ed.store.SelectedTrackID())
	if !ok {
		return m.notify("Select a track first")
	}
	return m.notify(fn(t))
}

func (m Model) addTrack(kind timeline.Kind) tea.Cmd {
	n := lo.CountBy(m.ed.store.Tracks(), func(t timeline.Track) bool { return t.Kind == kind })
	track := m.ed.store.AddTrack(kind, fmt.Sprintf("%s %d", kindLabels[kind], n+1))
	_ = m.ed.store.SelectTrack(track.ID)
	return m.notify("Added " + track.Name)
}

// addClip places a clip at the playhead on the selected track, sourced
// from the scene's media for video and audio tracks.
func (m Model) addClip() tea.Cmd {
	ed := m.ed
	t, ok := ed.store.Track(ed.store.SelectedTrackID())
	if !ok {
		return m.notify("Select a track first")
	}
	start := ed.tr.Seconds()
	spec := timeline.ClipSpec{Start: start, End: start + newClipSeconds}
	switch t.Kind {
	case timeline.KindVideo:
		spec.Source = ed.surface.Media().VideoURL
	case timeline.KindAudio:
		spec.Source = ed.surface.Media().AudioURL
	case timeline.KindText:
		spec.Name = "Title"
		spec.Content = "Title"
	}
	if a, ok := ed.newestAsset(t.Kind); ok {
		spec.Name = a.Name
		spec.Source = a.URL
	}
	clip, err := ed.guard.AddClip(t.ID, spec)
	if err != nil {
		return m.notify(refusal(err))
	}
	_ = ed.store.SelectClip(clip.ID)
	return m.notify("Added clip")
}

// newestAsset is the most recently added shelf asset that fits a track of
// kind k. Images go on video tracks.
func (ed *editor) newestAsset(k timeline.Kind) (media.Asset, bool) {
	a, _, ok := lo.FindLastIndexOf(ed.library.Assets(), func(a media.Asset) bool {
		switch a.Kind {
		case media.AssetVideo, media.AssetImage:
			return k == timeline.KindVideo
		case media.AssetAudio:
			return k == timeline.KindAudio
		}
		return false
	})
	return a, ok
}

// nextClip cycles the selection through every clip in track order.
func (m Model) nextClip() tea.Cmd {
	var ids []string
	for _, t := range m.ed.store.Tracks() {
		for _, c := range t.ByStart() {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	next := ids[(lo.IndexOf(ids, m.ed.store.SelectedClipID())+1)%len(ids)]
	_ = m.ed.store.SelectClip(next)
	return nil
}

func (m Model) moveTrack(dir int) tea.Cmd {
	ed := m.ed
	tracks := ed.store.Tracks()
	_, idx, ok := lo.FindIndexOf(tracks, func(t timeline.Track) bool { return t.ID == ed.store.SelectedTrackID() })
	if !ok {
		return m.notify("Select a track first")
	}
	target := idx + dir
	if target < 0 || target >= len(tracks) {
		return nil
	}
	order := tracks[target].Order
	if dir > 0 {
		order++
	}
	_ = ed.store.ReorderTrack(tracks[idx].ID, order)
	return nil
}

func (m Model) removeTrack() tea.Cmd {
	return m.withTrack(func(t timeline.Track) string {
		if t.Locked {
			return refusal(timeline.ErrLocked)
		}
		_ = m.ed.store.RemoveTrack(t.ID)
		return "Removed " + t.Name
	})
}

func (m Model) trackVolume(delta float64) tea.Cmd {
	return m.withTrack(func(t timeline.Track) string {
		if err := m.ed.guard.SetTrackVolume(t.ID, t.Volume+delta); err != nil {
			return refusal(err)
		}
		t, _ = m.ed.store.Track(t.ID)
		return fmt.Sprintf("%s volume: %.0f%%", t.Name, t.Volume*100)
	})
}

func (m Model) scroll(delta float64) {
	m.ed.store.SetScrollPosition(max(m.ed.store.ScrollPosition()+delta, 0))
}

// preview opens the video under the playhead, or the scene video, in the
// external player.
func (m Model) preview() tea.Cmd {
	ed := m.ed
	player := ed.cfg.MPVPath
	if !CheckDependency(player) {
		return m.notify(player + " is not installed")
	}
	source := ed.surface.Media().VideoURL
	start := ed.tr.Seconds()
	frame := ed.surface.View(ed.store.Tracks(), ed.tr).Frame
	if frame.Video != nil && frame.Video.Source() != "" {
		source = frame.Video.Source()
		start -= frame.Video.Start
	}
	if source == "" {
		return m.notify("Nothing to preview")
	}
	ed.tr.HandleMedia(transport.MediaLoadStart)
	return tea.Batch(
		m.spinner.Tick,
		previewCmd(ed.ctx, player, source, start, ed.tr.Rate(), ed.tr.EffectiveVolume()),
		m.notify("Previewing at "+ed.tr.Timecode()),
	)
}

// beginEdit opens the text input for the selected clip's name or, for
// text clips, its content. The dispatcher is suspended while it is open.
func (m Model) beginEdit(md mode) (tea.Model, tea.Cmd) {
	ed := m.ed
	var id, value string
	switch md {
	case modeTrackName:
		t, ok := ed.store.Track(ed.store.SelectedTrackID())
		if !ok {
			return m, m.notify("Select a track first")
		}
		id, value = t.ID, t.Name
	default:
		clip, ok := ed.store.FindClip(ed.store.SelectedClipID())
		if !ok {
			return m, m.notify("Select a clip first")
		}
		id, value = clip.ID, clip.Name
		if md == modeContent {
			body, isText := clip.Body.(timeline.TextBody)
			if !isText {
				return m, m.notify("Only text clips have content")
			}
			value = body.Content
		}
	}
	m.mode = md
	m.editing = id
	m.input.SetValue(value)
	m.input.CursorEnd()
	ed.keys.SetInputFocused(true)
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) endEdit() Model {
	m.mode = modeTimeline
	m.editing = ""
	m.input.Blur()
	m.ed.keys.SetInputFocused(false)
	return m
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.endEdit(), nil
	case "enter":
		var err error
		value := m.input.Value()
		done := "Updated clip"
		switch m.mode {
		case modeRename:
			err = m.ed.guard.RenameClip(m.editing, value)
		case modeContent:
			err = m.ed.guard.SetClipContent(m.editing, value)
		case modeTrackName:
			err = m.ed.guard.RenameTrack(m.editing, value)
			done = "Renamed track"
		}
		m = m.endEdit()
		if err != nil {
			return m, m.notify(refusal(err))
		}
		return m, m.notify(done)
	}

	// Typed keys still reach the dispatcher, which ignores them while the
	// input has focus.
	ev := keys.Parse(msg.String())
	m.ed.bus.Emit(&events.Event{Type: events.KeyDown, Key: ev.Key, Shift: ev.Shift, Ctrl: ev.Ctrl, Meta: ev.Meta})

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateScenes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.scenes.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.scenes, cmd = m.scenes.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc", "q":
		m.mode = modeTimeline
		return m, nil
	case "enter":
		i, ok := m.scenes.SelectedItem().(sceneItem)
		if !ok {
			return m, nil
		}
		m.mode = modeTimeline
		m.ed.selectScene(i.scene)
		m.ed.tr.HandleMedia(transport.MediaLoadStart)
		return m, tea.Batch(
			m.spinner.Tick,
			resolveMediaCmd(m.ed.ctx, m.ed.resolver, i.scene.ID, true),
		)
	}

	var cmd tea.Cmd
	m.scenes, cmd = m.scenes.Update(msg)
	return m, cmd
}
