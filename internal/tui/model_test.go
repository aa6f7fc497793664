package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aschmelyun/robomovie/internal/config"
	"github.com/aschmelyun/robomovie/internal/events"
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/project"
	"github.com/aschmelyun/robomovie/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func testConfig() *config.Config {
	return &config.Config{
		FPS:                  30,
		TotalFrames:          150,
		Width:                1920,
		Height:               1080,
		CellsPerSecond:       4,
		PlaybackRates:        []float64{0.5, 1, 1.5, 2},
		MPVPath:              "mpv",
		NotificationLifetime: 2 * time.Second,
	}
}

func newTestModel(t *testing.T, p *project.Project, path string) (Model, *clock) {
	t.Helper()
	c := &clock{t: t0}
	m := New(Options{Path: path, Project: p, Config: testConfig(), Now: c.now})
	t.Cleanup(m.Close)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), c
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(m Model, k string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch k {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+w":
		msg = tea.KeyMsg{Type: tea.KeyCtrlW}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return send(m, msg)
}

func click(m Model, x, y int) Model {
	m, _ = send(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return m
}

func messages(m Model) []string {
	var out []string
	for _, item := range m.ed.notes.Items() {
		out = append(out, item.Message)
	}
	return out
}

func hasMessage(m Model, want string) bool {
	for _, msg := range messages(m) {
		if msg == want {
			return true
		}
	}
	return false
}

func trackNamed(t *testing.T, m Model, name string) timeline.Track {
	t.Helper()
	for _, track := range m.ed.store.Tracks() {
		if track.Name == name {
			return track
		}
	}
	t.Fatalf("no track %q in %v", name, m.ed.store.Tracks())
	return timeline.Track{}
}

func TestNewSeedsDefaultComposition(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")

	tracks := m.ed.store.Tracks()
	if len(tracks) != 2 {
		t.Fatalf("tracks = %d; want 2", len(tracks))
	}
	video := trackNamed(t, m, "Video 1")
	if len(video.Clips) != 1 || video.Clips[0].Start != 0 || video.Clips[0].End != 5 {
		t.Errorf("video clips = %+v", video.Clips)
	}
	if got := video.Clips[0].Source(); got != media.SampleVideos[0].URL {
		t.Errorf("video source = %q", got)
	}
	audio := trackNamed(t, m, "Audio 1")
	if got := audio.Clips[0].Source(); got != media.SampleAudio[0].URL {
		t.Errorf("audio source = %q", got)
	}
	if m.Dirty() {
		t.Error("fresh editor is dirty")
	}
	if m.ed.tr.TotalFrames() != 150 {
		t.Errorf("total frames = %d", m.ed.tr.TotalFrames())
	}
}

func TestNewRestoresSavedTimeline(t *testing.T) {
	store := timeline.NewStore()
	track := store.AddTrack(timeline.KindText, "Titles")
	_, _ = store.AddClip(track.ID, timeline.ClipSpec{End: 2, Content: "Hello"})

	p := project.New("film")
	p.Timeline = project.Snapshot(store)
	m, _ := newTestModel(t, p, "")

	tracks := m.ed.store.Tracks()
	if len(tracks) != 1 || tracks[0].Name != "Titles" {
		t.Fatalf("tracks = %+v", tracks)
	}
}

func TestDispatcherKeys(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")

	m, _ = press(m, "right")
	if m.ed.tr.Frame() != 1 {
		t.Errorf("frame = %d; want 1", m.ed.tr.Frame())
	}
	if !hasMessage(m, "Next frame") {
		t.Errorf("notifications = %v", messages(m))
	}

	m, _ = press(m, "]")
	if m.ed.tr.Rate() != 1.5 {
		t.Errorf("rate = %v", m.ed.tr.Rate())
	}
}

func TestPlaybackFrameLoop(t *testing.T) {
	m, c := newTestModel(t, project.New("film"), "")

	m, cmd := press(m, " ")
	if !m.ed.tr.Playing() || cmd == nil {
		t.Fatal("space did not start playback")
	}

	// Restart with a known token so ticks can be fed by hand.
	tok := m.ed.tr.Play(c.t)
	m, cmd = send(m, frameTickMsg{token: tok, at: c.t.Add(time.Second)})
	if m.ed.tr.Frame() != 30 {
		t.Errorf("frame after 1s = %d; want 30", m.ed.tr.Frame())
	}
	if cmd == nil {
		t.Error("live tick was not re-armed")
	}

	m, _ = press(m, " ")
	if m.ed.tr.Playing() {
		t.Fatal("space did not pause")
	}
	m, cmd = send(m, frameTickMsg{token: tok, at: c.t.Add(2 * time.Second)})
	if cmd != nil || m.ed.tr.Frame() != 30 {
		t.Errorf("stale tick advanced to %d", m.ed.tr.Frame())
	}
}

func TestNotificationsExpire(t *testing.T) {
	m, c := newTestModel(t, project.New("film"), "")
	m, _ = press(m, "m")
	if !hasMessage(m, "Muted") {
		t.Fatalf("notifications = %v", messages(m))
	}

	c.t = t0.Add(1900 * time.Millisecond)
	if !strings.Contains(m.notificationsView(), "Muted") {
		t.Error("closing notification not drawn")
	}

	m, _ = send(m, notifyTickMsg(t0.Add(3*time.Second)))
	if len(messages(m)) != 0 {
		t.Errorf("notifications after expiry = %v", messages(m))
	}
}

func TestAddTrackAndClip(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	m.ed.tr.SetFrame(60)

	m, _ = press(m, "t")
	text := trackNamed(t, m, "Text 1")
	if m.ed.store.SelectedTrackID() != text.ID {
		t.Fatal("new track not selected")
	}

	m, _ = press(m, "n")
	text = trackNamed(t, m, "Text 1")
	if len(text.Clips) != 1 {
		t.Fatalf("clips = %+v", text.Clips)
	}
	clip := text.Clips[0]
	if clip.Start != 2 || clip.End != 2+newClipSeconds {
		t.Errorf("clip range = [%v, %v)", clip.Start, clip.End)
	}
	if body, ok := clip.Body.(timeline.TextBody); !ok || body.Content != "Title" {
		t.Errorf("clip body = %+v", clip.Body)
	}
	if !m.Dirty() {
		t.Error("edit did not mark the editor dirty")
	}
}

func TestLockedTrackRefusesEdits(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	video := trackNamed(t, m, "Video 1")
	_ = m.ed.store.SelectTrack(video.ID)

	m, _ = press(m, "l")
	if !trackNamed(t, m, "Video 1").Locked {
		t.Fatal("l did not lock the track")
	}
	m, _ = press(m, "n")
	if len(trackNamed(t, m, "Video 1").Clips) != 1 {
		t.Error("clip added to a locked track")
	}
	if !hasMessage(m, "Track is locked") {
		t.Errorf("notifications = %v", messages(m))
	}

	m, _ = press(m, "X")
	if len(m.ed.store.Tracks()) != 2 {
		t.Error("locked track removed")
	}
}

func TestTrackVolumeAndOrder(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	audio := trackNamed(t, m, "Audio 1")
	_ = m.ed.store.SelectTrack(audio.ID)

	m, _ = press(m, ",")
	if v := trackNamed(t, m, "Audio 1").Volume; v < 0.89 || v > 0.91 {
		t.Errorf("volume = %v; want 0.9", v)
	}
	m, _ = press(m, ".")
	m, _ = press(m, ".")
	if v := trackNamed(t, m, "Audio 1").Volume; v != 1 {
		t.Errorf("volume = %v; want clamped to 1", v)
	}

	m, _ = press(m, "K")
	if first := m.ed.store.Tracks()[0]; first.Name != "Audio 1" {
		t.Errorf("first track = %s; want Audio 1", first.Name)
	}
}

func TestRenameSuspendsDispatcher(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	m, _ = press(m, "tab")
	id := m.ed.store.SelectedClipID()
	if id == "" {
		t.Fatal("tab selected nothing")
	}

	m, _ = press(m, "r")
	if m.mode != modeRename || !m.ed.keys.InputFocused() {
		t.Fatal("rename input not focused")
	}
	m, _ = press(m, "!")
	m, _ = press(m, " ")
	if m.ed.tr.Playing() {
		t.Error("space reached the dispatcher while typing")
	}
	m, _ = press(m, "enter")

	clip, _ := m.ed.store.FindClip(id)
	if clip.Name != "Video! " {
		t.Errorf("name = %q", clip.Name)
	}
	if m.ed.keys.InputFocused() || m.mode != modeTimeline {
		t.Error("input still focused after enter")
	}
}

func TestContentEditNeedsTextClip(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	m, _ = press(m, "tab")
	m, _ = press(m, "e")
	if m.mode != modeTimeline {
		t.Error("content editor opened for a video clip")
	}
	if !hasMessage(m, "Only text clips have content") {
		t.Errorf("notifications = %v", messages(m))
	}
}

// With a 120x40 window the ruler is row 15 and the lanes follow; the
// ruler starts at column 18 with 4 columns per second.
const (
	rulerRow = 15
	videoRow = 16
)

func TestMouseResizeRightEdge(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	id := trackNamed(t, m, "Video 1").Clips[0].ID

	m = click(m, 37, videoRow)
	if m.ed.drag == nil {
		t.Fatal("press on the right edge started no drag")
	}
	m, _ = send(m, tea.MouseMsg{X: 41, Y: videoRow, Action: tea.MouseActionMotion})
	m, _ = send(m, tea.MouseMsg{X: 41, Y: videoRow, Action: tea.MouseActionRelease})

	clip, _ := m.ed.store.FindClip(id)
	if clip.Start != 0 || clip.End != 6 {
		t.Errorf("clip = [%v, %v); want [0, 6)", clip.Start, clip.End)
	}
	if n := m.ed.bus.CountOf(events.PointerMove) + m.ed.bus.CountOf(events.PointerUp); n != 0 {
		t.Errorf("%d pointer handlers left after release", n)
	}
}

func TestMouseDoubleClickSplits(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	id := trackNamed(t, m, "Video 1").Clips[0].ID

	m = click(m, 28, videoRow)
	if m.ed.store.SelectedClipID() != id {
		t.Fatal("single click did not select")
	}
	m = click(m, 28, videoRow)

	clips := trackNamed(t, m, "Video 1").ByStart()
	if len(clips) != 2 || clips[0].End != 2.5 || clips[1].Start != 2.5 {
		t.Errorf("clips after double click = %+v", clips)
	}
}

func TestRulerScrub(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")

	m = click(m, 30, rulerRow)
	if m.ed.tr.Frame() != 90 {
		t.Errorf("frame = %d; want 90", m.ed.tr.Frame())
	}
	m, _ = send(m, tea.MouseMsg{X: 22, Y: rulerRow, Action: tea.MouseActionMotion})
	if m.ed.tr.Frame() != 30 {
		t.Errorf("frame while dragging = %d; want 30", m.ed.tr.Frame())
	}
	m, _ = send(m, tea.MouseMsg{X: 22, Y: rulerRow, Action: tea.MouseActionRelease})
	m, _ = send(m, tea.MouseMsg{X: 40, Y: rulerRow, Action: tea.MouseActionMotion})
	if m.ed.tr.Frame() != 30 {
		t.Error("scrub kept following after release")
	}
}

func TestSaveAndIgnoreOwnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "film.json")
	m, _ := newTestModel(t, project.New("film"), path)
	m, _ = press(m, "t")

	m, cmd := press(m, "ctrl+w")
	saved, ok := cmd().(projectSavedMsg)
	if !ok {
		t.Fatalf("save returned %T", cmd())
	}
	m, _ = send(m, saved)
	if m.Dirty() {
		t.Error("still dirty after save")
	}

	loaded, err := project.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Timeline == nil || len(loaded.Timeline.Tracks) != 3 {
		t.Fatalf("saved timeline = %+v", loaded.Timeline)
	}

	before := m.ed.store.Snapshot()
	m, _ = send(m, projectChangedMsg{project: project.New("other"), stamp: saved.stamp})
	if m.ed.project.Title != "film" || len(m.ed.store.Snapshot().Tracks) != len(before.Tracks) {
		t.Error("own save was reloaded")
	}
}

func TestReloadAppliesExternalChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "film.json")
	m, _ := newTestModel(t, project.New("film"), path)

	store := timeline.NewStore()
	store.AddTrack(timeline.KindAudio, "Music")
	changed := project.New("film v2")
	changed.Timeline = project.Snapshot(store)

	m, cmd := send(m, projectChangedMsg{project: changed, stamp: project.Stamp{Size: 1}})
	if cmd == nil {
		t.Error("watcher not re-armed")
	}
	tracks := m.ed.store.Tracks()
	if len(tracks) != 1 || tracks[0].Name != "Music" {
		t.Errorf("tracks = %+v", tracks)
	}
	if m.Dirty() || !hasMessage(m, "Project reloaded") {
		t.Errorf("dirty = %v, notifications = %v", m.Dirty(), messages(m))
	}
}

func TestSceneSelectionReseeds(t *testing.T) {
	p := project.New("film")
	p.Scenes = append(p.Scenes, media.Scene{ID: "scene-2", Number: 2, Title: "Chase"})
	m, _ := newTestModel(t, p, "")

	m, _ = press(m, "o")
	if m.mode != modeScenes {
		t.Fatal("o did not open the scene picker")
	}
	m, _ = press(m, "down")
	m, cmd := press(m, "enter")
	if m.mode != modeTimeline || cmd == nil {
		t.Fatal("enter did not pick the scene")
	}
	if scene, _ := m.ed.library.Selected(); scene.ID != "scene-2" {
		t.Fatalf("selected scene = %q", scene.ID)
	}
	if !m.busy() {
		t.Error("no loading state while resolving")
	}

	m, _ = send(m, mediaResolvedMsg{
		sceneID: "scene-2",
		media:   media.Resolved{VideoURL: "chase.mp4", AudioURL: "chase.mp3"},
		reseed:  true,
	})
	if got := trackNamed(t, m, "Video 1").Clips[0].Source(); got != "chase.mp4" {
		t.Errorf("video source = %q", got)
	}
	if m.busy() || !hasMessage(m, "Loaded Scene 2: Chase") {
		t.Errorf("busy = %v, notifications = %v", m.busy(), messages(m))
	}
}

func TestCopyTimecode(t *testing.T) {
	var copied string
	orig := clipboardWriteAll
	clipboardWriteAll = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWriteAll = orig })

	m, _ := newTestModel(t, project.New("film"), "")
	m.ed.tr.SetFrame(95)
	_, cmd := press(m, "y")
	msg := cmd()
	if _, ok := msg.(copiedMsg); !ok || copied != "00:00:03:05" {
		t.Errorf("msg = %#v, copied = %q", msg, copied)
	}
}

func TestErrorShownAsStatus(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	m, _ = send(m, errorMsg{err: errors.New("storage unreachable")})
	if !strings.Contains(m.View(), "storage unreachable") {
		t.Error("error not rendered")
	}
}

func TestViewShowsEditor(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	m, _ = send(m, mediaResolvedMsg{media: media.Resolved{VideoURL: "a.mp4"}})
	view := m.View()
	for _, want := range []string{"film", "00:00:00:00", "Video 1", "Audio 1", "frame 0/150"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuitSavesDirtyProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "film.json")
	m, _ := newTestModel(t, project.New("film"), path)
	m, _ = press(m, "v")

	m, cmd := press(m, "q")
	if !m.quitting || cmd == nil {
		t.Fatal("q did not quit")
	}
	if !strings.Contains(m.View(), "Saved project to "+path) {
		t.Errorf("quit view = %q", m.View())
	}
	if m.ed.bus.Count() != 0 {
		t.Errorf("%d handlers attached after quit", m.ed.bus.Count())
	}
}

func TestRenameTrack(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	audio := trackNamed(t, m, "Audio 1")
	_ = m.ed.store.SelectTrack(audio.ID)

	m, _ = press(m, "R")
	if m.mode != modeTrackName || m.input.Value() != "Audio 1" {
		t.Fatalf("mode = %v, input = %q", m.mode, m.input.Value())
	}
	m.input.SetValue("Dialogue")
	m, _ = press(m, "enter")
	if got, _ := m.ed.store.Track(audio.ID); got.Name != "Dialogue" {
		t.Errorf("name = %q", got.Name)
	}
	if !hasMessage(m, "Renamed track") {
		t.Errorf("notifications = %v", messages(m))
	}

	m, _ = press(m, "l")
	m, _ = press(m, "R")
	m.input.SetValue("Locked out")
	m, _ = press(m, "enter")
	if got, _ := m.ed.store.Track(audio.ID); got.Name != "Dialogue" {
		t.Errorf("locked track renamed to %q", got.Name)
	}
	if !hasMessage(m, "Track is locked") {
		t.Errorf("notifications = %v", messages(m))
	}
}

func TestDismissNotification(t *testing.T) {
	m, _ := newTestModel(t, project.New("film"), "")
	m, _ = press(m, "g")
	m, _ = press(m, "m")
	before := messages(m)
	if len(before) < 2 {
		t.Fatalf("notifications = %v", before)
	}

	m, _ = press(m, "x")
	after := messages(m)
	if len(after) != len(before)-1 || after[len(after)-1] != before[len(before)-2] {
		t.Errorf("after dismiss = %v; before = %v", after, before)
	}
	for i, item := range m.ed.notes.Items() {
		if item.Index != i {
			t.Errorf("item %d has index %d", i, item.Index)
		}
	}
}

func TestNewClipUsesShelfAsset(t *testing.T) {
	p := project.New("film")
	p.Assets = []media.Asset{
		{ID: "a1", Kind: media.AssetVideo, URL: "old.mp4", Name: "Old"},
		{ID: "a2", Kind: media.AssetAudio, URL: "theme.mp3", Name: "Theme"},
		{ID: "a3", Kind: media.AssetImage, URL: "logo.png", Name: "Logo"},
	}
	m, _ := newTestModel(t, p, "")
	m.ed.tr.SetFrame(60)

	video := trackNamed(t, m, "Video 1")
	_ = m.ed.store.SelectTrack(video.ID)
	m, _ = press(m, "n")
	clip, ok := m.ed.store.FindClip(m.ed.store.SelectedClipID())
	if !ok || clip.Name != "Logo" || clip.Source() != "logo.png" {
		t.Errorf("video clip = %+v", clip)
	}

	audio := trackNamed(t, m, "Audio 1")
	_ = m.ed.store.SelectTrack(audio.ID)
	m, _ = press(m, "n")
	clip, ok = m.ed.store.FindClip(m.ed.store.SelectedClipID())
	if !ok || clip.Name != "Theme" || clip.Source() != "theme.mp3" {
		t.Errorf("audio clip = %+v", clip)
	}

	if saved := m.ed.snapshot().Assets; len(saved) != 3 {
		t.Errorf("saved assets = %+v", saved)
	}
}

func TestReloadReplacesShelf(t *testing.T) {
	p := project.New("film")
	p.Assets = []media.Asset{{ID: "a1", Kind: media.AssetVideo, URL: "old.mp4", Name: "Old"}}
	m, _ := newTestModel(t, p, filepath.Join(t.TempDir(), "film.json"))

	changed := project.New("film")
	changed.Assets = []media.Asset{{ID: "a2", Kind: media.AssetAudio, URL: "new.mp3", Name: "New"}}
	m, _ = send(m, projectChangedMsg{project: changed, stamp: project.Stamp{Size: 2}})

	assets := m.ed.library.Assets()
	if len(assets) != 1 || assets[0].ID != "a2" {
		t.Errorf("assets = %+v", assets)
	}
}
