package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aschmelyun/robomovie/internal/composition"
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/timeline"
)

func newStore() *timeline.Store {
	n := 0
	return timeline.NewStore(timeline.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
}

func populated(t *testing.T) *timeline.Store {
	t.Helper()
	store := newStore()
	video := store.AddTrack(timeline.KindVideo, "Video 1")
	audio := store.AddTrack(timeline.KindAudio, "Audio 1")
	text := store.AddTrack(timeline.KindText, "Text 1")

	clip, _ := store.AddClip(video.ID, timeline.ClipSpec{Start: 0, End: 5, Source: "a.mp4", Thumbnail: "a.jpg"})
	vol := 0.7
	_, _ = store.AddClip(audio.ID, timeline.ClipSpec{End: 10, Source: "hope.mp3", Volume: &vol})
	size := 32
	_, _ = store.AddClip(text.ID, timeline.ClipSpec{End: 2, Content: "Hello", Style: timeline.TextStylePatch{FontSize: &size}})
	_ = store.SetTrackVolume(audio.ID, 0.4)
	_ = store.ToggleTrackLock(text.ID)
	_ = store.SelectClip(clip.ID)
	store.SetZoom(1.5)
	return store
}

func TestSaveLoadTimeline(t *testing.T) {
	store := populated(t)
	path := filepath.Join(t.TempDir(), "film.json")

	p := New("film")
	p.Timeline = Snapshot(store)
	p.Composition = &composition.Payload{DurationInFrames: 300, Width: 1920, Height: 1080}
	if err := Save(path, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	restored := newStore()
	if err := loaded.Timeline.Apply(restored); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !reflect.DeepEqual(store.Snapshot(), restored.Snapshot()) {
		t.Errorf("restored state differs:\n got %+v\nwant %+v", restored.Snapshot(), store.Snapshot())
	}
	if loaded.Composition.DurationInFrames != 300 {
		t.Errorf("composition = %+v", loaded.Composition)
	}
}

func TestSaveFieldNames(t *testing.T) {
	store := populated(t)
	path := filepath.Join(t.TempDir(), "film.json")
	p := New("film")
	p.Timeline = Snapshot(store)
	if err := Save(path, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	for _, want := range []string{`"startTime"`, `"isLocked": true`, `"type": "audio"`, `"fontSize": 32`, `"selectedClipId"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("saved file missing %s", want)
		}
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestApplyRejectsKindMismatch(t *testing.T) {
	store := populated(t)
	before := store.Snapshot()

	tl := &Timeline{Tracks: []Track{{
		ID:    "t1",
		Kind:  timeline.KindVideo,
		Clips: []Clip{{ID: "c1", Kind: timeline.KindAudio, EndTime: 1}},
	}}}
	if err := tl.Apply(store); !errors.Is(err, timeline.ErrKindMismatch) {
		t.Errorf("Apply err = %v", err)
	}
	if !reflect.DeepEqual(before, store.Snapshot()) {
		t.Error("failed apply changed the store")
	}
}

func TestApplyRejectsInconsistentTimeline(t *testing.T) {
	tests := []struct {
		name string
		tl   *Timeline
		want error
	}{
		{
			name: "clip id on two tracks",
			tl: &Timeline{Tracks: []Track{
				{ID: "t1", Kind: timeline.KindVideo, Clips: []Clip{{ID: "c1", Kind: timeline.KindVideo, EndTime: 1}}},
				{ID: "t2", Kind: timeline.KindVideo, Order: 1, Clips: []Clip{{ID: "c1", Kind: timeline.KindVideo, EndTime: 1}}},
			}},
			want: ErrDuplicateID,
		},
		{
			name: "repeated track id",
			tl: &Timeline{Tracks: []Track{
				{ID: "t1", Kind: timeline.KindVideo},
				{ID: "t1", Kind: timeline.KindAudio, Order: 1},
			}},
			want: ErrDuplicateID,
		},
		{
			name: "end before start",
			tl: &Timeline{Tracks: []Track{
				{ID: "t1", Kind: timeline.KindVideo, Clips: []Clip{{ID: "c1", Kind: timeline.KindVideo, StartTime: 5, EndTime: 2}}},
			}},
			want: timeline.ErrInvalidRange,
		},
		{
			name: "empty range",
			tl: &Timeline{Tracks: []Track{
				{ID: "t1", Kind: timeline.KindVideo, Clips: []Clip{{ID: "c1", Kind: timeline.KindVideo, StartTime: 3, EndTime: 3}}},
			}},
			want: timeline.ErrInvalidRange,
		},
		{
			name: "negative start",
			tl: &Timeline{Tracks: []Track{
				{ID: "t1", Kind: timeline.KindVideo, Clips: []Clip{{ID: "c1", Kind: timeline.KindVideo, StartTime: -1, EndTime: 2}}},
			}},
			want: timeline.ErrInvalidRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := populated(t)
			before := store.Snapshot()
			if err := tt.tl.Apply(store); !errors.Is(err, tt.want) {
				t.Errorf("Apply err = %v; want %v", err, tt.want)
			}
			if !reflect.DeepEqual(before, store.Snapshot()) {
				t.Error("failed apply changed the store")
			}
		})
	}
}

func TestStateRenumbersClashingOrders(t *testing.T) {
	tl := &Timeline{Tracks: []Track{
		{ID: "a", Kind: timeline.KindVideo, Order: 3},
		{ID: "b", Kind: timeline.KindAudio, Order: 0},
		{ID: "c", Kind: timeline.KindText, Order: 0},
	}}
	st, err := tl.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	got := map[string]int{}
	for _, tr := range st.Tracks {
		got[tr.ID] = tr.Order
	}
	want := map[string]int{"b": 0, "c": 1, "a": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("orders = %v; want %v", got, want)
	}

	distinct := &Timeline{Tracks: []Track{
		{ID: "a", Kind: timeline.KindVideo, Order: 4},
		{ID: "b", Kind: timeline.KindAudio, Order: 7},
	}}
	st, _ = distinct.State()
	if st.Tracks[0].Order != 4 || st.Tracks[1].Order != 7 {
		t.Errorf("distinct orders should be kept, got %d and %d", st.Tracks[0].Order, st.Tracks[1].Order)
	}
}

func TestStateClearsDanglingSelection(t *testing.T) {
	tracks := []Track{
		{ID: "t1", Kind: timeline.KindVideo, Clips: []Clip{{ID: "c1", Kind: timeline.KindVideo, EndTime: 1}}},
		{ID: "t2", Kind: timeline.KindAudio, Order: 1},
	}
	tests := []struct {
		name                string
		trackID, clipID     string
		wantTrack, wantClip string
	}{
		{"missing clip and track", "nope", "ghost", "", ""},
		{"missing clip keeps track", "t2", "ghost", "t2", ""},
		{"clip pulls its own track", "t2", "c1", "t1", "c1"},
		{"clip without track", "", "c1", "t1", "c1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore()
			tl := &Timeline{Tracks: tracks, SelectedTrackID: tt.trackID, SelectedClipID: tt.clipID}
			if err := tl.Apply(store); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if got := store.SelectedTrackID(); got != tt.wantTrack {
				t.Errorf("selected track = %q; want %q", got, tt.wantTrack)
			}
			if got := store.SelectedClipID(); got != tt.wantClip {
				t.Errorf("selected clip = %q; want %q", got, tt.wantClip)
			}
		})
	}
}

func TestLoadOrNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trailer.json")
	p, err := LoadOrNew(path)
	if err != nil {
		t.Fatalf("LoadOrNew: %v", err)
	}
	if p.Title != "trailer" || len(p.Scenes) != 1 {
		t.Errorf("new project = %+v", p)
	}
	if _, ok := p.Scene(p.SelectedScene); !ok {
		t.Error("selected scene missing")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte("{"), 0644)
	if _, err := LoadOrNew(bad); err == nil {
		t.Error("corrupt file loaded")
	}
}

func TestMediaStatusRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "film.json")
	p := New("film")
	p.Media["scene-1"] = media.SceneMedia{
		Video: media.Source{Status: media.StatusCompleted, URL: "v.mp4"},
		Audio: media.Source{Status: media.StatusFailed, Err: "quota"},
	}
	if err := Save(path, p); err != nil {
		t.Fatal(err)
	}
	loaded, _ := Load(path)
	if !reflect.DeepEqual(p.Media, loaded.Media) {
		t.Errorf("media = %+v", loaded.Media)
	}
}

func TestWaitForChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "film.json")
	if err := Save(path, New("film")); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = Save(path, New("edited"))
			}
		}
	}()

	if err := WaitForChange(ctx, path); err != nil {
		t.Fatalf("WaitForChange: %v", err)
	}
}

func TestWaitForChangeCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "film.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WaitForChange(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "film.json")
	if err := Save(path, New("film")); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type reload struct {
		p     *Project
		stamp Stamp
		err   error
	}
	reloads := make(chan reload, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(p *Project, stamp Stamp, err error) {
			select {
			case reloads <- reload{p, stamp, err}:
			default:
			}
		})
	}()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = Save(path, New("edited"))
			}
		}
	}()

	select {
	case r := <-reloads:
		if r.err != nil {
			t.Fatalf("reload err = %v", r.err)
		}
		if r.p.Title != "edited" || r.stamp.Size == 0 {
			t.Errorf("reload = %+v, stamp %+v", r.p, r.stamp)
		}
	case <-ctx.Done():
		t.Fatal("no reload seen")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch kept running after cancel")
	}
}

func TestWatchReportsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "film.json")
	if err := Save(path, New("film")); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errs := make(chan error, 16)
	go func() {
		_ = Watch(ctx, path, func(p *Project, _ Stamp, err error) {
			if err != nil && p == nil {
				select {
				case errs <- err:
				default:
				}
			}
		})
	}()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = os.WriteFile(path, []byte("{not json"), 0644)
			}
		}
	}()

	select {
	case err := <-errs:
		if !strings.Contains(err.Error(), "failed to parse project") {
			t.Errorf("err = %v", err)
		}
	case <-ctx.Done():
		t.Fatal("bad file not reported")
	}
}
