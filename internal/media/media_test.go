package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSelectSeedsSamples(t *testing.T) {
	lib := NewLibrary()
	lib.Select(&Scene{ID: "s1", Number: 1, Title: "Opening"})

	sel, ok := lib.Selected()
	if !ok || sel.ID != "s1" {
		t.Fatalf("selected = %+v, %v", sel, ok)
	}
	m, ok := lib.Status("s1")
	if !ok || !m.Video.Ready() || !m.Audio.Ready() {
		t.Errorf("seeded status = %+v", m)
	}
	lib.Select(nil)
	if _, ok := lib.Selected(); ok {
		t.Error("selection not cleared")
	}
}

func TestStatusSetters(t *testing.T) {
	lib := NewLibrary()
	lib.SetVideoStatus("s1", Source{Status: StatusProcessing})
	lib.SetAudioStatus("s1", Source{Status: StatusFailed, Err: "timeout"})

	m, _ := lib.Status("s1")
	if m.Video.Status != StatusProcessing || m.Audio.Err != "timeout" {
		t.Errorf("status = %+v", m)
	}
	lib.Clear("s1")
	if _, ok := lib.Status("s1"); ok {
		t.Error("Clear kept the scene")
	}
}

func TestAssets(t *testing.T) {
	lib := NewLibrary()
	lib.AddAsset(SampleVideos[0])
	lib.AddAsset(SampleAudio[1])
	lib.RemoveAsset("video1")

	got := lib.Assets()
	if len(got) != 1 || got[0].ID != "audio2" {
		t.Errorf("assets = %+v", got)
	}
}

func TestLibraryResolver(t *testing.T) {
	lib := NewLibrary()
	r := LibraryResolver{Library: lib}
	ctx := context.Background()

	res, _ := r.Resolve(ctx, "unknown")
	if !res.Fallback || res.VideoURL != SampleVideos[0].URL {
		t.Errorf("unknown scene = %+v", res)
	}

	lib.SetVideoStatus("s1", Source{Status: StatusCompleted, URL: "https://cdn.example/s1.mp4"})
	lib.SetAudioStatus("s1", Source{Status: StatusProcessing})
	res, _ = r.Resolve(ctx, "s1")
	if res.Fallback || res.VideoURL != "https://cdn.example/s1.mp4" {
		t.Errorf("completed video = %+v", res)
	}
	if res.AudioURL != SampleAudio[0].URL {
		t.Errorf("processing audio should fall back, got %q", res.AudioURL)
	}
}

func TestStorageResolver(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s", r.Method)
		}
		auth = r.Header.Get("Authorization")
		if strings.HasSuffix(r.URL.Path, "/scenes/s1/video.mp4") {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := StorageResolver{BaseURL: srv.URL + "/", Bucket: "scenes", Key: "secret", Client: srv.Client()}
	res, err := r.Resolve(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Fallback || res.VideoURL != srv.URL+"/storage/v1/object/public/scenes/s1/video.mp4" {
		t.Errorf("video = %+v", res)
	}
	if res.AudioURL != SampleAudio[0].URL {
		t.Errorf("missing audio should fall back, got %q", res.AudioURL)
	}
	if auth != "Bearer secret" {
		t.Errorf("authorization = %q", auth)
	}

	res, _ = r.Resolve(context.Background(), "s2")
	if !res.Fallback {
		t.Errorf("missing scene = %+v", res)
	}
}

func TestStorageResolverServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := StorageResolver{BaseURL: srv.URL, Bucket: "scenes", Client: srv.Client()}
	res, err := r.Resolve(context.Background(), "s1")
	if err != nil || !res.Fallback {
		t.Errorf("server error should fall back quietly: %+v, %v", res, err)
	}
}
