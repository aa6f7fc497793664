package media

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aschmelyun/robomovie/internal/logger"
	"go.uber.org/zap"
)

// Resolved is the playable media of a scene. Fallback is set when a
// sample asset stands in for missing generated media.
type Resolved struct {
	VideoURL string
	AudioURL string
	Fallback bool
}

// Resolver returns the media a scene should play.
type Resolver interface {
	Resolve(ctx context.Context, sceneID string) (Resolved, error)
}

// LibraryResolver answers from the library's status map and falls back to
// the first sample asset of each kind.
type LibraryResolver struct {
	Library *Library
}

func (r LibraryResolver) Resolve(_ context.Context, sceneID string) (Resolved, error) {
	res := Resolved{VideoURL: SampleVideos[0].URL, AudioURL: SampleAudio[0].URL, Fallback: true}
	if r.Library == nil || sceneID == "" {
		return res, nil
	}
	m, ok := r.Library.Status(sceneID)
	if !ok {
		return res, nil
	}
	if m.Video.Ready() {
		res.VideoURL = m.Video.URL
		res.Fallback = false
	}
	if m.Audio.Ready() {
		res.AudioURL = m.Audio.URL
	}
	return res, nil
}

// StorageResolver looks for generated scene media in the hosted data
// store's public bucket and defers to Fallback when it is missing.
type StorageResolver struct {
	BaseURL  string
	Bucket   string
	Key      string
	Client   *http.Client
	Fallback Resolver
}

func (r StorageResolver) objectURL(sceneID, name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s/%s",
		strings.TrimRight(r.BaseURL, "/"), r.Bucket, url.PathEscape(sceneID), name)
}

func (r StorageResolver) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	if r.Key != "" {
		req.Header.Set("Authorization", "Bearer "+r.Key)
		req.Header.Set("apikey", r.Key)
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach storage: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return false, nil
	}
	return false, fmt.Errorf("storage request failed with status %d", resp.StatusCode)
}

// Resolve looks up video.mp4 and audio.mp3 under the scene's folder. A
// storage error is logged and the fallback answers instead.
func (r StorageResolver) Resolve(ctx context.Context, sceneID string) (Resolved, error) {
	fallback := r.Fallback
	if fallback == nil {
		fallback = LibraryResolver{}
	}
	res, err := fallback.Resolve(ctx, sceneID)
	if err != nil {
		return res, err
	}
	if r.BaseURL == "" || sceneID == "" {
		return res, nil
	}

	video := r.objectURL(sceneID, "video.mp4")
	ok, err := r.exists(ctx, video)
	if err != nil {
		logger.Warn("storage lookup failed", zap.String("scene", sceneID), zap.Error(err))
		return res, nil
	}
	if ok {
		res.VideoURL = video
		res.Fallback = false
	}

	audio := r.objectURL(sceneID, "audio.mp3")
	if ok, err := r.exists(ctx, audio); err == nil && ok {
		res.AudioURL = audio
	}
	return res, nil
}
