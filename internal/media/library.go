// Package media tracks per-scene media status and resolves the video and
// audio URLs a scene should play.
package media

import (
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Source is the generation state of one media file of a scene.
type Source struct {
	Status Status `json:"status"`
	URL    string `json:"url,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Ready reports whether the source can be played.
func (s Source) Ready() bool { return s.Status == StatusCompleted && s.URL != "" }

type SceneMedia struct {
	Video Source `json:"video"`
	Audio Source `json:"audio"`
}

type Scene struct {
	ID        string `json:"id"`
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Generator string `json:"generator,omitempty"`
	Comments  string `json:"comments,omitempty"`
}

func (s Scene) Label() string {
	return fmt.Sprintf("Scene %d: %s", s.Number, s.Title)
}

type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetAudio AssetKind = "audio"
	AssetImage AssetKind = "image"
)

type Asset struct {
	ID   string    `json:"id"`
	Kind AssetKind `json:"type"`
	URL  string    `json:"url"`
	Name string    `json:"name"`
}

// Library holds the media state of the open project: status per scene,
// the editor's asset shelf and the selected scene.
type Library struct {
	status   map[string]SceneMedia
	assets   []Asset
	selected *Scene
}

func NewLibrary() *Library {
	return &Library{status: map[string]SceneMedia{}}
}

// Select makes scene current. Selecting seeds completed sample media for
// it so the preview always has something to play; nil clears the
// selection.
func (l *Library) Select(scene *Scene) {
	if scene == nil {
		l.selected = nil
		return
	}
	s := *scene
	l.selected = &s
	l.status[s.ID] = SceneMedia{
		Video: Source{Status: StatusCompleted, URL: SampleVideos[0].URL},
		Audio: Source{Status: StatusCompleted, URL: SampleAudio[0].URL},
	}
}

func (l *Library) Selected() (Scene, bool) {
	if l.selected == nil {
		return Scene{}, false
	}
	return *l.selected, true
}

func (l *Library) SetVideoStatus(sceneID string, src Source) {
	m := l.status[sceneID]
	m.Video = src
	l.status[sceneID] = m
}

func (l *Library) SetAudioStatus(sceneID string, src Source) {
	m := l.status[sceneID]
	m.Audio = src
	l.status[sceneID] = m
}

func (l *Library) Clear(sceneID string) { delete(l.status, sceneID) }

func (l *Library) Status(sceneID string) (SceneMedia, bool) {
	m, ok := l.status[sceneID]
	return m, ok
}

// Statuses returns a copy of the whole status map.
func (l *Library) Statuses() map[string]SceneMedia { return maps.Clone(l.status) }

// Load replaces the status map, as when a project file is opened.
func (l *Library) Load(status map[string]SceneMedia) {
	l.status = maps.Clone(status)
	if l.status == nil {
		l.status = map[string]SceneMedia{}
	}
}

func (l *Library) AddAsset(a Asset) { l.assets = append(l.assets, a) }

func (l *Library) RemoveAsset(id string) {
	l.assets = lo.Reject(l.assets, func(a Asset, _ int) bool { return a.ID == id })
}

func (l *Library) Assets() []Asset { return slices.Clone(l.assets) }
