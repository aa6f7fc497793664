// Package project reads and writes the editor's project file: the scene
// list, per-scene media status, the opening composition and the saved
// timeline.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aschmelyun/robomovie/internal/composition"
	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Project struct {
	Title         string                      `json:"title"`
	Scenes        []media.Scene               `json:"scenes"`
	SelectedScene string                      `json:"selectedScene,omitempty"`
	Media         map[string]media.SceneMedia `json:"media,omitempty"`
	Assets        []media.Asset               `json:"assets,omitempty"`
	Composition   *composition.Payload        `json:"composition,omitempty"`
	Timeline      *Timeline                   `json:"timeline,omitempty"`
}

// Scene returns the scene with the given id.
func (p *Project) Scene(id string) (media.Scene, bool) {
	return lo.Find(p.Scenes, func(s media.Scene) bool { return s.ID == id })
}

// New returns an empty project with one untitled scene.
func New(title string) *Project {
	return &Project{
		Title:         title,
		Scenes:        []media.Scene{{ID: "scene-1", Number: 1, Title: "Untitled"}},
		SelectedScene: "scene-1",
		Media:         map[string]media.SceneMedia{},
	}
}

// Load reads a project file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", path, err)
	}
	if p.Media == nil {
		p.Media = map[string]media.SceneMedia{}
	}
	logger.Info("project loaded", zap.String("path", path), zap.Int("scenes", len(p.Scenes)))
	return &p, nil
}

// LoadOrNew loads path, or starts a new project named after the file when
// it does not exist yet.
func LoadOrNew(path string) (*Project, error) {
	p, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		name := filepath.Base(path)
		return New(name[:len(name)-len(filepath.Ext(name))]), nil
	}
	return p, err
}

// Save writes the project next to path and renames it into place so a
// reader never sees a half-written file.
func Save(path string, p *Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace project: %w", err)
	}
	logger.Info("project saved", zap.String("path", path))
	return nil
}
