package tui

import (
	"github.com/aschmelyun/robomovie/internal/composition"
	"github.com/aschmelyun/robomovie/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// reseed replaces the timeline with the default composition over freshly
// resolved scene media.
func (m Model) reseed(msg mediaResolvedMsg) tea.Cmd {
	ed := m.ed
	p := composition.DefaultPayload(msg.media, ed.tr.TotalFrames(), ed.cfg.Width, ed.cfg.Height)
	ed.project.Composition = &p
	ed.seed(p)
	ed.tr.SetFrame(0)
	label := msg.sceneID
	if scene, ok := ed.project.Scene(msg.sceneID); ok {
		label = scene.Label()
	}
	return m.notify("Loaded " + label)
}

// reload applies a project file changed on disk and re-arms the watcher.
// Changes that are this editor's own saves are ignored.
func (m Model) reload(msg projectChangedMsg) (tea.Model, tea.Cmd) {
	ed := m.ed
	rearm := nextChangeCmd(ed.changes)
	if msg.err != nil {
		logger.Warn("project reload failed", zap.String("path", ed.path), zap.Error(msg.err))
		return m, tea.Batch(rearm, m.notify("Reload failed"))
	}
	if msg.stamp == ed.saved {
		return m, rearm
	}

	p := msg.project
	switch {
	case p.Timeline != nil:
		if err := p.Timeline.Apply(ed.store); err != nil {
			logger.Warn("reloaded timeline rejected", zap.String("path", ed.path), zap.Error(err))
			return m, tea.Batch(rearm, m.notify(refusal(err)))
		}
		if p.Composition != nil && p.Composition.DurationInFrames > 0 {
			ed.tr.SetTotalFrames(p.Composition.DurationInFrames)
		}
	case p.Composition != nil:
		ed.seed(*p.Composition)
	}
	ed.project = p
	ed.library.Load(p.Media)
	ed.loadAssets(p.Assets)
	if scene, ok := p.Scene(p.SelectedScene); ok {
		ed.selectScene(scene)
	}
	ed.dirty = false
	ed.saved = msg.stamp
	logger.Info("project reloaded", zap.String("path", ed.path))
	return m, tea.Batch(rearm, m.notify("Project reloaded"))
}
