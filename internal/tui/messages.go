package tui

import (
	"time"

	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/project"
	"github.com/aschmelyun/robomovie/internal/transport"
)

type errorMsg struct {
	err error
}

// frameTickMsg advances the playhead loop identified by token.
type frameTickMsg struct {
	token transport.Token
	at    time.Time
}

type notifyTickMsg time.Time

type mediaResolvedMsg struct {
	sceneID string
	media   media.Resolved
	reseed  bool
	err     error
}

type projectChangedMsg struct {
	project *project.Project
	stamp   project.Stamp
	err     error
}

type projectSavedMsg struct {
	path  string
	stamp project.Stamp
}

type previewDoneMsg struct {
	err error
}

type copiedMsg struct {
	text string
}
