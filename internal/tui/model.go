// Package tui is the terminal editor: a bubbletea model that wires the
// timeline store, the transport, the keyboard dispatcher and the pointer
// gestures to a ruler, track lanes and a letterboxed preview.
package tui

import (
	"context"
	"time"

	"github.com/aschmelyun/robomovie/internal/composition"
	"github.com/aschmelyun/robomovie/internal/config"
	"github.com/aschmelyun/robomovie/internal/events"
	"github.com/aschmelyun/robomovie/internal/interaction"
	"github.com/aschmelyun/robomovie/internal/keys"
	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/notify"
	"github.com/aschmelyun/robomovie/internal/project"
	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/aschmelyun/robomovie/internal/transport"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Options configures a new editor.
type Options struct {
	// Path is where the project is saved and watched. Empty disables both.
	Path    string
	Project *project.Project
	Config  *config.Config
	// Resolver answers scene media lookups. Defaults to the library.
	Resolver media.Resolver
	// Storage, when set, is consulted before the library.
	Storage *media.StorageResolver
	// Now is the clock for playback and notifications. Defaults to time.Now.
	Now func() time.Time
}

type mode int

const (
	modeTimeline mode = iota
	modeScenes
	modeRename
	modeContent
	modeTrackName
)

// gesture is an in-flight pointer drag.
type gesture interface {
	Active() bool
	Cancel()
}

// editor holds the mutable session shared by every copy of Model.
type editor struct {
	cfg      *config.Config
	path     string
	project  *project.Project
	store    *timeline.Store
	guard    *interaction.Guard
	tr       *transport.Transport
	bus      *events.Bus
	keys     *keys.Dispatcher
	unmount  func()
	scale    interaction.Scale
	surface  *composition.Surface
	library  *media.Library
	resolver media.Resolver
	notes    *notify.Queue
	clicks   interaction.ClickTracker
	drag     gesture
	results  []keys.Result
	dirty    bool
	saved    project.Stamp
	changes  <-chan projectChangedMsg
	ctx      context.Context
	cancel   context.CancelFunc
	now      func() time.Time
}

type Model struct {
	ed       *editor
	spinner  spinner.Model
	scenes   list.Model
	input    textinput.Model
	help     help.Model
	mode     mode
	editing  string
	width    int
	height   int
	statuses []string
	errorMsg string
	quitting bool
}

// New builds the editor for opts.Project. The timeline comes from the
// project's saved timeline, else its composition, else the default
// composition over the selected scene's media.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Load()
	}
	p := opts.Project
	if p == nil {
		p = project.New("Untitled")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store := timeline.NewStore()
	guard := interaction.NewGuard(store)
	tr := transport.New(cfg.FPS, cfg.TotalFrames, cfg.PlaybackRates)
	ctx, cancel := context.WithCancel(context.Background())

	ed := &editor{
		cfg:     cfg,
		path:    opts.Path,
		project: p,
		store:   store,
		guard:   guard,
		tr:      tr,
		bus:     events.NewBus(),
		keys:    keys.NewDispatcher(guard, tr),
		scale: interaction.Scale{
			BaseCellsPerSecond:      cfg.CellsPerSecond,
			FixedDragCellsPerSecond: cfg.DragCellsPerSecond,
		},
		surface:  composition.NewSurface(cfg.Aspect()),
		library:  media.NewLibrary(),
		resolver: opts.Resolver,
		notes:    notify.NewQueue(cfg.NotificationLifetime),
		clicks:   interaction.ClickTracker{Window: interaction.DoubleClickWindow},
		ctx:      ctx,
		cancel:   cancel,
		now:      now,
	}
	if ed.resolver == nil {
		ed.resolver = media.LibraryResolver{Library: ed.library}
	}
	if opts.Storage != nil {
		st := *opts.Storage
		st.Fallback = ed.resolver
		ed.resolver = st
	}
	ed.keys.Now = now
	ed.keys.OnAction = func(res keys.Result) { ed.results = append(ed.results, res) }
	ed.unmount = ed.keys.Mount(ed.bus)

	ed.library.Load(p.Media)
	ed.loadAssets(p.Assets)
	if scene, ok := p.Scene(p.SelectedScene); ok {
		ed.selectScene(scene)
	}
	ed.loadTimeline()
	store.Subscribe(func() { ed.dirty = true })
	tr.HandleMedia(transport.MediaLoadStart)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ti := textinput.New()
	ti.CharLimit = 120
	ti.Prompt = BulletStyle.Render("├")

	return Model{
		ed:      ed,
		spinner: s,
		scenes:  newSceneList(sceneItems(p.Scenes, ed.library), 64, 16),
		input:   ti,
		help:    help.New(),
	}
}

// selectScene makes scene current. Sample media stands in only while the
// scene has no media status of its own.
func (ed *editor) selectScene(scene media.Scene) {
	saved, had := ed.library.Status(scene.ID)
	ed.library.Select(&scene)
	if had {
		ed.library.SetVideoStatus(scene.ID, saved.Video)
		ed.library.SetAudioStatus(scene.ID, saved.Audio)
	}
	ed.project.SelectedScene = scene.ID
}

// loadAssets replaces the asset shelf.
func (ed *editor) loadAssets(assets []media.Asset) {
	for _, a := range ed.library.Assets() {
		ed.library.RemoveAsset(a.ID)
	}
	for _, a := range assets {
		ed.library.AddAsset(a)
	}
}

func (ed *editor) loadTimeline() {
	p := ed.project
	if p.Timeline != nil {
		err := p.Timeline.Apply(ed.store)
		if err == nil {
			if p.Composition != nil && p.Composition.DurationInFrames > 0 {
				ed.tr.SetTotalFrames(p.Composition.DurationInFrames)
			}
			return
		}
		logger.Warn("saved timeline rejected", zap.Error(err))
	}
	if p.Composition == nil {
		res, _ := media.LibraryResolver{Library: ed.library}.Resolve(ed.ctx, p.SelectedScene)
		def := composition.DefaultPayload(res, ed.cfg.TotalFrames, ed.cfg.Width, ed.cfg.Height)
		p.Composition = &def
	}
	ed.seed(*p.Composition)
}

func (ed *editor) seed(p composition.Payload) composition.SeedResult {
	fps := ed.cfg.FPS
	if p.FPS > 0 {
		fps = p.FPS
	}
	res := composition.Seed(ed.store, p, fps)
	if p.DurationInFrames > 0 {
		ed.tr.SetTotalFrames(p.DurationInFrames)
	}
	ed.surface.SetAspect(p.Aspect())
	return res
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		resolveMediaCmd(m.ed.ctx, m.ed.resolver, m.ed.project.SelectedScene, false),
	}
	if m.ed.path != "" && m.ed.changes == nil {
		m.ed.changes = watchProject(m.ed.ctx, m.ed.path)
		cmds = append(cmds, nextChangeCmd(m.ed.changes))
	}
	return tea.Batch(cmds...)
}

// Close detaches the dispatcher and stops the project watcher.
func (m Model) Close() {
	if m.ed.drag != nil {
		m.ed.drag.Cancel()
		m.ed.drag = nil
	}
	if m.ed.unmount != nil {
		m.ed.unmount()
		m.ed.unmount = nil
	}
	m.ed.tr.Pause()
	m.ed.cancel()
}

// Dirty reports whether the timeline changed since it was loaded or saved.
func (m Model) Dirty() bool { return m.ed.dirty }

func (m Model) Statuses() []string { return m.statuses }

// snapshot is the project as it should be written now.
func (ed *editor) snapshot() *project.Project {
	p := *ed.project
	p.Timeline = project.Snapshot(ed.store)
	p.Media = ed.library.Statuses()
	p.Assets = ed.library.Assets()
	if p.Composition != nil {
		c := *p.Composition
		c.DurationInFrames = ed.tr.TotalFrames()
		p.Composition = &c
	}
	return &p
}
