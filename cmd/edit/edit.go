package edit

import (
	"fmt"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/aschmelyun/robomovie/cmd/common"
	"github.com/aschmelyun/robomovie/internal/config"
	"github.com/aschmelyun/robomovie/internal/credentials"
	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/project"
	"github.com/aschmelyun/robomovie/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type Params struct {
	Project    string `pos:"true" optional:"true" help:"Project file to open or create." default:"robomovie.json"`
	FPS        int    `long:"fps" optional:"true" help:"Composition frame rate. Zero keeps ROBOMOVIE_FPS." default:"0"`
	Frames     int    `short:"n" optional:"true" help:"Composition length in frames for new projects. Zero keeps ROBOMOVIE_TOTAL_FRAMES." default:"0"`
	StorageURL string `short:"s" long:"storage-url" optional:"true" help:"Hosted data store base URL to look up generated scene media." default:""`
	Debug      bool   `short:"d" optional:"true" help:"Write debug entries to the log file."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "edit",
		Short:       "Open a project in the timeline editor",
		Long:        "Open a project in the timeline editor. The file is created on first save and reloaded when it changes on disk.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params); err != nil {
				fmt.Fprintf(os.Stderr, "edit: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

// Configure applies the flags over the environment configuration.
func Configure(params *Params, cfg *config.Config) {
	if params.FPS > 0 {
		cfg.FPS = params.FPS
	}
	if params.Frames > 0 {
		cfg.TotalFrames = params.Frames
	}
	if s := strings.TrimSpace(params.StorageURL); s != "" {
		cfg.StorageURL = s
	}
	if params.Debug {
		cfg.LogLevel = string(logger.DebugLevel)
	}
}

// storage builds the hosted store lookup, or nil when none is configured.
// A missing key only limits the lookup to public objects.
func storage(cfg *config.Config) *media.StorageResolver {
	if cfg.StorageURL == "" {
		return nil
	}
	key, err := credentials.Key()
	if err != nil {
		logger.Info("no storage key, using public access", zap.Error(err))
	}
	return &media.StorageResolver{
		BaseURL: cfg.StorageURL,
		Bucket:  cfg.StorageBucket,
		Key:     key,
	}
}

func Run(params *Params) error {
	cfg := config.Load()
	Configure(params, cfg)

	if err := logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}); err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer logger.Sync()

	p, err := project.LoadOrNew(params.Project)
	if err != nil {
		return err
	}

	if !tui.CheckDependency(cfg.MPVPath) {
		logger.Warn("preview player not found", zap.String("player", cfg.MPVPath))
	}

	m := tui.New(tui.Options{
		Path:    params.Project,
		Project: p,
		Config:  cfg,
		Storage: storage(cfg),
	})
	defer m.Close()

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	if fm, ok := final.(tui.Model); ok && len(fm.Statuses()) > 0 {
		fmt.Print(tui.StyleOutput(fm.Statuses()))
	}
	return nil
}
