package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/GiGurra/cmder"
	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/project"
	"github.com/aschmelyun/robomovie/internal/transport"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

var clipboardWriteAll = clipboard.WriteAll

func frameTickCmd(tok transport.Token, fps int) tea.Cmd {
	return tea.Tick(transport.Interval(fps), func(t time.Time) tea.Msg {
		return frameTickMsg{token: tok, at: t}
	})
}

func notifyTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(max(d, time.Millisecond), func(t time.Time) tea.Msg {
		return notifyTickMsg(t)
	})
}

func resolveMediaCmd(ctx context.Context, r media.Resolver, sceneID string, reseed bool) tea.Cmd {
	return func() tea.Msg {
		res, err := r.Resolve(ctx, sceneID)
		if err != nil {
			return mediaResolvedMsg{sceneID: sceneID, err: fmt.Errorf("failed to resolve media: %w", err)}
		}
		return mediaResolvedMsg{sceneID: sceneID, media: res, reseed: reseed}
	}
}

func saveProjectCmd(path string, p *project.Project) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return errorMsg{err: errors.New("no project file to save to")}
		}
		if err := project.Save(path, p); err != nil {
			return errorMsg{err: err}
		}
		stamp, err := project.StampOf(path)
		if err != nil {
			return errorMsg{err: err}
		}
		return projectSavedMsg{path: path, stamp: stamp}
	}
}

// watchProject forwards every reload seen by project.Watch until ctx
// ends. The channel is closed once watching stops.
func watchProject(ctx context.Context, path string) <-chan projectChangedMsg {
	changes := make(chan projectChangedMsg)
	go func() {
		defer close(changes)
		send := func(msg projectChangedMsg) {
			select {
			case changes <- msg:
			case <-ctx.Done():
			}
		}
		err := project.Watch(ctx, path, func(p *project.Project, stamp project.Stamp, err error) {
			send(projectChangedMsg{project: p, stamp: stamp, err: err})
		})
		if err != nil {
			logger.Warn("project watch stopped", zap.String("path", path), zap.Error(err))
			send(projectChangedMsg{err: err})
		}
	}()
	return changes
}

// nextChangeCmd waits for the next reload. It returns nil once the
// watcher has stopped.
func nextChangeCmd(changes <-chan projectChangedMsg) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-changes
		if !ok {
			return nil
		}
		return msg
	}
}

// previewCmd plays source in an external player from start, matching the
// transport's rate and volume. Cancelling ctx stops the player.
func previewCmd(ctx context.Context, player, source string, start, rate, volume float64) tea.Cmd {
	return func() tea.Msg {
		res := cmder.New(
			player,
			"--really-quiet",
			fmt.Sprintf("--start=%.3f", start),
			fmt.Sprintf("--speed=%g", rate),
			fmt.Sprintf("--volume=%.0f", volume*100),
			source,
		).Run(ctx)
		if ctx.Err() != nil {
			return previewDoneMsg{}
		}
		if res.Err != nil {
			logger.Warn("preview failed", zap.String("player", player), zap.String("source", source), zap.Error(res.Err))
			if res.Combined != "" {
				return previewDoneMsg{err: fmt.Errorf("failed to preview: %w\n%s", res.Err, strings.TrimSpace(res.Combined))}
			}
			return previewDoneMsg{err: fmt.Errorf("failed to preview: %w", res.Err)}
		}
		return previewDoneMsg{}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWriteAll(text); err != nil {
			return errorMsg{err: fmt.Errorf("failed to copy: %w", err)}
		}
		return copiedMsg{text: text}
	}
}

// StyleOutput renders statuses as a bulleted tree, the last one closing it.
func StyleOutput(statuses []string) string {
	var styledStatuses []string
	for i, status := range statuses {
		bullet := "├"
		if i == len(statuses)-1 {
			bullet = "└"
		}
		styledStatuses = append(styledStatuses, BulletStyle.Render(bullet)+TextStyle.Render(status))
	}
	return strings.Join(styledStatuses, "\n") + "\n"
}

func CheckDependency(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
