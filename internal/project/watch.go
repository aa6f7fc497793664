package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Stamp identifies one version of a file on disk.
type Stamp struct {
	Size    int64
	ModTime time.Time
}

func StampOf(path string) (Stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{Size: info.Size(), ModTime: info.ModTime()}, nil
}

// WaitForChange blocks until path is written, created or renamed into
// place, or ctx ends. The parent directory is watched so atomic saves
// that swap the file are still seen.
func WaitForChange(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// Watch calls fn after every change to path until ctx ends, passing the
// reloaded project and its stamp, or the error that kept it from loading.
// It returns nil once ctx is cancelled.
func Watch(ctx context.Context, path string, fn func(*Project, Stamp, error)) error {
	for {
		if err := WaitForChange(ctx, path); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		p, err := Load(path)
		if err != nil {
			logger.Warn("project reload failed", zap.String("path", path), zap.Error(err))
			fn(nil, Stamp{}, err)
			continue
		}
		stamp, err := StampOf(path)
		fn(p, stamp, err)
	}
}
