package monitor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const changeOps = fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove

// WatchFile calls onChange whenever path is created, written, renamed or
// removed. The parent directory is watched so that atomic replacements
// (write to temp file, rename over) are seen. Watching stops when ctx is done.
func WatchFile(ctx context.Context, path string, onChange func(), log *zap.Logger) error {
	target := filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&changeOps == 0 {
					continue
				}
				log.Debug("Certificate file changed",
					zap.String("path", ev.Name),
					zap.String("op", ev.Op.String()))
				onChange()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("File watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
