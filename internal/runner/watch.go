package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watch solves every model once, then re-solves a model each time its file
// changes, until ctx is done. Changes are collected and flushed once per
// debounce period. report receives every run, failed ones included; a model
// error does not stop the watch.
func (r *Runner) Watch(ctx context.Context, paths []string, report func(Result, error)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	// 1. Watch parent directories: editors often save by rename, which
	//    drops a watch placed on the file itself.
	tracked := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		tracked[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err = fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		r.logger.Debug("Watching directory", slog.String("path", dir))
	}

	// 2. Initial pass.
	for _, p := range paths {
		if ctx.Err() != nil {
			return nil
		}
		report(r.Solve(ctx, p))
	}

	debounce := r.cfg.Watch.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	r.logger.Info("Watching models", slog.Int("models", len(paths)), slog.Duration("debounce", debounce))

	// 3. Event loop.
	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			p, isModel := tracked[filepath.Clean(event.Name)]
			if !isModel || event.Op == fsnotify.Chmod {
				continue
			}
			pending[p] = true
			r.logger.Debug("Model change detected", slog.String("path", p), slog.String("op", event.Op.String()))

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			pending = make(map[string]bool)
			for _, p := range batch {
				if ctx.Err() != nil {
					return nil
				}
				report(r.Solve(ctx, p))
			}
		}
	}
}
