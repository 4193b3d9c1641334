package daemon

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/muaviaUsmani/gpaper/internal/logger"
)

// watch reloads the configuration whenever its file is written or replaced.
// The parent directory is watched so editors that save by renaming a
// temporary file over the config are still seen.
func (d *Daemon) watch(ctx context.Context) {
	log := d.log.WithComponent(logger.ComponentWatcher)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("Watcher creation failed", "error", err)
		return
	}
	defer func() {
		_ = watcher.Close()
	}()

	target := filepath.Clean(d.configPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		log.Error("Watcher add failed", "dir", filepath.Dir(target), "error", err)
		return
	}
	log.Debug("Watching config", "path", target)

	// A single save often produces several events; reload once they settle.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Debug("Config changed", "op", event.Op.String())
				timer.Reset(d.debounce)
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Warn("Config removed, keeping current schedule", "path", target)
			}
		case <-timer.C:
			_ = d.Reload(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("Watcher error", "error", err)
		}
	}
}
