package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/util"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 250 * time.Millisecond

// watch reloads the configured file whenever it changes. The directory is
// watched rather than the file so that editors that replace the file on
// save keep triggering reloads.
func (s *Server) watch(ctx context.Context) (*fsnotify.Watcher, error) {
	path, err := filepath.Abs(s.cfg.Location)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}

	reload := util.Debounce(reloadDelay, func() {
		if err := s.Load(ctx); err != nil {
			s.logger.Error("reload failed", "path", s.cfg.Location, "err", err)
		}
	})

	go func() {
		defer reload.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					s.logger.Debug("topology changed", "path", s.cfg.Location, "op", ev.Op.String())
					reload.Trigger()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watch error", "err", err)
			}
		}
	}()

	s.logger.Info("watching for changes", "path", s.cfg.Location)
	return w, nil
}
