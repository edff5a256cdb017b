package main

import (
	"context"
	"path/filepath"

	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/fsnotify/fsnotify"
)

// watch runs the job each time the input file is written,
// until ctx is done. Rendering errors are logged.
func watch(ctx context.Context, j *job) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// editors often replace the file : watch the directory
	input, err := filepath.Abs(j.input)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return err
	}

	logger := svgdom.Logger()
	logger.Info("watching", "input", j.input)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isUpdate(event, input) {
				continue
			}
			if err := j.run(); err != nil {
				logger.Error("rendering failed", "input", j.input, "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher", "err", err)
		}
	}
}

// isUpdate returns true for the events modifying the file at path.
func isUpdate(event fsnotify.Event, path string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
