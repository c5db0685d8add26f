package content

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultWatchDebounce = 2 * time.Second

// Watch calls onChange once content files under root have stopped changing for
// debounce. New subdirectories are picked up as they appear. It blocks until ctx
// is cancelled.
func Watch(ctx context.Context, root string, debounce time.Duration, onChange func(ctx context.Context)) error {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addTree(watcher, root); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// A no-op for plain files; directories get watched recursively.
				_ = addTree(watcher, event.Name)
			}
			if !isContentFile(event.Name) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err

		case <-timer.C:
			onChange(ctx)
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isContentFile(name string) bool {
	switch filepath.Ext(name) {
	case ".md", ".mdx":
		return true
	}
	return false
}
