package activity

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Directories whose churn is build or VCS noise, not editing.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
}

// Watcher reports editing activity inside a workspace tree. Every qualifying
// filesystem event under the root produces one activity signal.
type Watcher struct {
	root       string
	onActivity func()
	logger     *slog.Logger
	watcher    *fsnotify.Watcher
}

// NewWatcher creates a watcher over the workspace root. Start begins
// delivery.
func NewWatcher(root string, onActivity func(), logger *slog.Logger) (*Watcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create filesystem watcher: %w", err)
	}
	return &Watcher{
		root:       root,
		onActivity: onActivity,
		logger:     logger,
		watcher:    inner,
	}, nil
}

// Start registers the workspace tree and begins delivering activity signals.
func (watcher *Watcher) Start() error {
	if err := watcher.addTree(watcher.root); err != nil {
		return err
	}
	go watcher.loop()
	return nil
}

// Close stops event delivery.
func (watcher *Watcher) Close() error {
	return watcher.watcher.Close()
}

func (watcher *Watcher) loop() {
	for {
		select {
		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return
			}
			watcher.handleEvent(event)
		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return
			}
			watcher.logger.Warn("workspace watch error", "error", err)
		}
	}
}

func (watcher *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if watcher.skippedPath(event.Name) {
		return
	}

	// New directories join the watch so edits inside them keep counting.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.addTree(event.Name); err != nil {
				watcher.logger.Warn("watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	watcher.onActivity()
}

func (watcher *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped, not fatal.
			watcher.logger.Debug("skip unreadable path", "path", path, "error", walkErr)
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && skippedDirs[entry.Name()] {
			return filepath.SkipDir
		}
		if err := watcher.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (watcher *Watcher) skippedPath(path string) bool {
	relative, err := filepath.Rel(watcher.root, path)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(relative, string(filepath.Separator)) {
		if skippedDirs[segment] {
			return true
		}
	}
	return false
}
