// Package watch triggers rescans when a repository changes on disk.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const rescanDelay = 350 * time.Millisecond

// Watcher observes a repository's .git directory and invokes a callback
// after it changes. git touches many files per operation (refs, index,
// packfiles), so events are coalesced before the callback fires.
type Watcher struct {
	watcher *fsnotify.Watcher
	pending *coalescer
}

// New starts watching the repository rooted at repoPath and calls
// onChange after each burst of changes.
func New(repoPath string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		watcher: fsw,
		pending: newCoalescer(rescanDelay, onChange),
	}
	for _, path := range watchPaths(repoPath) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := fsw.Add(path); err != nil {
			return nil, errors.Join(fmt.Errorf("watch %s: %w", path, err), fsw.Close())
		}
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and cancels any pending rescan.
func (w *Watcher) Close() error {
	w.pending.stop()
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ignorePath(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.pending.trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

// watchPaths picks what to watch: the .git directory when present,
// otherwise the root itself (bare repositories).
func watchPaths(root string) []string {
	if root == "" {
		return nil
	}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		return []string{gitDir}
	}
	return []string{root}
}

// ignorePath filters transient files git creates while running.
func ignorePath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}

// afterFunc is swapped out in tests to drive timers deterministically.
var afterFunc = time.AfterFunc

// coalescer folds a burst of triggers into a single callback invocation
// once the burst has been quiet for the configured delay.
type coalescer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
	fn    func()
}

func newCoalescer(delay time.Duration, fn func()) *coalescer {
	return &coalescer{delay: delay, fn: fn}
}

func (c *coalescer) trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = afterFunc(c.delay, func() {
		c.mu.Lock()
		stale := gen != c.gen
		c.mu.Unlock()
		if stale {
			// A newer trigger or stop superseded this timer between its
			// firing and this callback running.
			return
		}
		c.fn()
	})
}

func (c *coalescer) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
