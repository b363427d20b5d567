package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sitewright/queryscan/internal/discover"
)

const (
	baseInterval = 1 * time.Second
	maxInterval  = 60 * time.Second
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// RescanFunc is the callback invoked with the changed files when the
// watched source tree differs from the last snapshot.
type RescanFunc func(ctx context.Context, files []discover.FileInfo) error

// Watcher polls a source root for file changes and triggers re-extraction.
// Polling keeps the dependency surface flat and behaves identically across
// platforms; the interval adapts to tree size.
type Watcher struct {
	rootPath string
	rescanFn RescanFunc
	snapshot map[string]fileSnapshot
	interval time.Duration
}

// New creates a Watcher over rootPath. rescanFn is called when changes are
// detected.
func New(rootPath string, rescanFn RescanFunc) *Watcher {
	return &Watcher{
		rootPath: rootPath,
		rescanFn: rescanFn,
		interval: baseInterval,
	}
}

// Run blocks until ctx is cancelled, polling whenever the adaptive
// interval has elapsed. The first poll captures a baseline without
// triggering a rescan.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(baseInterval)
	defer ticker.Stop()

	nextPoll := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Now().Before(nextPoll) {
				continue
			}
			w.poll(ctx)
			nextPoll = time.Now().Add(w.interval)
		}
	}
}

// poll captures a snapshot of the source tree and compares it with the
// previous one.
func (w *Watcher) poll(ctx context.Context) {
	if _, err := os.Stat(w.rootPath); err != nil {
		slog.Warn("watcher.root_gone", "path", w.rootPath)
		w.interval = maxInterval
		return
	}

	files, err := discover.Discover(ctx, w.rootPath, nil)
	if err != nil {
		slog.Warn("watcher.discover", "path", w.rootPath, "err", err)
		return
	}

	snap := captureSnapshot(files)
	w.interval = pollInterval(len(snap))

	if w.snapshot == nil {
		slog.Debug("watcher.baseline", "path", w.rootPath, "files", len(snap))
		w.snapshot = snap
		return
	}

	changed := changedFiles(w.snapshot, snap, files)
	if len(changed) == 0 {
		return
	}

	slog.Info("watcher.changed", "path", w.rootPath, "files", len(changed))
	if err := w.rescanFn(ctx, changed); err != nil {
		slog.Warn("watcher.rescan", "path", w.rootPath, "err", err)
		// Keep the old snapshot so the next cycle retries
		return
	}
	w.snapshot = snap
}

// captureSnapshot records mtime+size for each discovered file.
func captureSnapshot(files []discover.FileInfo) map[string]fileSnapshot {
	snap := make(map[string]fileSnapshot, len(files))
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		snap[f.RelPath] = fileSnapshot{modTime: info.ModTime(), size: info.Size()}
	}
	return snap
}

// changedFiles returns the files that are new or differ from the previous
// snapshot. Deleted files do not appear; the extractor's cache keys them
// out naturally.
func changedFiles(prev, next map[string]fileSnapshot, files []discover.FileInfo) []discover.FileInfo {
	var changed []discover.FileInfo
	for _, f := range files {
		nextSnap, ok := next[f.RelPath]
		if !ok {
			continue
		}
		prevSnap, existed := prev[f.RelPath]
		if !existed || !prevSnap.modTime.Equal(nextSnap.modTime) || prevSnap.size != nextSnap.size {
			changed = append(changed, f)
		}
	}
	return changed
}

// pollInterval computes the adaptive interval from file count.
// 1s base + 1s per 500 files, capped at 60s.
func pollInterval(fileCount int) time.Duration {
	ms := 1000 + (fileCount/500)*1000
	if ms > 60000 {
		ms = 60000
	}
	return time.Duration(ms) * time.Millisecond
}
