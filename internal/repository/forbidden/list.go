// Package forbidden holds the banned-word list loaded from a JSON file.
package forbidden

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settleDelay lets editors finish atomic writes before the file is re-read.
const settleDelay = 100 * time.Millisecond

// List is a concurrent-safe set of banned words. A keyword is forbidden when it
// contains any word, ignoring case.
type List struct {
	path   string
	logger *zap.Logger

	mu    sync.RWMutex
	words []string
}

// New creates a list backed by path and loads it. A missing or malformed file
// leaves the list empty and is only logged.
func New(path string, logger *zap.Logger) *List {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &List{path: filepath.Clean(path), logger: logger}
	if err := l.Load(); err != nil {
		logger.Error("forbidden word list not loaded", zap.String("path", l.path), zap.Error(err))
	}
	return l
}

// NewStatic creates a list from words without a backing file.
func NewStatic(words ...string) *List {
	l := &List{logger: zap.NewNop()}
	l.set(words)
	return l
}

// Load re-reads the file. On error the current words are kept.
func (l *List) Load() error {
	if l.path == "" {
		return fmt.Errorf("forbidden word list has no path")
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", l.path, err)
	}
	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return fmt.Errorf("parse %s: %w", l.path, err)
	}
	l.set(words)
	return nil
}

func (l *List) set(words []string) {
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			normalized = append(normalized, w)
		}
	}
	l.mu.Lock()
	l.words = normalized
	l.mu.Unlock()
}

// IsForbidden reports whether keyword contains a banned word.
func (l *List) IsForbidden(keyword string) bool {
	kw := strings.ToLower(keyword)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, w := range l.words {
		if strings.Contains(kw, w) {
			return true
		}
	}
	return false
}

// Len returns the number of loaded words.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.words)
}

// Watch reloads the list whenever the file changes until ctx is done.
// The parent directory is watched so atomic replaces are seen too.
func (l *List) Watch(ctx context.Context) error {
	if l.path == "" {
		return fmt.Errorf("forbidden word list has no path")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(l.path), err)
	}
	l.logger.Info("watching forbidden word list", zap.String("path", l.path))

	go l.loop(ctx, watcher)
	return nil
}

func (l *List) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() {
		if err := watcher.Close(); err != nil {
			l.logger.Warn("close forbidden list watcher", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != l.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			time.Sleep(settleDelay)
			if err := l.Load(); err != nil {
				l.logger.Error("reload forbidden word list", zap.String("event", event.Op.String()), zap.Error(err))
				continue
			}
			l.logger.Info("forbidden word list reloaded", zap.Int("words", l.Len()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.logger.Warn("forbidden list watcher error", zap.Error(err))
		}
	}
}
