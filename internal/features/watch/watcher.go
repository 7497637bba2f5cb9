// Package watch re-renders figures when their input files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"polo-charts/internal/features/charts"
	"polo-charts/internal/infra/fs"
	"polo-charts/internal/infra/log"
)

// RenderFunc renders one figure.
type RenderFunc func(ctx context.Context, fig charts.Figure) error

type Options struct {
	Debounce time.Duration // quiet period after the last event before rendering
	Settle   time.Duration // max wait for a changed file to become non-empty
}

// Stats counts what the watcher has done.
type Stats struct {
	Events        int
	Renders       int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	render  RenderFunc
	opts    Options

	figures []charts.Figure
	byInput map[string][]int // absolute input path to figure indexes
	dirs    []string
	pending map[string]time.Time

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	stats   Stats
}

// New prepares a watcher for the inputs of figures. Nothing is watched until Start.
func New(figures []charts.Figure, render RenderFunc, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.Settle <= 0 {
		opts.Settle = 2 * time.Second
	}

	byInput := make(map[string][]int)
	dirSet := make(map[string]bool)
	for i, fig := range figures {
		for _, in := range fig.Inputs() {
			abs, err := filepath.Abs(in)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", in, err)
			}
			byInput[abs] = append(byInput[abs], i)
			dirSet[filepath.Dir(abs)] = true
		}
	}
	if len(byInput) == 0 {
		return nil, fmt.Errorf("no input files to watch")
	}
	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: watcher,
		render:  render,
		opts:    opts,
		figures: figures,
		byInput: byInput,
		dirs:    dirs,
		pending: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start watches every input directory and processes events in the background.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			w.watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.LogDebug("Watching directory", zap.String("dir", dir))
	}

	go w.run(ctx)
	log.LogInfo("Watcher started", zap.Int("inputs", len(w.byInput)), zap.Int("figures", len(w.figures)))
	return nil
}

// Stop ends the event loop and releases the watch handle. Safe to call twice,
// and without Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		log.LogError("Error closing watcher", zap.Error(err))
	}
	log.LogInfo("Watcher stopped")
}

func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.opts.Debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	debounceTicker := time.NewTicker(tick)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.LogError("Watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processDebounced(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	path := filepath.Clean(event.Name)
	if _, ok := w.byInput[path]; !ok {
		return
	}

	log.LogDebug("Input changed", zap.String("path", path), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = path
	w.stats.LastEventTime = time.Now()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var due []string
	for path, t := range w.pending {
		if now.Sub(t) >= w.opts.Debounce {
			due = append(due, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(due) == 0 {
		return
	}
	sort.Strings(due)

	// a figure reading several changed inputs renders once
	figs := make(map[int]bool)
	var order []int
	for _, path := range due {
		if err := fs.WaitForFile(ctx, path, w.opts.Settle); err != nil {
			log.LogWarn("Changed input not ready", zap.String("path", path), zap.Error(err))
			continue
		}
		for _, i := range w.byInput[path] {
			if !figs[i] {
				figs[i] = true
				order = append(order, i)
			}
		}
	}
	sort.Ints(order)

	for _, i := range order {
		w.renderFigure(ctx, w.figures[i])
	}
}

func (w *Watcher) renderFigure(ctx context.Context, fig charts.Figure) {
	start := time.Now()
	err := w.render(ctx, fig)

	w.mu.Lock()
	if err != nil {
		w.stats.Errors++
	} else {
		w.stats.Renders++
	}
	w.mu.Unlock()

	if err != nil {
		log.LogError("Re-render failed", zap.String("figure", fig.Name), zap.Error(err))
		return
	}
	log.LogSuccess("Re-rendered "+fig.Name, zap.Int64("duration_ms", time.Since(start).Milliseconds()))
}
