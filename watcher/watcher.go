package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"imagepro/validation"
)

const DefaultDebounce = 500 * time.Millisecond

var ErrOutputInsideWatch = errors.New("output directory must differ from the watched directory")

// Watcher reports JPEG files that appear or change in one directory. Bursts
// of events for the same file are collapsed into a single notification.
type Watcher struct {
	dir       string
	outputDir string
	debounce  time.Duration
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
}

type Options struct {
	Dir       string
	OutputDir string
	Debounce  time.Duration
	Logger    *zap.Logger
}

func NewWatcher(opts Options) (*Watcher, error) {
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch dir: %w", err)
	}
	outputDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}
	if dir == outputDir {
		return nil, ErrOutputInsideWatch
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		dir:       dir,
		outputDir: outputDir,
		debounce:  debounce,
		logger:    logger,
		watcher:   fsWatcher,
	}, nil
}

// Run watches until ctx is done, sending each settled JPEG path to out. It
// closes out before returning.
func (w *Watcher) Run(ctx context.Context, out chan<- string) error {
	defer close(out)

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", w.dir, err)
	}
	w.logger.Info("Watching folder", zap.String("dir", w.dir))

	d := newDebouncer(w.debounce)
	defer d.close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.wants(event) {
				d.touch(event.Name)
			}

		case f := <-d.fired:
			if !d.settle(f) {
				continue
			}
			w.logger.Debug("File settled", zap.String("path", f.name))
			select {
			case out <- f.name:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

type firing struct {
	name string
	gen  uint64
}

type pendingTimer struct {
	timer *time.Timer
	gen   uint64
}

// debouncer holds one timer per file. Every touch starts a new generation,
// and only a firing from the latest generation settles the file; a timer
// that fired while being replaced is ignored.
type debouncer struct {
	delay   time.Duration
	fired   chan firing
	stop    chan struct{}
	gen     uint64
	pending map[string]pendingTimer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		fired:   make(chan firing),
		stop:    make(chan struct{}),
		pending: make(map[string]pendingTimer),
	}
}

func (d *debouncer) touch(name string) {
	if p, ok := d.pending[name]; ok {
		p.timer.Stop()
	}
	d.gen++
	f := firing{name: name, gen: d.gen}
	d.pending[name] = pendingTimer{
		gen: f.gen,
		timer: time.AfterFunc(d.delay, func() {
			select {
			case d.fired <- f:
			case <-d.stop:
			}
		}),
	}
}

// settle reports whether f is the latest timer for its file, forgetting the
// file if so.
func (d *debouncer) settle(f firing) bool {
	p, ok := d.pending[f.name]
	if !ok || p.gen != f.gen {
		return false
	}
	delete(d.pending, f.name)
	return true
}

func (d *debouncer) close() {
	close(d.stop)
	for _, p := range d.pending {
		p.timer.Stop()
	}
}

func (w *Watcher) wants(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if !validation.IsJPEGExtension(base) {
		return false
	}

	dir, err := filepath.Abs(filepath.Dir(event.Name))
	if err != nil || dir == w.outputDir {
		return false
	}
	return true
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
