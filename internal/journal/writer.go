package journal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Recorder stores a single diagnostic line.
type Recorder interface {
	Record(ctx context.Context, line string) error
}

const recordTimeout = 5 * time.Second

// Writer moves Record calls off the caller's goroutine. Lines submitted
// while the buffer is full are dropped and counted.
type Writer struct {
	rec   Recorder
	log   *zap.Logger
	lines chan string
	done  chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

func NewWriter(rec Recorder, size int, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	if size <= 0 {
		size = 1
	}
	w := &Writer{
		rec:   rec,
		log:   log.Named("journal"),
		lines: make(chan string, size),
		done:  make(chan struct{}),
	}
	go w.loop()
	return w
}

// Submit never blocks. It reports whether the line was queued.
func (w *Writer) Submit(line string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.dropped.Add(1)
		return false
	}
	select {
	case w.lines <- line:
		return true
	default:
		w.dropped.Add(1)
		return false
	}
}

func (w *Writer) Dropped() int64 { return w.dropped.Load() }

// Close stops accepting lines and waits for the queued ones to be recorded.
func (w *Writer) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.lines)
	}
	w.mu.Unlock()
	<-w.done

	if n := w.dropped.Load(); n > 0 {
		w.log.Warn("dropped diagnostic lines", zap.Int64("count", n))
	}
}

func (w *Writer) loop() {
	defer close(w.done)
	for line := range w.lines {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := w.rec.Record(ctx, line); err != nil {
			w.log.Warn("record failed", zap.Error(err))
		}
		cancel()
	}
}
