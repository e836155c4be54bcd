// Package analytics delivers playback events to storage without making
// the caller wait.
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"contentHub/internal/metrics"
	"contentHub/internal/models"
)

// Emitter accepts events best-effort: Emit never blocks and never fails.
type Emitter interface {
	Emit(event models.VideoEvent)
}

type Sink interface {
	InsertVideoEvent(ctx context.Context, event *models.VideoEvent) error
}

// AsyncEmitter queues events for a single writer goroutine. A full queue
// drops the event and counts it.
type AsyncEmitter struct {
	sink         Sink
	queue        chan models.VideoEvent
	writeTimeout time.Duration
	metrics      metrics.Recorder
	log          zerolog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncEmitter(sink Sink, buffer int, recorder metrics.Recorder, log zerolog.Logger) *AsyncEmitter {
	if buffer <= 0 {
		buffer = 1
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	e := &AsyncEmitter{
		sink:         sink,
		queue:        make(chan models.VideoEvent, buffer),
		writeTimeout: 5 * time.Second,
		metrics:      recorder,
		log:          log.With().Str("component", "analytics").Logger(),
		done:         make(chan struct{}),
	}

	go e.run()

	return e
}

func (e *AsyncEmitter) Emit(event models.VideoEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		e.drop(event, "эмиттер закрыт")
		return
	}

	select {
	case e.queue <- event:
	default:
		e.drop(event, "очередь событий переполнена")
	}
}

// Close stops accepting events and waits until queued ones are written or ctx ends.
func (e *AsyncEmitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *AsyncEmitter) run() {
	defer close(e.done)

	for event := range e.queue {
		e.write(event)
	}
}

func (e *AsyncEmitter) write(event models.VideoEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("паника при записи события")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), e.writeTimeout)
	defer cancel()

	if err := e.sink.InsertVideoEvent(ctx, &event); err != nil {
		e.log.Warn().Err(err).Str("post_id", event.PostID).Str("event", string(event.EventType)).Msg("не удалось записать событие видео")
	}
}

func (e *AsyncEmitter) drop(event models.VideoEvent, reason string) {
	e.metrics.RecordEventDropped()
	e.log.Debug().Str("post_id", event.PostID).Msg(reason)
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(models.VideoEvent) {}
