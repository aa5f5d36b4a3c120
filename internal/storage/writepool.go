package storage

import (
	"context"
	"sync"
	"time"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
	"github.com/shivrajcodez/Real-Time-Chat-App/pkg/log"
)

// WritePool decouples message persistence from message delivery: the
// event-handling path enqueues and returns, a fixed set of workers drain
// the queue into the store. When the queue is saturated the task is
// dropped and logged rather than blocking the caller.
type WritePool struct {
	store   MessageStore
	mirror  Mirror // optional firehose, may be nil
	tasks   chan domain.ChatMessage
	timeout time.Duration
	wg      sync.WaitGroup

	// mu orders Enqueue against Close: the queue is only closed under the
	// write lock, so an in-flight enqueue never hits a closed channel.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewWritePool starts workers goroutines draining a queue of queueSize.
func NewWritePool(store MessageStore, mirror Mirror, queueSize, workers int, timeout time.Duration) *WritePool {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	p := &WritePool{
		store:   store,
		mirror:  mirror,
		tasks:   make(chan domain.ChatMessage, queueSize),
		timeout: timeout,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Enqueue hands a message to the background workers. It never blocks;
// a full or closed queue drops the task and reports false. Connections
// can still deliver sends while the server is shutting down, so an
// enqueue racing Close must degrade to a drop.
func (p *WritePool) Enqueue(msg domain.ChatMessage) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		l := log.L()
		l.Warn().Str(log.FieldRoomID, msg.RoomID).Str("sender", msg.Sender).Msg("persist pool closed, dropping message")
		return false
	}

	select {
	case p.tasks <- msg:
		return true
	default:
		l := log.L()
		l.Warn().Str(log.FieldRoomID, msg.RoomID).Str("sender", msg.Sender).Msg("persist queue full, dropping message")
		return false
	}
}

func (p *WritePool) worker() {
	defer p.wg.Done()

	for msg := range p.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)

		stored, err := p.store.Append(ctx, msg)
		if err != nil {
			l := log.L()
			l.Error().Err(err).Str(log.FieldRoomID, msg.RoomID).Msg("failed to persist message")
			cancel()
			continue
		}

		l := log.L()
		l.Debug().Int64("message_id", stored.ID).Str(log.FieldRoomID, stored.RoomID).Msg("message persisted")

		if p.mirror != nil {
			if err := p.mirror.Produce(ctx, stored); err != nil {
				l.Warn().Err(err).Int64("message_id", stored.ID).Msg("failed to mirror message")
			}
		}
		cancel()
	}
}

// Close drains outstanding tasks and stops the workers. Enqueues after
// Close are dropped, not panicked.
func (p *WritePool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})
	p.wg.Wait()
}
