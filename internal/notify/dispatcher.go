package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/contactdesk/internal/entity"
)

// Config is the notification settings injected at startup.
type Config struct {
	AdminEmail string
	FromEmail  string
	QueueSize  int
	Workers    int
	Timeout    time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}

// Dispatcher queues messages and delivers them on background workers.
// Delivery failures are logged and never reach the submitter.
type Dispatcher struct {
	cfg    Config
	sender Sender
	logger *zap.Logger

	queue chan Message
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts cfg.Workers delivery goroutines.
func NewDispatcher(cfg Config, sender Sender, logger *zap.Logger) *Dispatcher {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = NewLogSender(logger)
	}
	d := &Dispatcher{
		cfg:    cfg,
		sender: sender,
		logger: logger.Named("notify"),
		queue:  make(chan Message, cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// NotifyNewContact composes the admin alert for contact and queues it.
func (d *Dispatcher) NotifyNewContact(contact entity.Contact) bool {
	return d.Enqueue(ComposeContactSummary(contact, d.cfg))
}

// Enqueue queues msg without blocking. It reports false when the queue is
// full or the dispatcher is closed.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("notification dropped: dispatcher closed", zap.String("ref", msg.Ref))
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn("notification dropped: queue full", zap.String("ref", msg.Ref), zap.Int("queue_size", d.cfg.QueueSize))
		return false
	}
}

// Close stops accepting messages and waits for queued ones to be delivered
// or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
	defer cancel()

	start := time.Now()
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Warn("notification failed", zap.String("ref", msg.Ref), zap.String("to", msg.To), zap.Error(err))
		return
	}
	d.logger.Debug("notification sent", zap.String("ref", msg.Ref), zap.Duration("latency", time.Since(start)))
}
