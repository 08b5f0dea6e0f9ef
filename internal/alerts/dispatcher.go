package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Currency shown in alert headers. Market payouts are in rubles.
const Currency = "RUB"

// Request is one alert waiting to be delivered.
type Request struct {
	Amount   string
	Username string
	Message  string
}

// Sender delivers a single alert to the notification service.
type Sender interface {
	SendAlert(ctx context.Context, header, message string) error
}

// Header renders the alert title for a payment.
func Header(username, amount string) string {
	return fmt.Sprintf("%s — %s %s", username, amount, Currency)
}

// Dispatcher decouples payment detection from alert delivery: an
// unbounded FIFO fed by the monitor and drained by a single consumer
// goroutine, so a slow or failing send can never reorder or duplicate
// alerts. Delivery is at-most-once: a failed send is reported and
// dropped, and Stop discards whatever is still queued.
type Dispatcher struct {
	sender  Sender
	log     *slog.Logger
	onError func(string)

	mu      sync.Mutex
	queue   []Request
	wake    chan struct{}
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewDispatcher creates a dispatcher for the given sender.
func NewDispatcher(sender Sender, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		log:    log,
		wake:   make(chan struct{}, 1),
	}
}

// SetErrorFunc registers a callback invoked with a human-readable message
// for every failed delivery.
func (d *Dispatcher) SetErrorFunc(fn func(string)) {
	d.mu.Lock()
	d.onError = fn
	d.mu.Unlock()
}

// Start launches the consumer goroutine. No-op if already started.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}

	consumerCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true

	go d.consume(consumerCtx, d.done)
}

// Stop cancels the consumer and discards any queued requests.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	done := d.done
	d.mu.Unlock()

	cancel()
	<-done

	d.mu.Lock()
	d.queue = nil
	d.running = false
	d.mu.Unlock()
}

// Enqueue appends a request to the tail. It never blocks the caller.
func (d *Dispatcher) Enqueue(req Request) {
	d.mu.Lock()
	d.queue = append(d.queue, req)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of requests waiting for delivery.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *Dispatcher) pop() (Request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) == 0 {
		return Request{}, false
	}

	req := d.queue[0]
	d.queue = d.queue[1:]
	return req, true
}

func (d *Dispatcher) consume(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		if ctx.Err() != nil {
			return
		}

		req, ok := d.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-d.wake:
			}
			continue
		}

		header := Header(req.Username, req.Amount)
		if err := d.sender.SendAlert(ctx, header, req.Message); err != nil {
			if ctx.Err() != nil {
				return
			}
			d.log.Error("send alert", "header", header, "error", err)
			d.reportError(fmt.Sprintf("Не удалось отправить оповещение: %v", err))
		}
	}
}

func (d *Dispatcher) reportError(msg string) {
	d.mu.Lock()
	fn := d.onError
	d.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
}
