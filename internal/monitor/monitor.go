package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/undff/lzt-donate/internal/alerts"
	"github.com/undff/lzt-donate/internal/lzt"
	"github.com/undff/lzt-donate/internal/textfilter"
)

// PaymentSource fetches recent qualifying payments from the ledger. The
// call must be an idempotent read.
type PaymentSource interface {
	PaymentHistory(ctx context.Context, minAmount int) ([]lzt.Payment, error)
}

// AlertQueue decouples detection from delivery of alerts.
type AlertQueue interface {
	Start(ctx context.Context)
	Enqueue(req alerts.Request)
	Stop()
}

// BanwordSource supplies the current banned-word list. It is consulted
// once per poll cycle, so edits take effect on the next cycle.
type BanwordSource interface {
	Banwords() []string
}

// InitError means the seeding fetch failed at Start. The monitor stays
// stopped; the caller must retry Start explicitly.
type InitError struct {
	err error
}

func (e *InitError) Error() string {
	return "initialize payment monitor: " + e.err.Error()
}

func (e *InitError) Unwrap() error {
	return e.err
}

// Options holds the operator-configured monitor thresholds.
type Options struct {
	MinAmount     int
	CheckInterval time.Duration
	FilterURLs    bool
}

// Monitor polls the ledger for new payments, filters donor-supplied text
// and hands alerts to the dispatch queue. One poll goroutine owns the
// dedup state; configuration setters apply on the next cycle boundary.
type Monitor struct {
	source   PaymentSource
	queue    AlertQueue
	banwords BanwordSource // may be nil
	log      *slog.Logger

	mu         sync.Mutex
	minAmount  int
	interval   time.Duration
	filterURLs bool
	starting   bool
	running    bool
	cancel     context.CancelFunc
	loopDone   chan struct{}
	onPayment  func(lzt.Payment)
	onBatch    func([]lzt.Payment)
	onError    func(string)

	// Owned by the poll goroutine once the loop is running; seeded by
	// Start before the loop is spawned. Survives Stop/Start cycles so a
	// reconfiguration restart cannot re-alert.
	known         *tracker
	lastCheckTime int64

	errCooldown time.Duration
	stopGrace   time.Duration
	sleepStep   time.Duration
}

// New creates a monitor. banwords may be nil to disable word redaction.
func New(source PaymentSource, queue AlertQueue, banwords BanwordSource, opts Options, log *slog.Logger) *Monitor {
	if opts.MinAmount <= 0 {
		opts.MinAmount = 1
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = 60 * time.Second
	}

	return &Monitor{
		source:      source,
		queue:       queue,
		banwords:    banwords,
		log:         log,
		minAmount:   opts.MinAmount,
		interval:    opts.CheckInterval,
		filterURLs:  opts.FilterURLs,
		known:       newTracker(),
		errCooldown: 5 * time.Second,
		stopGrace:   5 * time.Second,
		sleepStep:   time.Second,
	}
}

// OnPayment registers a callback invoked once per newly detected payment,
// after filtering, before its alert is enqueued.
func (m *Monitor) OnPayment(fn func(lzt.Payment)) {
	m.mu.Lock()
	m.onPayment = fn
	m.mu.Unlock()
}

// OnPaymentsBatch registers a callback invoked once per poll cycle with
// the new payments of that cycle. Empty cycles do not invoke it.
func (m *Monitor) OnPaymentsBatch(fn func([]lzt.Payment)) {
	m.mu.Lock()
	m.onBatch = fn
	m.mu.Unlock()
}

// OnError registers a callback invoked with a human-readable message
// whenever a poll cycle fails.
func (m *Monitor) OnError(fn func(string)) {
	m.mu.Lock()
	m.onError = fn
	m.mu.Unlock()
}

// SetMinAmount takes effect on the next poll cycle.
func (m *Monitor) SetMinAmount(n int) {
	m.mu.Lock()
	if n > 0 {
		m.minAmount = n
	}
	m.mu.Unlock()
}

// SetCheckInterval takes effect on the next poll cycle.
func (m *Monitor) SetCheckInterval(d time.Duration) {
	m.mu.Lock()
	if d > 0 {
		m.interval = d
	}
	m.mu.Unlock()
}

// SetFilterURLs takes effect on the next poll cycle.
func (m *Monitor) SetFilterURLs(enabled bool) {
	m.mu.Lock()
	m.filterURLs = enabled
	m.mu.Unlock()
}

// Running reports whether the monitor is between a successful Start and a
// completed Stop.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Start seeds the dedup set from one fetch, then spawns the poll loop and
// the alert dispatch consumer and returns immediately. If the seeding
// fetch fails it returns an InitError and no background work is started.
// No-op if already running.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	// starting blocks a second Start for the duration of the seeding
	// fetch, which runs outside the lock.
	if m.running || m.starting {
		m.mu.Unlock()
		m.log.Info("payment monitor already running")
		return nil
	}
	m.starting = true
	minAmount := m.minAmount
	m.mu.Unlock()

	m.log.Info("starting payment monitor", "min_amount", minAmount)

	payments, err := m.source.PaymentHistory(ctx, minAmount)
	if err != nil {
		m.mu.Lock()
		m.starting = false
		m.mu.Unlock()
		return &InitError{err: err}
	}

	ids := make([]string, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.ID)
	}

	m.mu.Lock()
	m.known.seed(ids)
	m.lastCheckTime = time.Now().Unix()

	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.loopDone = make(chan struct{})
	m.running = true
	m.starting = false
	m.mu.Unlock()

	m.queue.Start(ctx)
	go m.loop(loopCtx, m.loopDone)

	m.log.Info("payment monitor started", "seeded", len(ids))
	return nil
}

// Stop signals cancellation to the poll loop, waits up to the grace
// period for it to unwind, then stops the dispatch consumer. Returns
// false if the monitor was not running. Always leaves the monitor
// stopped on return.
func (m *Monitor) Stop() bool {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return false
	}
	cancel := m.cancel
	done := m.loopDone
	m.running = false
	m.mu.Unlock()

	m.log.Info("stopping payment monitor")
	cancel()

	select {
	case <-done:
	case <-time.After(m.stopGrace):
		// Not fatal: an in-flight fetch is allowed to finish on its own.
		m.reportError("monitoring loop did not stop within the grace period")
	}

	m.queue.Stop()
	m.log.Info("payment monitor stopped")
	return true
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	m.log.Info("payment monitoring loop started")

	for {
		if ctx.Err() != nil {
			return
		}

		pause := m.cycle(ctx)
		if !m.sleep(ctx, pause) {
			m.log.Info("monitoring stopped during sleep")
			return
		}
	}
}

// cycle runs one detect-filter-dispatch iteration and returns how long to
// sleep before the next one: the configured interval, or the error
// cool-down if the cycle failed.
func (m *Monitor) cycle(ctx context.Context) time.Duration {
	m.mu.Lock()
	minAmount := m.minAmount
	interval := m.interval
	filterURLs := m.filterURLs
	onPayment := m.onPayment
	onBatch := m.onBatch
	m.mu.Unlock()

	var banwords []string
	if m.banwords != nil {
		banwords = m.banwords.Banwords()
	}

	// Captured before dispatch so delivery latency cannot shrink the
	// recency window of the next cycle.
	cycleStart := time.Now().Unix()

	payments, err := m.source.PaymentHistory(ctx, minAmount)
	if err != nil {
		if ctx.Err() != nil {
			return 0
		}
		m.log.Error("fetch payments", "error", err)
		m.reportError(fmt.Sprintf("Ошибка проверки платежей: %v", err))
		return m.errCooldown
	}

	var newPayments []lzt.Payment
	for _, p := range payments {
		if !m.known.isNew(p.ID, p.Timestamp, m.lastCheckTime) {
			continue
		}

		// Marked before any further processing so an overlapping or
		// retried cycle cannot double-alert the same payment.
		m.known.markKnown(p.ID)

		p.Username = textfilter.Apply(p.Username, banwords, filterURLs)
		p.Comment = textfilter.Apply(p.Comment, banwords, filterURLs)
		newPayments = append(newPayments, p)

		m.log.Info("new payment",
			"id", p.ID,
			"amount", p.Amount,
			"username", p.Username,
		)

		if onPayment != nil {
			onPayment(p)
		}

		m.queue.Enqueue(alerts.Request{
			Amount:   p.Amount,
			Username: p.Username,
			Message:  p.Comment,
		})
	}

	if len(newPayments) > 0 && onBatch != nil {
		onBatch(newPayments)
	}

	m.lastCheckTime = cycleStart
	return interval
}

// sleep waits for d in small increments so cancellation is observed
// within about one second regardless of the configured interval. Returns
// false when cancelled.
func (m *Monitor) sleep(ctx context.Context, d time.Duration) bool {
	for remaining := d; remaining > 0; {
		step := m.sleepStep
		if remaining < step {
			step = remaining
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(step):
		}

		remaining -= step
	}
	return true
}

func (m *Monitor) reportError(msg string) {
	m.mu.Lock()
	fn := m.onError
	m.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
}
