package harness

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/derickschaefer/jsonperf/internal/normalize"
)

// Document is one named sample, normalized once at load time and treated as
// read-only for the life of the harness.
type Document struct {
	Name string
	Tree normalize.Tree
}

// EncodeFunc serializes a normalized tree.
type EncodeFunc func(v any) ([]byte, error)

// DecodeFunc parses bytes produced by the matching EncodeFunc.
type DecodeFunc func(data []byte) (any, error)

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used for per-trial diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClock replaces the time source. The default, time.Now, carries a
// monotonic reading, so elapsed times are immune to wall-clock changes.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) {
		if now != nil {
			h.now = now
		}
	}
}

// WithWarmup runs n untimed passes over all documents before measuring.
func WithWarmup(n int) Option {
	return func(h *Harness) {
		if n > 0 {
			h.warmup = n
		}
	}
}

// WithPace limits the harness to perSecond trials per second. Zero or
// negative means unlimited.
func WithPace(perSecond float64) Option {
	return func(h *Harness) {
		if perSecond > 0 {
			h.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// Harness runs timing trials. At most one run may be active at a time;
// further requests fail with ErrConcurrentRunRejected rather than queue.
type Harness struct {
	logger  *slog.Logger
	now     func() time.Time
	warmup  int
	limiter *rate.Limiter
	active  atomic.Bool
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Active reports whether a run is in progress.
func (h *Harness) Active() bool { return h.active.Load() }

// Run executes iterations passes over docs on the calling goroutine and
// returns the collected measurements.
//
// Cancellation of ctx is honoured between trials only. A canceled run
// returns the measurements gathered so far with Complete() == false and a
// nil error. A failing callback aborts the run with a *TrialError and no
// ResultSet.
func (h *Harness) Run(ctx context.Context, docs []Document, iterations int, encode EncodeFunc, decode DecodeFunc) (*ResultSet, error) {
	if err := validate(docs, iterations); err != nil {
		return nil, err
	}
	if !h.active.CompareAndSwap(false, true) {
		return nil, ErrConcurrentRunRejected
	}
	defer h.active.Store(false)
	return h.run(ctx, docs, iterations, encode, decode)
}

// Start runs the same loop as Run on a dedicated goroutine and returns
// immediately. Results are collected with Handle.Wait.
func (h *Harness) Start(ctx context.Context, docs []Document, iterations int, encode EncodeFunc, decode DecodeFunc) (*Handle, error) {
	if err := validate(docs, iterations); err != nil {
		return nil, err
	}
	if !h.active.CompareAndSwap(false, true) {
		return nil, ErrConcurrentRunRejected
	}

	ctx, cancel := context.WithCancel(ctx)
	hd := &Handle{done: make(chan struct{}), cancel: cancel}

	go func() {
		defer close(hd.done)
		defer h.active.Store(false)
		defer cancel()
		hd.rs, hd.err = h.run(ctx, docs, iterations, encode, decode)
	}()
	return hd, nil
}

// Handle tracks a run started with Start.
type Handle struct {
	done   chan struct{}
	cancel context.CancelFunc
	rs     *ResultSet
	err    error
}

// Done is closed once the run has finished, failed or been canceled.
func (hd *Handle) Done() <-chan struct{} { return hd.done }

// Cancel asks the run to stop before its next trial. It does not wait.
func (hd *Handle) Cancel() { hd.cancel() }

// Wait blocks until the run ends and returns a snapshot of its results.
func (hd *Handle) Wait() (*ResultSet, error) {
	<-hd.done
	if hd.err != nil {
		return nil, hd.err
	}
	return hd.rs.Snapshot(), nil
}

func validate(docs []Document, iterations int) error {
	if iterations < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	if len(docs) == 0 {
		return ErrNoDocuments
	}
	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		if seen[d.Name] {
			return fmt.Errorf("duplicate document name %q", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

func (h *Harness) run(ctx context.Context, docs []Document, iterations int, encode EncodeFunc, decode DecodeFunc) (*ResultSet, error) {
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	rs := NewResultSet(names...)

	for pass := 0; pass < h.warmup; pass++ {
		for _, doc := range docs {
			if h.pause(ctx) != nil {
				return rs, nil
			}
			if _, err := h.trial(doc, -1, encode, decode); err != nil {
				return nil, err
			}
		}
	}

	for i := 0; i < iterations; i++ {
		for _, doc := range docs {
			if err := h.pause(ctx); err != nil {
				h.logger.Info("run canceled",
					slog.Int("iteration", i),
					slog.String("document", doc.Name),
				)
				return rs, nil
			}
			m, err := h.trial(doc, i, encode, decode)
			if err != nil {
				return nil, err
			}
			rs.Add(doc.Name, m)
		}
		rs.iterations++
	}
	rs.complete = true
	return rs, nil
}

// pause is the only point at which a run observes cancellation.
func (h *Harness) pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.limiter != nil {
		return h.limiter.Wait(ctx)
	}
	return nil
}

// trial times one encode/decode cycle. Nothing else may run between the
// clock reads; logging happens after the second one.
func (h *Harness) trial(doc Document, iteration int, encode EncodeFunc, decode DecodeFunc) (m Measurement, err error) {
	phase := PhaseEncode
	defer func() {
		if r := recover(); r != nil {
			err = &TrialError{Document: doc.Name, Phase: phase, Iteration: iteration, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	start := h.now()
	data, encErr := encode(doc.Tree)
	t1 := h.now()
	if encErr != nil {
		return Measurement{}, &TrialError{Document: doc.Name, Phase: PhaseEncode, Iteration: iteration, Cause: encErr}
	}

	phase = PhaseDecode
	_, decErr := decode(data)
	t2 := h.now()
	if decErr != nil {
		return Measurement{}, &TrialError{Document: doc.Name, Phase: PhaseDecode, Iteration: iteration, Cause: decErr}
	}

	m = Measurement{
		EncodeMicros: micros(t1.Sub(start)),
		DecodeMicros: micros(t2.Sub(t1)),
	}
	h.logger.Debug("trial",
		slog.String("document", doc.Name),
		slog.Int("iteration", iteration),
		slog.Uint64("encode_us", m.EncodeMicros),
		slog.Uint64("decode_us", m.DecodeMicros),
	)
	return m, nil
}

func micros(d time.Duration) uint64 {
	if d < 0 {
		return 0
	}
	return uint64(d / time.Microsecond)
}
