package pinning

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultFallbackTimeout bounds the wait on the secondary provider before
// the upload is retried against the primary.
const DefaultFallbackTimeout = 3 * time.Second

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFallbackTimeout overrides the bounded wait on the secondary provider.
func WithFallbackTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger attaches a logger for fallback and failure events.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// Orchestrator routes uploads to the preferred provider and applies the
// single secondary-to-primary fallback.
type Orchestrator struct {
	primary   Pinner
	secondary Pinner
	timeout   time.Duration
	log       *slog.Logger
}

// NewOrchestrator creates an orchestrator over the two provider adapters.
func NewOrchestrator(primary, secondary Pinner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		primary:   primary,
		secondary: secondary,
		timeout:   DefaultFallbackTimeout,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New creates an orchestrator wired to real Pinata and Lighthouse adapters.
func New(cfg Config, opts ...Option) *Orchestrator {
	opts = append([]Option{WithFallbackTimeout(cfg.FallbackTimeout)}, opts...)
	return NewOrchestrator(NewPinata(cfg.Pinata), NewLighthouse(cfg.Lighthouse), opts...)
}

// Upload pins the file via the preferred provider and reports the outcome.
//
// The fallback policy is deliberately the superset one: a secondary upload
// falls back to the primary on an adapter error, a failed result, or the
// bounded-wait timeout. Primary uploads never fall back. Each adapter is
// attempted at most once per call, so Upload returns within the fallback
// timeout plus one primary round trip. It never panics past this boundary.
func (o *Orchestrator) Upload(ctx context.Context, f File, preferred Provider) Outcome {
	if preferred != ProviderLighthouse {
		preferred = ProviderPinata
	}

	if preferred == ProviderPinata {
		cid, err := o.pin(ctx, o.primary, f)
		if err != nil {
			o.log.WarnContext(ctx, "primary pin failed", "provider", ProviderPinata, "error", err)
			return Outcome{Provider: ProviderPinata, Message: err.Error()}
		}
		return Outcome{Success: true, CID: cid, Provider: ProviderPinata}
	}

	type pinResult struct {
		cid string
		err error
	}

	// The secondary attempt races a timer. The losing branch is not
	// cancelled: a pin that resolves after the caller has moved on simply
	// has its result discarded, leaving at worst a redundant copy on the
	// remote service.
	results := make(chan pinResult, 1)
	go func() {
		cid, err := o.pin(context.WithoutCancel(ctx), o.secondary, f)
		results <- pinResult{cid: cid, err: err}
	}()

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		if res.err == nil {
			return Outcome{Success: true, CID: res.cid, Provider: ProviderLighthouse}
		}
		o.log.WarnContext(ctx, "secondary pin failed, falling back",
			"provider", ProviderLighthouse, "error", res.err)
	case <-timer.C:
		o.log.WarnContext(ctx, "secondary pin timed out, falling back",
			"provider", ProviderLighthouse, "timeout", o.timeout)
	case <-ctx.Done():
		return Outcome{Provider: ProviderLighthouse, Message: ctx.Err().Error()}
	}

	cid, err := o.pin(ctx, o.primary, f)
	if err != nil {
		o.log.WarnContext(ctx, "fallback pin failed", "provider", ProviderPinata, "error", err)
		return Outcome{Provider: ProviderPinata, Fallback: true, Message: err.Error()}
	}
	return Outcome{Success: true, CID: cid, Provider: ProviderPinata, Fallback: true}
}

// pin converts adapter panics into errors so no failure escapes Upload.
func (o *Orchestrator) pin(ctx context.Context, p Pinner, f File) (cid string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrAdapterPanic, r)
		}
	}()
	return p.Pin(ctx, f)
}
