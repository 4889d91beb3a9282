package llm

import (
	"context"
	"log"
	"time"
)

// Result is a successful dispatch outcome: the generated text and the
// candidate that produced it.
type Result struct {
	Text  string
	Model string
}

// Dispatcher tries an ordered list of model candidates until one succeeds.
// The candidate list is fixed at construction and never reordered; each
// request walks it front to back, one in-flight provider call at a time,
// with no backoff between attempts. The Dispatcher itself is stateless per
// call and safe for concurrent use.
type Dispatcher struct {
	gen            Generator
	candidates     []string
	attemptTimeout time.Duration
}

func NewDispatcher(gen Generator, candidates []string, attemptTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		gen:            gen,
		candidates:     candidates,
		attemptTimeout: attemptTimeout,
	}
}

// Candidates returns the configured model list, in attempt order.
func (d *Dispatcher) Candidates() []string {
	return d.candidates
}

// Dispatch attempts each candidate in order and returns the first success.
// A candidate failure (including a per-attempt timeout) is logged and the
// loop moves on. When every candidate fails, or the list is empty, the
// error is an *ExhaustedError carrying only the last attempt's failure.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string) (Result, error) {
	var lastErr error

	for _, modelID := range d.candidates {
		attemptCtx := ctx
		cancel := func() {}
		if d.attemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, d.attemptTimeout)
		}

		text, err := d.gen.Generate(attemptCtx, modelID, prompt)
		cancel()

		if err == nil {
			log.Printf("✓ Response generated using %s", modelID)
			return Result{Text: text, Model: modelID}, nil
		}

		log.Printf("✗ %s failed, trying next: %v", modelID, err)
		lastErr = err
	}

	return Result{}, &ExhaustedError{Attempts: len(d.candidates), Last: lastErr}
}
