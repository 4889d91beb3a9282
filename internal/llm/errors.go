package llm

import "fmt"

// ProviderError wraps a failure from a single model attempt. Transport
// errors, auth failures, quota exhaustion, and provider-side rejections all
// look the same to the dispatcher: an opaque reason to try the next
// candidate.
type ProviderError struct {
	Model string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExhaustedError is the terminal dispatcher failure: every candidate was
// attempted and none succeeded. Last holds only the final candidate's
// error, for server-side diagnostics; per-candidate detail lives in the
// logs, not here.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return "all models failed: no candidates configured"
	}
	return fmt.Sprintf("all models failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
