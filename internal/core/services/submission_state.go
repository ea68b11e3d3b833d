package services

import (
	"log/slog"
	"sync"
)

// SubmissionState is the per-attempt state of the submit pipeline.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateUploading  SubmissionState = "uploading"
	StateSubmitting SubmissionState = "submitting"
	StateSucceeded  SubmissionState = "succeeded"
	StateFailed     SubmissionState = "failed"
)

// submission tracks one attempt through the machine:
// Idle -> Validating -> (Invalid -> Idle) | [Uploading ->] Submitting ->
// (Failed -> Idle) | Succeeded -> Idle.
type submission struct {
	state  SubmissionState
	logger *slog.Logger
}

func newSubmission(logger *slog.Logger) *submission {
	return &submission{state: StateIdle, logger: logger}
}

func (m *submission) to(next SubmissionState) {
	m.logger.Debug("Submission state transition",
		slog.String("from", string(m.state)),
		slog.String("to", string(next)),
	)
	m.state = next
}

// inflightRegistry enforces the one-transaction-per-record rule: a second
// submit for the same record key is rejected while one is in flight.
type inflightRegistry struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflightRegistry() *inflightRegistry {
	return &inflightRegistry{keys: make(map[string]struct{})}
}

// begin reserves key, reporting false when a submission already holds it.
func (r *inflightRegistry) begin(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.keys[key]; busy {
		return false
	}
	r.keys[key] = struct{}{}
	return true
}

func (r *inflightRegistry) end(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, key)
}

// pendingDeletes is the two-step delete confirmation registry:
// Idle -> ConfirmPending -> (Cancelled -> Idle) | Confirmed -> Deleting.
// A delete can never fire without a token issued here.
type pendingDeletes struct {
	mu     sync.Mutex
	tokens map[int64]string
}

func newPendingDeletes() *pendingDeletes {
	return &pendingDeletes{tokens: make(map[int64]string)}
}

// request stores and returns the confirmation token for id, replacing any
// earlier pending request.
func (p *pendingDeletes) request(id int64, token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens[id] = token
}

// confirm consumes the pending token for id when it matches. The entry is
// cleared either way a confirmed delete turns out; a failed delete requires a
// fresh request.
func (p *pendingDeletes) confirm(id int64, token string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	expected, ok := p.tokens[id]
	if !ok || expected != token {
		return false
	}
	delete(p.tokens, id)
	return true
}

// cancel drops a pending request.
func (p *pendingDeletes) cancel(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.tokens, id)
}
