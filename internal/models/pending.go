package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// PendingRequest correlates a submitted user message with its in-flight
// response. It lives only until the response resolves.
type PendingRequest struct {
	Token     string
	Text      string
	StartedAt time.Time

	done    chan struct{}
	once    sync.Once
	outcome Message
	failed  bool
}

// NewPendingRequest creates a pending request with a fresh placeholder token
func NewPendingRequest(text string, at time.Time) *PendingRequest {
	return &PendingRequest{
		Token:     PendingTokenPrefix + uuid.NewString(),
		Text:      text,
		StartedAt: at,
		done:      make(chan struct{}),
	}
}

// Resolve records the terminal outcome. Only the first call has effect.
func (p *PendingRequest) Resolve(outcome Message, failed bool) bool {
	resolved := false
	p.once.Do(func() {
		p.outcome = outcome
		p.failed = failed
		resolved = true
		close(p.done)
	})
	return resolved
}

// Done is closed once the request has resolved
func (p *PendingRequest) Done() <-chan struct{} {
	return p.done
}

// Outcome returns the appended assistant message and whether it was the
// error reply. It must only be called after Done is closed.
func (p *PendingRequest) Outcome() (Message, bool) {
	return p.outcome, p.failed
}
