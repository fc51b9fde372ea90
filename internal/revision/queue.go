package revision

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors returned by queue operations.
var (
	ErrRequestNotFound   = errors.New("revision request not found")
	ErrInvalidTransition = errors.New("invalid revision status transition")
)

// Status represents the state of a revision request.
type Status string

const (
	// StatusPending indicates the request is waiting to be claimed.
	StatusPending Status = "pending"

	// StatusClaimed indicates a worker has picked the request up.
	StatusClaimed Status = "claimed"

	// StatusResolved indicates the request was acted on.
	StatusResolved Status = "resolved"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusResolved
}

// Request records one regeneration demand, produced by timeline validation
// or by a failed artifact.
type Request struct {
	// ID uniquely identifies the request.
	ID string `json:"id"`

	// Stage is the timeline stage index the request concerns.
	Stage int `json:"stage"`

	// Kind is the artifact kind to regenerate (text, audio, video).
	Kind string `json:"kind"`

	// Reason explains why regeneration was requested.
	Reason string `json:"reason"`

	// Status is the current queue state.
	Status Status `json:"status"`

	// ClaimedBy names the worker that claimed the request.
	ClaimedBy string `json:"claimed_by,omitempty"`

	// CreatedAt is when the request entered the queue.
	CreatedAt time.Time `json:"created_at"`

	// ResolvedAt is when the request reached resolved.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// Resolution describes how the request was settled.
	Resolution string `json:"resolution,omitempty"`
}

// Counts is a snapshot of the queue's current state counts.
type Counts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Claimed  int `json:"claimed"`
	Resolved int `json:"resolved"`
}

// Queue holds revision requests in arrival order.
// All methods are safe for concurrent use via an internal mutex.
type Queue struct {
	mu       sync.Mutex
	requests map[string]*Request
	order    []string
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{requests: make(map[string]*Request)}
}

// Enqueue adds a pending request and returns a copy with its generated id.
func (q *Queue) Enqueue(stage int, kind, reason string) Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	req := &Request{
		ID:        uuid.NewString(),
		Stage:     stage,
		Kind:      kind,
		Reason:    reason,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	q.requests[req.ID] = req
	q.order = append(q.order, req.ID)
	return *req
}

// Claim transitions a pending request to claimed by the given worker and
// returns a copy.
func (q *Queue) Claim(id, worker string) (Request, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if worker == "" {
		return Request{}, errors.New("worker must not be empty")
	}
	req, ok := q.requests[id]
	if !ok {
		return Request{}, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: cannot claim request %s in status %s", ErrInvalidTransition, id, req.Status)
	}
	req.Status = StatusClaimed
	req.ClaimedBy = worker
	return *req, nil
}

// Resolve transitions a claimed request to resolved with the given
// resolution note.
func (q *Queue) Resolve(id, resolution string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	req, ok := q.requests[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	if req.Status != StatusClaimed {
		return fmt.Errorf("%w: cannot resolve request %s in status %s", ErrInvalidTransition, id, req.Status)
	}
	now := time.Now()
	req.Status = StatusResolved
	req.ResolvedAt = &now
	req.Resolution = resolution
	return nil
}

// Get returns a copy of the request with the given id.
func (q *Queue) Get(id string) (Request, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	req, ok := q.requests[id]
	if !ok {
		return Request{}, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	return *req, nil
}

// Pending returns copies of all pending requests in arrival order.
func (q *Queue) Pending() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	var pending []Request
	for _, id := range q.order {
		req := q.requests[id]
		if req.Status == StatusPending {
			pending = append(pending, *req)
		}
	}
	return pending
}

// All returns copies of every request in arrival order.
func (q *Queue) All() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	all := make([]Request, 0, len(q.order))
	for _, id := range q.order {
		all = append(all, *q.requests[id])
	}
	return all
}

// Status returns a snapshot of the queue's state counts.
func (q *Queue) Status() Counts {
	q.mu.Lock()
	defer q.mu.Unlock()

	var c Counts
	c.Total = len(q.requests)
	for _, req := range q.requests {
		switch req.Status {
		case StatusPending:
			c.Pending++
		case StatusClaimed:
			c.Claimed++
		case StatusResolved:
			c.Resolved++
		}
	}
	return c
}

// IsDrained returns true when every request is resolved.
func (q *Queue) IsDrained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, req := range q.requests {
		if !req.Status.IsTerminal() {
			return false
		}
	}
	return true
}
