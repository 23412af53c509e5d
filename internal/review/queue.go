package review

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qualgate/qualgate/internal/model"
)

// Entry is one candidate escalated for human review
type Entry struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Candidate model.CandidateAnalysis `json:"candidate"`
	Quality   model.QualityResult     `json:"quality"`
	Triggers  []string                `json:"triggers"`
	Context   model.GateContext       `json:"context"`
	CreatedAt time.Time               `json:"created_at"`
}

// Queue accepts candidates for human review. Enqueue is best-effort from
// the gate's perspective: a failure degrades the decision to a warning and
// must never block it.
type Queue interface {
	// Enqueue submits an entry and returns its review identifier
	Enqueue(ctx context.Context, entry Entry) (string, error)

	// Pending returns entries awaiting review, oldest first
	Pending(ctx context.Context, limit int) ([]Entry, error)
}

// MemoryQueue is an in-process queue for tests and offline evaluation
type MemoryQueue struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryQueue creates an empty in-memory review queue
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue appends the entry, assigning an ID if none is set
func (q *MemoryQueue) Enqueue(ctx context.Context, entry Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, entry)
	return entry.ID, nil
}

// Pending returns up to limit entries in insertion order
func (q *MemoryQueue) Pending(ctx context.Context, limit int) ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, q.entries[:n])
	return out, nil
}

// Len returns the number of queued entries
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
