package logistics

import (
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Request is a pending transfer need waiting for the board to free up
type Request struct {
	SourceID     string            `json:"sourceId"`
	TargetID     string            `json:"targetId"`
	ResourceType compound.Compound `json:"resourceType"`
	Amount       int               `json:"amount"`
}

func (r Request) key() string {
	return r.TargetID + "/" + string(r.ResourceType)
}

// ToTask turns the request into a publishable task
func (r Request) ToTask(clock shared.Clock) (*Task, error) {
	return NewTask(r.SourceID, r.TargetID, r.ResourceType, r.Amount, clock)
}

// Queue holds pending requests in FIFO order. Two requests with the same
// target and resource are merged into the first one, keeping its position
// and the larger amount.
type Queue struct {
	items []Request
	index map[string]int
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{index: make(map[string]int)}
}

// Push enqueues r and reports whether it was added as a new entry
func (q *Queue) Push(r Request) bool {
	k := r.key()
	if i, ok := q.index[k]; ok {
		if r.Amount > q.items[i].Amount {
			q.items[i].Amount = r.Amount
		}
		return false
	}
	q.index[k] = len(q.items)
	q.items = append(q.items, r)
	return true
}

// Pop removes and returns the oldest request
func (q *Queue) Pop() (Request, bool) {
	if len(q.items) == 0 {
		return Request{}, false
	}
	r := q.items[0]
	q.items = q.items[1:]
	delete(q.index, r.key())
	for k, i := range q.index {
		q.index[k] = i - 1
	}
	return r, true
}

// Contains reports whether a request for the same target and resource is pending
func (q *Queue) Contains(targetID string, resource compound.Compound) bool {
	_, ok := q.index[Request{TargetID: targetID, ResourceType: resource}.key()]
	return ok
}

func (q *Queue) Len() int {
	return len(q.items)
}

// Items returns a copy of the pending requests in order
func (q *Queue) Items() []Request {
	return append([]Request(nil), q.items...)
}

// RestoreQueue rebuilds a queue from persisted requests, re-applying dedupe
func RestoreQueue(items []Request) *Queue {
	q := NewQueue()
	for _, r := range items {
		q.Push(r)
	}
	return q
}
