package chat

import "sync"

// OverflowPolicy controls what Enqueue does when a recipient's queue is at
// its configured depth limit.
type OverflowPolicy string

const (
	// DropOldest evicts the head of the queue to make room for the new
	// message.
	DropOldest OverflowPolicy = "drop-oldest"
	// RejectNew refuses the new message with ErrQueueFull.
	RejectNew OverflowPolicy = "reject-new"
)

// OfflineQueue parks messages addressed to recipients with no active
// connection until their own reconnect triggers a drain. The gateway is the
// sole authority on reachability, so there is no retry loop here: messages
// wait, in order, for exactly one pull.
//
// A recipient with nothing pending has no key at all; Drain removes the key
// once the backlog is handed out, so absence and emptiness never diverge.
type OfflineQueue struct {
	mu       sync.Mutex
	pending  map[string][]QueuedMessage
	maxDepth int
	policy   OverflowPolicy
}

// NewOfflineQueue constructs a queue. maxDepth 0 means unbounded, matching
// the historical behavior; otherwise policy decides what happens at the cap.
func NewOfflineQueue(maxDepth int, policy OverflowPolicy) *OfflineQueue {
	if policy != RejectNew {
		policy = DropOldest
	}
	return &OfflineQueue{
		pending:  make(map[string][]QueuedMessage),
		maxDepth: maxDepth,
		policy:   policy,
	}
}

// Enqueue appends msg to the recipient's backlog, creating it if absent.
// It only ever fails under the reject-new policy when the backlog is full.
func (q *OfflineQueue) Enqueue(recipientID string, msg QueuedMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	backlog := q.pending[recipientID]
	if q.maxDepth > 0 && len(backlog) >= q.maxDepth {
		switch q.policy {
		case RejectNew:
			return ErrQueueFull
		default:
			backlog = backlog[1:]
		}
	}
	q.pending[recipientID] = append(backlog, msg)
	return nil
}

// Drain atomically removes and returns the recipient's entire backlog in
// enqueue order. Draining an absent recipient returns an empty slice; it is
// not an error.
func (q *OfflineQueue) Drain(recipientID string) []QueuedMessage {
	q.mu.Lock()
	defer q.mu.Unlock()

	backlog, ok := q.pending[recipientID]
	if !ok {
		return nil
	}
	delete(q.pending, recipientID)
	return backlog
}

// Size returns the recipient's backlog length without mutating it.
func (q *OfflineQueue) Size(recipientID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending[recipientID])
}

// TotalPending returns the number of parked messages across all recipients.
func (q *OfflineQueue) TotalPending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	total := 0
	for _, backlog := range q.pending {
		total += len(backlog)
	}
	return total
}

// Reset clears all backlogs. Test isolation only.
func (q *OfflineQueue) Reset() {
	q.mu.Lock()
	q.pending = make(map[string][]QueuedMessage)
	q.mu.Unlock()
}
