// Package queue provides the delivery queue linking staged messages to
// their destination.
//
// Every message embeds a Node. Pushing a normal node signals a reader
// blocked on the queue's wait channel; silent nodes enqueue without
// waking anyone, for payloads the destination only picks up in passing.
package queue

import "sync"

// Kind classifies a queue node.
type Kind uint8

const (
	// Normal nodes wake a waiting reader when queued.
	Normal Kind = iota
	// Silent nodes are queued without signaling.
	Silent
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Silent:
		return "silent"
	default:
		return "unknown"
	}
}

// Node is the queue linkage embedded in a message. A node belongs to at
// most one queue at a time.
type Node struct {
	kind   Kind
	next   *Node
	msg    any
	queued bool
}

// Init prepares the node with its kind and the message it links.
func (n *Node) Init(kind Kind, msg any) {
	n.kind = kind
	n.msg = msg
	n.next = nil
	n.queued = false
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// Message returns the message this node links.
func (n *Node) Message() any { return n.msg }

// Queued reports whether the node currently sits on a queue.
func (n *Node) Queued() bool { return n.queued }

// Queue is a destination's FIFO delivery queue. All methods are safe for
// concurrent use.
type Queue struct {
	mu   sync.Mutex
	head *Node
	tail *Node
	n    int
	wake chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Push appends n to the queue. Normal nodes signal the wait channel;
// silent nodes do not. Pushing an already-queued node panics.
func (q *Queue) Push(n *Node) {
	q.mu.Lock()
	if n.queued {
		q.mu.Unlock()
		panic("queue: node pushed twice")
	}
	n.queued = true
	n.next = nil
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.n++
	q.mu.Unlock()

	if n.kind == Normal {
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
}

// Pop removes and returns the oldest node, or nil when empty.
func (q *Queue) Pop() *Node {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.head
	if n == nil {
		return nil
	}
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	n.next = nil
	n.queued = false
	q.n--
	return n
}

// Remove unlinks n from the queue wherever it sits. It is a no-op if the
// node is not queued.
func (q *Queue) Remove(n *Node) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !n.queued {
		return
	}
	var prev *Node
	for cur := q.head; cur != nil; prev, cur = cur, cur.next {
		if cur != n {
			continue
		}
		if prev == nil {
			q.head = cur.next
		} else {
			prev.next = cur.next
		}
		if q.tail == cur {
			q.tail = prev
		}
		n.next = nil
		n.queued = false
		q.n--
		return
	}
}

// Wait returns the channel signaled when a normal node is pushed.
func (q *Queue) Wait() <-chan struct{} { return q.wake }

// Len returns the number of queued nodes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}
