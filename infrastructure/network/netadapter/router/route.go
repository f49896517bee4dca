package router

import (
	"sync"
	"time"

	"github.com/dagcore/dagd/app/appmessage"
	"github.com/dagcore/dagd/app/protocol/protocolerrors"
	"github.com/pkg/errors"
)

// DefaultMaxMessages is the capacity of a route created without an
// explicit capacity
const DefaultMaxMessages = 1000

var (
	// ErrTimeout signifies that a route operation timed out.
	ErrTimeout = protocolerrors.New(false, "timeout expired")

	// ErrRouteClosed indicates that a route was closed while reading/writing.
	ErrRouteClosed = errors.New("route is closed")

	// ErrRouteCapacityReached indicates that route's capacity has been reached
	ErrRouteCapacityReached = protocolerrors.New(false, "route capacity has been reached")
)

// Route is a bounded, closable queue of messages between the network layer
// and a single protocol flow. Writes go through Enqueue and fail once the
// route is at capacity or closed; reads drain the underlying channel.
type Route struct {
	name    string
	channel chan appmessage.Message

	// closeLock guards writes against a concurrent Close. Reads need no
	// guarding since a closed channel drains and then reports closure.
	closeLock sync.Mutex
	closed    bool
	capacity  int
}

// NewRoute creates a route with the default capacity
func NewRoute(name string) *Route {
	return newRouteWithCapacity(name, DefaultMaxMessages)
}

func newRouteWithCapacity(name string, capacity int) *Route {
	return &Route{
		name:     name,
		channel:  make(chan appmessage.Message, capacity),
		capacity: capacity,
	}
}

// Enqueue appends a message to the route. It fails with
// ErrRouteCapacityReached when the route is full, so a slow flow exerts
// backpressure instead of blocking the caller.
func (r *Route) Enqueue(message appmessage.Message) error {
	r.closeLock.Lock()
	defer r.closeLock.Unlock()

	if r.closed {
		return errors.WithStack(ErrRouteClosed)
	}
	if len(r.channel) == r.capacity {
		return errors.Wrapf(ErrRouteCapacityReached, "route '%s' is at its capacity of %d", r.name, r.capacity)
	}
	r.channel <- message
	return nil
}

// Dequeue removes the oldest message from the route, blocking until one is
// available or the route closes
func (r *Route) Dequeue() (appmessage.Message, error) {
	message, isOpen := <-r.channel
	if !isOpen {
		return nil, errors.Wrapf(ErrRouteClosed, "route '%s' is closed", r.name)
	}
	return message, nil
}

// DequeueWithTimeout is like Dequeue with an upper bound on the wait
func (r *Route) DequeueWithTimeout(timeout time.Duration) (appmessage.Message, error) {
	select {
	case <-time.After(timeout):
		return nil, errors.Wrapf(ErrTimeout, "route '%s' got timeout after %s", r.name, timeout)
	case message, isOpen := <-r.channel:
		if !isOpen {
			return nil, errors.Wrapf(ErrRouteClosed, "route '%s' is closed", r.name)
		}
		return message, nil
	}
}

// Close closes this route. Messages already enqueued may still be dequeued.
// Closing an already closed route is a no-op.
func (r *Route) Close() {
	r.closeLock.Lock()
	defer r.closeLock.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	close(r.channel)
}
