package router

import (
	"testing"
	"time"

	"github.com/dagcore/dagd/app/appmessage"
	"github.com/pkg/errors"
)

func TestRouteEnqueueDequeue(t *testing.T) {
	route := NewRoute("test")

	enqueued := appmessage.NewMsgDoneHeaders()
	err := route.Enqueue(enqueued)
	if err != nil {
		t.Fatalf("Enqueue: %+v", err)
	}

	dequeued, err := route.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %+v", err)
	}
	if dequeued != enqueued {
		t.Fatalf("dequeued a different message than was enqueued")
	}
}

func TestRouteEnqueueAfterCloseFails(t *testing.T) {
	route := NewRoute("test")
	route.Close()

	err := route.Enqueue(appmessage.NewMsgDoneHeaders())
	if !errors.Is(err, ErrRouteClosed) {
		t.Fatalf("expected ErrRouteClosed, got %+v", err)
	}
}

func TestRouteDequeueOnClosedRoute(t *testing.T) {
	route := NewRoute("test")

	dequeueErrChan := make(chan error)
	go func() {
		_, err := route.Dequeue()
		dequeueErrChan <- err
	}()

	route.Close()

	select {
	case err := <-dequeueErrChan:
		if !errors.Is(err, ErrRouteClosed) {
			t.Fatalf("expected ErrRouteClosed, got %+v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("Dequeue did not return after the route was closed")
	}
}

func TestRouteCapacity(t *testing.T) {
	const capacity = 3
	route := newRouteWithCapacity("test", capacity)

	for i := 0; i < capacity; i++ {
		err := route.Enqueue(appmessage.NewMsgDoneHeaders())
		if err != nil {
			t.Fatalf("Enqueue %d: %+v", i, err)
		}
	}

	err := route.Enqueue(appmessage.NewMsgDoneHeaders())
	if !errors.Is(err, ErrRouteCapacityReached) {
		t.Fatalf("expected ErrRouteCapacityReached, got %+v", err)
	}
}

func TestRouteDequeueWithTimeout(t *testing.T) {
	route := NewRoute("test")

	_, err := route.DequeueWithTimeout(time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %+v", err)
	}

	enqueued := appmessage.NewMsgDoneHeaders()
	err = route.Enqueue(enqueued)
	if err != nil {
		t.Fatalf("Enqueue: %+v", err)
	}
	dequeued, err := route.DequeueWithTimeout(10 * time.Second)
	if err != nil {
		t.Fatalf("DequeueWithTimeout: %+v", err)
	}
	if dequeued != enqueued {
		t.Fatalf("dequeued a different message than was enqueued")
	}
}

func TestRouterRoutesByCommand(t *testing.T) {
	testRouter := NewRouter()

	incomingRoute, err := testRouter.AddIncomingRoute("done headers",
		[]appmessage.MessageCommand{appmessage.CmdDoneHeaders})
	if err != nil {
		t.Fatalf("AddIncomingRoute: %+v", err)
	}

	_, err = testRouter.AddIncomingRoute("duplicate",
		[]appmessage.MessageCommand{appmessage.CmdDoneHeaders})
	if err == nil {
		t.Fatalf("registering a second route for the same command unexpectedly succeeded")
	}

	err = testRouter.EnqueueIncomingMessage(appmessage.NewMsgDoneHeaders())
	if err != nil {
		t.Fatalf("EnqueueIncomingMessage: %+v", err)
	}
	message, err := incomingRoute.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %+v", err)
	}
	if message.Command() != appmessage.CmdDoneHeaders {
		t.Fatalf("routed message has command %s, expected %s",
			message.Command(), appmessage.CmdDoneHeaders)
	}

	err = testRouter.EnqueueIncomingMessage(appmessage.NewMsgRequestAnticone(nil, nil))
	if err == nil {
		t.Fatalf("enqueueing a message with no registered route unexpectedly succeeded")
	}

	err = testRouter.RemoveRoute([]appmessage.MessageCommand{appmessage.CmdDoneHeaders})
	if err != nil {
		t.Fatalf("RemoveRoute: %+v", err)
	}
	err = testRouter.EnqueueIncomingMessage(appmessage.NewMsgDoneHeaders())
	if err == nil {
		t.Fatalf("enqueueing to a removed route unexpectedly succeeded")
	}
}
