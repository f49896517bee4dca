package router

import (
	"sync"

	"github.com/dagcore/dagd/app/appmessage"
	"github.com/pkg/errors"
)

const outgoingRouteMaxMessages = 2 * DefaultMaxMessages

// Router dispatches incoming messages to per-flow routes keyed by message
// command, and funnels all outgoing messages through a single route
type Router struct {
	incomingRoutesLock sync.RWMutex
	incomingRoutes     map[appmessage.MessageCommand]*Route

	outgoingRoute *Route
}

// NewRouter creates a router with no incoming routes registered
func NewRouter() *Router {
	return &Router{
		incomingRoutes: make(map[appmessage.MessageCommand]*Route),
		outgoingRoute:  newRouteWithCapacity("outgoing", outgoingRouteMaxMessages),
	}
}

// AddIncomingRoute creates a route with the default capacity and registers
// it for every command in messageTypes. Registering a command twice is an
// error.
func (r *Router) AddIncomingRoute(name string, messageTypes []appmessage.MessageCommand) (*Route, error) {
	return r.addRoute(NewRoute(name), messageTypes)
}

// AddIncomingRouteWithCapacity is like AddIncomingRoute with an explicit
// route capacity
func (r *Router) AddIncomingRouteWithCapacity(name string, capacity int,
	messageTypes []appmessage.MessageCommand) (*Route, error) {

	return r.addRoute(newRouteWithCapacity(name, capacity), messageTypes)
}

func (r *Router) addRoute(route *Route, messageTypes []appmessage.MessageCommand) (*Route, error) {
	r.incomingRoutesLock.Lock()
	defer r.incomingRoutesLock.Unlock()

	for _, messageType := range messageTypes {
		if _, ok := r.incomingRoutes[messageType]; ok {
			return nil, errors.Errorf("a route for '%s' already exists", messageType)
		}
	}
	for _, messageType := range messageTypes {
		r.incomingRoutes[messageType] = route
	}
	return route, nil
}

// RemoveRoute unregisters the given commands from the router. The route
// itself is left open; closing it is the owner's responsibility.
func (r *Router) RemoveRoute(messageTypes []appmessage.MessageCommand) error {
	r.incomingRoutesLock.Lock()
	defer r.incomingRoutesLock.Unlock()

	for _, messageType := range messageTypes {
		if _, ok := r.incomingRoutes[messageType]; !ok {
			return errors.Errorf("a route for '%s' does not exist", messageType)
		}
		delete(r.incomingRoutes, messageType)
	}
	return nil
}

// EnqueueIncomingMessage hands message to the route registered for its
// command, failing if no route is registered
func (r *Router) EnqueueIncomingMessage(message appmessage.Message) error {
	r.incomingRoutesLock.RLock()
	route, ok := r.incomingRoutes[message.Command()]
	r.incomingRoutesLock.RUnlock()

	if !ok {
		return errors.Errorf("a route for '%s' does not exist", message.Command())
	}
	return route.Enqueue(message)
}

// OutgoingRoute returns the route all outgoing messages go through
func (r *Router) OutgoingRoute() *Route {
	return r.outgoingRoute
}

// Close closes every registered incoming route and the outgoing route.
// Routes registered under several commands are closed once.
func (r *Router) Close() {
	r.incomingRoutesLock.Lock()
	defer r.incomingRoutesLock.Unlock()

	uniqueRoutes := make(map[*Route]struct{})
	for _, route := range r.incomingRoutes {
		uniqueRoutes[route] = struct{}{}
	}
	r.incomingRoutes = make(map[appmessage.MessageCommand]*Route)
	for route := range uniqueRoutes {
		route.Close()
	}
	r.outgoingRoute.Close()
}
