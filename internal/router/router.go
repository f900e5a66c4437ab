// Package router maps dashboard paths to views and guards navigation on the
// presence of a session token.
package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"energy-cli/internal/session"
)

var ErrNotFound = errors.New("route not found")

// Router resolves paths against a route table. Every navigation passes the
// guard: any path except /login requires a token.
type Router struct {
	session *session.Store
	order   []Route
	byPath  map[string]Route

	mu        sync.Mutex
	current   string
	listeners []func(from, to string)
}

// New builds a router over routes; nil means DefaultRoutes.
func New(s *session.Store, routes []Route) *Router {
	if routes == nil {
		routes = DefaultRoutes
	}
	r := &Router{
		session: s,
		order:   routes,
		byPath:  make(map[string]Route, len(routes)),
	}
	for _, rt := range routes {
		r.byPath[clean(rt.Path)] = rt
	}
	return r
}

// Routes returns the table in declaration order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.order))
	copy(out, r.order)
	return out
}

// ByCommand finds the route rendered by the named command.
func (r *Router) ByCommand(name string) (Route, bool) {
	for _, rt := range r.order {
		if rt.Command == name && rt.Command != "" {
			return rt, true
		}
	}
	return Route{}, false
}

// Guard returns where a navigation to path ends up before route matching.
func (r *Router) Guard(path string) string {
	path = clean(path)
	if path == LoginPath {
		return path
	}
	if !r.session.LoggedIn() {
		return LoginPath
	}
	return path
}

// Resolve matches path and follows redirects. It does not apply the guard.
func (r *Router) Resolve(path string) (Route, error) {
	path = clean(path)
	for hops := 0; hops < len(r.order)+1; hops++ {
		rt, ok := r.byPath[path]
		if !ok {
			return Route{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if rt.Redirect == "" {
			return rt, nil
		}
		path = clean(rt.Redirect)
	}
	return Route{}, fmt.Errorf("redirect loop at %s", path)
}

// Navigate runs the guard, resolves the destination and makes it current.
func (r *Router) Navigate(path string) (Route, error) {
	rt, err := r.Resolve(r.Guard(path))
	if err != nil {
		return Route{}, err
	}

	r.mu.Lock()
	from := r.current
	r.current = rt.Path
	listeners := append([]func(string, string){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(from, rt.Path)
	}
	return rt, nil
}

// Push navigates and discards the result. The HTTP client uses it to send
// the user to /login after a 401.
func (r *Router) Push(path string) {
	_, _ = r.Navigate(path)
}

// Current is the path of the last successful navigation.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnNavigate registers fn to run after every navigation.
func (r *Router) OnNavigate(fn func(from, to string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func clean(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = HomePath
		}
	}
	return path
}
