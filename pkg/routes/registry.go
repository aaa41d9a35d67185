package routes

import (
	"log/slog"
	"net/http"
)

type registry struct {
	routes []Route
	groups []Group
	logger *slog.Logger
}

// New creates an empty route system.
func New(logger *slog.Logger) System {
	return &registry{
		logger: logger.With("system", "routes"),
		groups: []Group{},
		routes: []Route{},
	}
}

func (r *registry) Groups() []Group {
	return r.groups
}

func (r *registry) Routes() []Route {
	return r.routes
}

func (r *registry) RegisterRoute(route Route) {
	r.routes = append(r.routes, route)
}

func (r *registry) RegisterGroup(group Group) {
	r.groups = append(r.groups, group)
}

// Build mounts every registered route and group on a new ServeMux.
func (r *registry) Build() http.Handler {
	mux := http.NewServeMux()

	for _, route := range r.routes {
		r.handle(mux, route.Method, route.Pattern, route.Handler)
	}

	for _, group := range r.groups {
		r.registerGroup(mux, "", group)
	}

	return mux
}

func (r *registry) registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		r.handle(mux, route.Method, fullPrefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		r.registerGroup(mux, fullPrefix, child)
	}
}

func (r *registry) handle(mux *http.ServeMux, method, pattern string, h http.HandlerFunc) {
	if pattern == "" {
		pattern = "/"
	}
	mux.HandleFunc(method+" "+pattern, h)
	r.logger.Debug("route registered", "method", method, "pattern", pattern)
}
