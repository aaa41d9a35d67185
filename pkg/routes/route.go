// Package routes describes HTTP endpoints as data and mounts them on a ServeMux.
package routes

import "net/http"

// Route is a single endpoint. Pattern is relative to the enclosing group
// and may use ServeMux wildcards such as {id}.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
