package analyses

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Identity is the authenticated caller. It is opaque to the pipeline beyond
// ownership checks and log context.
type Identity struct {
	ID    int64
	Email string
}

// IdentityResolver extracts the caller identity from a request.
type IdentityResolver interface {
	Resolve(r *http.Request) (Identity, error)
}

// HeaderResolver trusts identity headers set by an authenticating proxy.
type HeaderResolver struct {
	IDHeader    string
	EmailHeader string
}

// NewHeaderResolver creates a resolver from finalized identity configuration.
func NewHeaderResolver(cfg *IdentityConfig) *HeaderResolver {
	return &HeaderResolver{
		IDHeader:    cfg.UserIDHeader,
		EmailHeader: cfg.EmailHeader,
	}
}

func (h *HeaderResolver) Resolve(r *http.Request) (Identity, error) {
	raw := strings.TrimSpace(r.Header.Get(h.IDHeader))
	if raw == "" {
		return Identity{}, ErrIdentityRequired
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Identity{}, fmt.Errorf("%w: invalid %s header", ErrIdentityRequired, h.IDHeader)
	}

	return Identity{
		ID:    id,
		Email: strings.TrimSpace(r.Header.Get(h.EmailHeader)),
	}, nil
}
