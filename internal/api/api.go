// Package api assembles the analysis domain into the HTTP API served under
// the configured base path.
package api

import (
	"net/http"

	"github.com/JaimeStill/color-lab/internal/config"
	"github.com/JaimeStill/color-lab/internal/infrastructure"
	"github.com/JaimeStill/color-lab/pkg/middleware"
	"github.com/JaimeStill/color-lab/pkg/routes"
)

// NewHandler builds the API domain from infra and returns its routed,
// middleware-wrapped handler.
func NewHandler(cfg *config.Config, infra *infrastructure.Infrastructure) http.Handler {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg)

	r := routes.New(runtime.Logger)
	registerRoutes(r, runtime, domain, cfg)

	mw := middleware.New()
	mw.Use(middleware.TrimSlash())
	mw.Use(middleware.Logger(runtime.Logger))

	return mw.Apply(r.Build())
}
