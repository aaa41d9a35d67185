package api

import (
	"github.com/JaimeStill/color-lab/internal/analyses"
	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/internal/config"
	"github.com/JaimeStill/color-lab/internal/uploads"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses analyses.System
	Identity analyses.IdentityResolver
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	repo := analyses.NewRepository(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	engine := classify.NewPlaceholder(
		runtime.Storage,
		&cfg.Analysis.Classify,
		runtime.Logger,
	)

	analysesSys := analyses.New(
		repo,
		runtime.Storage,
		engine,
		uploads.NewValidator(&cfg.Storage),
		runtime.Workers,
		analyses.NewObserver(runtime.Metrics, runtime.Workers),
		runtime.Logger,
	)

	return &Domain{
		Analyses: analysesSys,
		Identity: analyses.NewHeaderResolver(&cfg.API.Identity),
	}
}
