package api

import (
	"github.com/JaimeStill/color-lab/internal/analyses"
	"github.com/JaimeStill/color-lab/internal/config"
	"github.com/JaimeStill/color-lab/pkg/routes"
)

func registerRoutes(
	r routes.System,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	analysesHandler := analyses.NewHandler(
		domain.Analyses,
		domain.Identity,
		runtime.Logger,
		runtime.Pagination,
		cfg.Storage.MaxUploadSizeBytes(),
		cfg.Analysis.WaitTimeoutDuration(),
	)

	r.RegisterGroup(routes.Group{
		Prefix:      cfg.API.BasePath,
		Description: "Color-type analysis API",
		Children: []routes.Group{
			analysesHandler.Routes(),
		},
	})
}
