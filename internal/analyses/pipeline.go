package analyses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/internal/uploads"
	"github.com/JaimeStill/color-lab/pkg/pagination"
	"github.com/JaimeStill/color-lab/pkg/storage"
	"github.com/JaimeStill/color-lab/pkg/workers"
	"golang.org/x/sync/errgroup"
)

type pipeline struct {
	repo      Repository
	files     storage.System
	engine    classify.Engine
	validator *uploads.Validator
	pool      *workers.Pool
	observer  *Observer
	logger    *slog.Logger
}

// New creates the analysis system. observer may be nil.
func New(
	repo Repository,
	files storage.System,
	engine classify.Engine,
	validator *uploads.Validator,
	pool *workers.Pool,
	observer *Observer,
	logger *slog.Logger,
) System {
	return &pipeline{
		repo:      repo,
		files:     files,
		engine:    engine,
		validator: validator,
		pool:      pool,
		observer:  observer,
		logger:    logger.With("system", "analyses"),
	}
}

func (p *pipeline) Submit(ctx context.Context, identity Identity, file uploads.File) (*Submission, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	if err := p.validator.Validate(file); err != nil {
		p.observer.submitted(OutcomeInvalid)
		p.logger.Info("upload rejected", "user_id", identity.ID, "filename", file.Filename, "error", err)
		return nil, err
	}

	stored, err := p.files.Store(ctx, file.Data, file.Filename)
	if err != nil {
		p.observer.submitted(OutcomeRejected)
		return nil, fmt.Errorf("store upload: %w", err)
	}

	upload := Upload{
		OriginalFileName: file.Filename,
		StoredFileName:   stored,
		ContentType:      file.ContentType,
		SizeBytes:        int64(len(file.Data)),
	}
	if w, h, ok := uploads.Dimensions(file.Data); ok {
		upload.ImageWidth = &w
		upload.ImageHeight = &h
	}

	handle, err := workers.Submit(ctx, p.pool, func(ctx context.Context) (Analysis, error) {
		a, err := p.ClassifyAndPersist(ctx, identity, upload)
		if err != nil {
			return Analysis{}, err
		}
		return *a, nil
	})
	if err != nil {
		if errors.Is(err, workers.ErrSaturated) {
			p.observer.submitted(OutcomeSaturated)
		} else {
			p.observer.submitted(OutcomeFailed)
		}
		p.logger.Warn("classification not scheduled", "user_id", identity.ID, "stored_name", stored, "error", err)
		return nil, fmt.Errorf("schedule classification: %w", err)
	}

	p.observer.submitted(OutcomeAccepted)
	p.logger.Info("upload accepted",
		"user_id", identity.ID,
		"email", identity.Email,
		"filename", file.Filename,
		"stored_name", stored,
	)

	return &Submission{StoredFileName: stored, handle: handle}, nil
}

func (p *pipeline) ClassifyAndPersist(ctx context.Context, identity Identity, upload Upload) (*Analysis, error) {
	start := time.Now()

	result, err := p.engine.Classify(ctx, upload.StoredFileName)
	if err == nil {
		err = result.Validate()
	}
	if err != nil {
		p.observer.failed(time.Since(start))
		p.logger.Error("classification failed", "user_id", identity.ID, "stored_name", upload.StoredFileName, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	saved, err := p.repo.Save(ctx, Analysis{
		UserID:           identity.ID,
		OriginalFileName: upload.OriginalFileName,
		StoredFileName:   upload.StoredFileName,
		Category:         result.Category,
		Confidence:       result.Confidence,
		Description:      result.Description,
		Palette:          result.Palette,
		ContentType:      upload.ContentType,
		SizeBytes:        upload.SizeBytes,
		ImageWidth:       upload.ImageWidth,
		ImageHeight:      upload.ImageHeight,
	})
	if err != nil {
		p.observer.failed(time.Since(start))
		p.logger.Error("analysis save failed", "user_id", identity.ID, "stored_name", upload.StoredFileName, "error", err)
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	p.observer.classified(saved.Category, time.Since(start))
	p.logger.Info("analysis completed",
		"id", saved.ID,
		"user_id", identity.ID,
		"category", saved.Category,
		"confidence", saved.Confidence,
	)
	return saved, nil
}

func (p *pipeline) List(ctx context.Context, identity Identity) ([]Analysis, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	return p.repo.FindByUser(ctx, identity.ID)
}

func (p *pipeline) Page(ctx context.Context, identity Identity, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Analysis], error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	return p.repo.PageByUser(ctx, identity.ID, page, filters)
}

func (p *pipeline) Latest(ctx context.Context, identity Identity) (*Analysis, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	return p.repo.LatestByUser(ctx, identity.ID)
}

func (p *pipeline) Find(ctx context.Context, id int64) (*Analysis, error) {
	return p.repo.FindByID(ctx, id)
}

func (p *pipeline) Delete(ctx context.Context, id int64, identity Identity) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}

	a, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if a.UserID != identity.ID {
		p.logger.Warn("delete denied", "id", id, "owner_id", a.UserID, "user_id", identity.ID)
		return ErrForbidden
	}

	if err := p.files.Delete(ctx, a.StoredFileName); err != nil {
		p.logger.Warn("stored file cleanup failed", "id", id, "stored_name", a.StoredFileName, "error", err)
	}

	if err := p.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	p.logger.Info("analysis removed", "id", id, "user_id", identity.ID)
	return nil
}

func (p *pipeline) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	return p.repo.CategoryCounts(ctx)
}

func (p *pipeline) UserCategoryCounts(ctx context.Context, identity Identity) ([]CategoryCount, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	return p.repo.UserCategoryCounts(ctx, identity.ID)
}

func (p *pipeline) AverageConfidence(ctx context.Context) (float64, error) {
	return p.repo.AverageConfidence(ctx)
}

func (p *pipeline) UserAverageConfidence(ctx context.Context, identity Identity) (float64, error) {
	if err := requireIdentity(identity); err != nil {
		return 0, err
	}
	return p.repo.UserAverageConfidence(ctx, identity.ID)
}

func (p *pipeline) CountByPeriod(ctx context.Context, from, to time.Time) (int64, error) {
	if to.Before(from) {
		return 0, fmt.Errorf("%w: to precedes from", ErrInvalidQuery)
	}
	return p.repo.CountByPeriod(ctx, from, to)
}

func (p *pipeline) UserCount(ctx context.Context, identity Identity) (int64, error) {
	if err := requireIdentity(identity); err != nil {
		return 0, err
	}
	return p.repo.UserCount(ctx, identity.ID)
}

func (p *pipeline) MonthlyCounts(ctx context.Context, since time.Time) ([]MonthlyCount, error) {
	return p.repo.MonthlyCounts(ctx, since)
}

func (p *pipeline) MostFrequentCategory(ctx context.Context, identity Identity) (classify.Category, error) {
	if err := requireIdentity(identity); err != nil {
		return "", err
	}
	return p.repo.MostFrequentCategory(ctx, identity.ID)
}

func (p *pipeline) TopByConfidence(ctx context.Context, identity Identity, minConfidence float64, page pagination.PageRequest) (*pagination.PageResult[Analysis], error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if minConfidence < 0 || minConfidence > 1 {
		return nil, fmt.Errorf("%w: min_confidence must be in [0, 1]", ErrInvalidQuery)
	}
	return p.repo.TopByConfidence(ctx, identity.ID, minConfidence, page)
}

func (p *pipeline) UserStats(ctx context.Context, identity Identity) (*UserStats, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	var stats UserStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Total, err = p.repo.UserCount(gctx, identity.ID)
		return err
	})
	g.Go(func() (err error) {
		stats.AverageConfidence, err = p.repo.UserAverageConfidence(gctx, identity.ID)
		return err
	})
	g.Go(func() (err error) {
		stats.MostFrequent, err = p.repo.MostFrequentCategory(gctx, identity.ID)
		return err
	})
	g.Go(func() (err error) {
		stats.Categories, err = p.repo.UserCategoryCounts(gctx, identity.ID)
		return err
	})
	g.Go(func() (err error) {
		stats.Latest, err = p.repo.LatestByUser(gctx, identity.ID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &stats, nil
}

func requireIdentity(identity Identity) error {
	if identity.ID <= 0 {
		return ErrIdentityRequired
	}
	return nil
}
