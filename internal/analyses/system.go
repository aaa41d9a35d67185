package analyses

import (
	"context"
	"time"

	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/internal/uploads"
	"github.com/JaimeStill/color-lab/pkg/pagination"
	"github.com/JaimeStill/color-lab/pkg/workers"
)

// System defines the analysis pipeline and its read operations.
type System interface {
	// Submit validates and stores file, then schedules classification.
	// It returns once the task is queued; the Submission resolves to the saved record.
	// On workers.ErrSaturated the stored file is kept.
	Submit(ctx context.Context, identity Identity, file uploads.File) (*Submission, error)

	// ClassifyAndPersist classifies an already stored upload and saves the record.
	ClassifyAndPersist(ctx context.Context, identity Identity, upload Upload) (*Analysis, error)

	List(ctx context.Context, identity Identity) ([]Analysis, error)
	Page(ctx context.Context, identity Identity, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Analysis], error)
	Latest(ctx context.Context, identity Identity) (*Analysis, error)
	Find(ctx context.Context, id int64) (*Analysis, error)

	// Delete removes the record when identity owns it. The stored file is
	// removed first on a best-effort basis.
	Delete(ctx context.Context, id int64, identity Identity) error

	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	UserCategoryCounts(ctx context.Context, identity Identity) ([]CategoryCount, error)
	AverageConfidence(ctx context.Context) (float64, error)
	UserAverageConfidence(ctx context.Context, identity Identity) (float64, error)
	CountByPeriod(ctx context.Context, from, to time.Time) (int64, error)
	UserCount(ctx context.Context, identity Identity) (int64, error)
	MonthlyCounts(ctx context.Context, since time.Time) ([]MonthlyCount, error)
	MostFrequentCategory(ctx context.Context, identity Identity) (classify.Category, error)
	// TopByConfidence pages the caller's records at or above minConfidence,
	// highest confidence first.
	TopByConfidence(ctx context.Context, identity Identity, minConfidence float64, page pagination.PageRequest) (*pagination.PageResult[Analysis], error)
	UserStats(ctx context.Context, identity Identity) (*UserStats, error)
}

// Submission tracks one scheduled classification.
type Submission struct {
	StoredFileName string
	handle         *workers.Handle[Analysis]
}

// Wait blocks until the record is saved or ctx is done. Giving up does not
// cancel the classification.
func (s *Submission) Wait(ctx context.Context) (*Analysis, error) {
	a, err := s.handle.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Done is closed once classification has finished.
func (s *Submission) Done() <-chan struct{} {
	return s.handle.Done()
}

// Poll returns the outcome without blocking. ok is false while pending.
func (s *Submission) Poll() (analysis *Analysis, ok bool, err error) {
	a, ok, err := s.handle.Poll()
	if !ok || err != nil {
		return nil, ok, err
	}
	return &a, true, nil
}

// Status reports the classification state.
func (s *Submission) Status() workers.Status {
	return s.handle.Status()
}
