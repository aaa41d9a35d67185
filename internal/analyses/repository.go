package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/pkg/pagination"
	"github.com/JaimeStill/color-lab/pkg/query"
	"github.com/JaimeStill/color-lab/pkg/repository"
)

// Repository persists analyses and answers aggregate queries over them.
type Repository interface {
	// Save inserts a and returns the stored record with its ID and AnalyzedAt assigned.
	Save(ctx context.Context, a Analysis) (*Analysis, error)
	FindByID(ctx context.Context, id int64) (*Analysis, error)
	// FindByUser returns every analysis owned by userID, newest first.
	FindByUser(ctx context.Context, userID int64) ([]Analysis, error)
	PageByUser(ctx context.Context, userID int64, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Analysis], error)
	// LatestByUser returns nil without error when the user has no analyses.
	LatestByUser(ctx context.Context, userID int64) (*Analysis, error)
	DeleteByID(ctx context.Context, id int64) error
	ExistsByStoredName(ctx context.Context, storedName string) (bool, error)

	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	UserCategoryCounts(ctx context.Context, userID int64) ([]CategoryCount, error)
	AverageConfidence(ctx context.Context) (float64, error)
	UserAverageConfidence(ctx context.Context, userID int64) (float64, error)
	CountByPeriod(ctx context.Context, from, to time.Time) (int64, error)
	UserCount(ctx context.Context, userID int64) (int64, error)
	MonthlyCounts(ctx context.Context, since time.Time) ([]MonthlyCount, error)
	// MostFrequentCategory returns "" when the user has no analyses.
	MostFrequentCategory(ctx context.Context, userID int64) (classify.Category, error)
	TopByConfidence(ctx context.Context, userID int64, minConfidence float64, page pagination.PageRequest) (*pagination.PageResult[Analysis], error)
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// NewRepository creates the PostgreSQL analysis repository.
func NewRepository(db *sql.DB, logger *slog.Logger, pagination pagination.Config) Repository {
	return &repo{
		db:         db,
		logger:     logger.With("system", "analyses.repository"),
		pagination: pagination,
	}
}

func (r *repo) Save(ctx context.Context, a Analysis) (*Analysis, error) {
	q := `INSERT INTO analyses(user_id, original_file_name, stored_file_name, category, confidence,
		description, palette, content_type, size_bytes, image_width, image_height)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + returning

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Analysis, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			a.UserID, a.OriginalFileName, a.StoredFileName, string(a.Category), a.Confidence,
			a.Description, a.Palette, a.ContentType, a.SizeBytes, a.ImageWidth, a.ImageHeight,
		}, scanAnalysis)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis saved", "id", saved.ID, "user_id", saved.UserID, "category", saved.Category)
	return &saved, nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*Analysis, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) FindByUser(ctx context.Context, userID int64) ([]Analysis, error) {
	q, args := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("UserId", userID).
		BuildList()

	list, err := repository.QueryMany(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	return list, nil
}

func (r *repo) PageByUser(ctx context.Context, userID int64, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Analysis], error) {
	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("UserId", userID)

	filters.Apply(qb)

	return r.page(ctx, qb, page)
}

func (r *repo) LatestByUser(ctx context.Context, userID int64) (*Analysis, error) {
	q, args := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("UserId", userID).
		BuildFirst()

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest analysis: %w", err)
	}
	return &a, nil
}

func (r *repo) DeleteByID(ctx context.Context, id int64) error {
	q := `DELETE FROM analyses WHERE id = $1`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis deleted", "id", id)
	return nil
}

func (r *repo) ExistsByStoredName(ctx context.Context, storedName string) (bool, error) {
	q := `SELECT EXISTS(SELECT 1 FROM analyses WHERE stored_file_name = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, storedName).Scan(&exists); err != nil {
		return false, fmt.Errorf("check stored name: %w", err)
	}
	return exists, nil
}

func (r *repo) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	q := `SELECT category, COUNT(*) FROM analyses
		GROUP BY category
		ORDER BY COUNT(*) DESC, category`

	counts, err := repository.QueryMany(ctx, r.db, q, nil, scanCategoryCount)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	return counts, nil
}

func (r *repo) UserCategoryCounts(ctx context.Context, userID int64) ([]CategoryCount, error) {
	q := `SELECT category, COUNT(*) FROM analyses
		WHERE user_id = $1
		GROUP BY category
		ORDER BY COUNT(*) DESC, category`

	counts, err := repository.QueryMany(ctx, r.db, q, []any{userID}, scanCategoryCount)
	if err != nil {
		return nil, fmt.Errorf("count user categories: %w", err)
	}
	return counts, nil
}

func (r *repo) AverageConfidence(ctx context.Context) (float64, error) {
	q := `SELECT COALESCE(AVG(confidence), 0)::float8 FROM analyses`

	var avg float64
	if err := r.db.QueryRowContext(ctx, q).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average confidence: %w", err)
	}
	return avg, nil
}

func (r *repo) UserAverageConfidence(ctx context.Context, userID int64) (float64, error) {
	q := `SELECT COALESCE(AVG(confidence), 0)::float8 FROM analyses WHERE user_id = $1`

	var avg float64
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("user average confidence: %w", err)
	}
	return avg, nil
}

func (r *repo) CountByPeriod(ctx context.Context, from, to time.Time) (int64, error) {
	q := `SELECT COUNT(*) FROM analyses WHERE analyzed_at BETWEEN $1 AND $2`

	var n int64
	if err := r.db.QueryRowContext(ctx, q, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by period: %w", err)
	}
	return n, nil
}

func (r *repo) UserCount(ctx context.Context, userID int64) (int64, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("UserId", userID).
		BuildCount()

	var n int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count user analyses: %w", err)
	}
	return n, nil
}

func (r *repo) MonthlyCounts(ctx context.Context, since time.Time) ([]MonthlyCount, error) {
	q := `SELECT date_trunc('month', analyzed_at) AS month, COUNT(*) FROM analyses
		WHERE analyzed_at >= $1
		GROUP BY month
		ORDER BY month`

	counts, err := repository.QueryMany(ctx, r.db, q, []any{since}, scanMonthlyCount)
	if err != nil {
		return nil, fmt.Errorf("monthly counts: %w", err)
	}
	return counts, nil
}

func (r *repo) MostFrequentCategory(ctx context.Context, userID int64) (classify.Category, error) {
	q := `SELECT category FROM analyses
		WHERE user_id = $1
		GROUP BY category
		ORDER BY COUNT(*) DESC, category
		LIMIT 1`

	var c classify.Category
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&c)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("most frequent category: %w", err)
	}
	return c, nil
}

func (r *repo) TopByConfidence(ctx context.Context, userID int64, minConfidence float64, page pagination.PageRequest) (*pagination.PageResult[Analysis], error) {
	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("UserId", userID).
		WhereGreaterOrEqual("Confidence", minConfidence).
		OrderByFields([]query.SortField{
			{Field: "Confidence", Descending: true},
			{Field: "AnalyzedAt", Descending: true},
		})

	return r.page(ctx, qb, page)
}

func (r *repo) page(ctx context.Context, qb *query.Builder, page pagination.PageRequest) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	// unknown sort fields never replace the operation's ordering
	if slices.ContainsFunc(page.Sort, func(f query.SortField) bool { return projection.Has(f.Field) }) {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	list, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(list, total, page.Page, page.PageSize)
	return &result, nil
}
