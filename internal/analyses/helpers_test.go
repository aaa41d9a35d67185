package analyses_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/color-lab/internal/analyses"
	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/internal/uploads"
	"github.com/JaimeStill/color-lab/pkg/logging"
	"github.com/JaimeStill/color-lab/pkg/pagination"
	"github.com/JaimeStill/color-lab/pkg/storage"
	"github.com/JaimeStill/color-lab/pkg/workers"
)

var (
	alice = analyses.Identity{ID: 1, Email: "alice@example.com"}
	bob   = analyses.Identity{ID: 2, Email: "bob@example.com"}
)

// memRepo is an in-memory Repository keyed by id.
type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]analyses.Analysis
	now     func() time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		records: make(map[int64]analyses.Analysis),
		now:     time.Now,
	}
}

func (m *memRepo) Save(ctx context.Context, a analyses.Analysis) (*analyses.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.StoredFileName == a.StoredFileName {
			return nil, analyses.ErrDuplicate
		}
	}

	m.nextID++
	a.ID = m.nextID
	if a.AnalyzedAt.IsZero() {
		a.AnalyzedAt = m.now()
	}
	m.records[a.ID] = a
	return &a, nil
}

func (m *memRepo) FindByID(ctx context.Context, id int64) (*analyses.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.records[id]
	if !ok {
		return nil, analyses.ErrNotFound
	}
	return &a, nil
}

func (m *memRepo) FindByUser(ctx context.Context, userID int64) ([]analyses.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]analyses.Analysis, 0)
	for _, a := range m.records {
		if a.UserID == userID {
			list = append(list, a)
		}
	}
	sortNewest(list)
	return list, nil
}

func (m *memRepo) PageByUser(ctx context.Context, userID int64, page pagination.PageRequest, filters analyses.Filters) (*pagination.PageResult[analyses.Analysis], error) {
	all, _ := m.FindByUser(ctx, userID)

	list := make([]analyses.Analysis, 0, len(all))
	for _, a := range all {
		if filters.Category != nil && a.Category != *filters.Category {
			continue
		}
		if filters.MinConfidence != nil && a.Confidence < *filters.MinConfidence {
			continue
		}
		list = append(list, a)
	}
	return pageOf(list, page), nil
}

func (m *memRepo) LatestByUser(ctx context.Context, userID int64) (*analyses.Analysis, error) {
	list, _ := m.FindByUser(ctx, userID)
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (m *memRepo) DeleteByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return analyses.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memRepo) ExistsByStoredName(ctx context.Context, storedName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.records {
		if a.StoredFileName == storedName {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) CategoryCounts(ctx context.Context) ([]analyses.CategoryCount, error) {
	return m.countCategories(func(analyses.Analysis) bool { return true }), nil
}

func (m *memRepo) UserCategoryCounts(ctx context.Context, userID int64) ([]analyses.CategoryCount, error) {
	return m.countCategories(func(a analyses.Analysis) bool { return a.UserID == userID }), nil
}

func (m *memRepo) AverageConfidence(ctx context.Context) (float64, error) {
	return m.average(func(analyses.Analysis) bool { return true }), nil
}

func (m *memRepo) UserAverageConfidence(ctx context.Context, userID int64) (float64, error) {
	return m.average(func(a analyses.Analysis) bool { return a.UserID == userID }), nil
}

func (m *memRepo) CountByPeriod(ctx context.Context, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, a := range m.records {
		if !a.AnalyzedAt.Before(from) && !a.AnalyzedAt.After(to) {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) UserCount(ctx context.Context, userID int64) (int64, error) {
	list, _ := m.FindByUser(ctx, userID)
	return int64(len(list)), nil
}

func (m *memRepo) MonthlyCounts(ctx context.Context, since time.Time) ([]analyses.MonthlyCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[time.Time]int64)
	for _, a := range m.records {
		if a.AnalyzedAt.Before(since) {
			continue
		}
		t := a.AnalyzedAt.UTC()
		counts[time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)]++
	}

	list := make([]analyses.MonthlyCount, 0, len(counts))
	for month, n := range counts {
		list = append(list, analyses.MonthlyCount{Month: month, Count: n})
	}
	slices.SortFunc(list, func(a, b analyses.MonthlyCount) int { return a.Month.Compare(b.Month) })
	return list, nil
}

func (m *memRepo) MostFrequentCategory(ctx context.Context, userID int64) (classify.Category, error) {
	counts, _ := m.UserCategoryCounts(ctx, userID)
	if len(counts) == 0 {
		return "", nil
	}
	return counts[0].Category, nil
}

func (m *memRepo) TopByConfidence(ctx context.Context, userID int64, minConfidence float64, page pagination.PageRequest) (*pagination.PageResult[analyses.Analysis], error) {
	m.mu.Lock()
	list := make([]analyses.Analysis, 0)
	for _, a := range m.records {
		if a.UserID == userID && a.Confidence >= minConfidence {
			list = append(list, a)
		}
	}
	m.mu.Unlock()

	slices.SortFunc(list, func(a, b analyses.Analysis) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	return pageOf(list, page), nil
}

func (m *memRepo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *memRepo) countCategories(match func(analyses.Analysis) bool) []analyses.CategoryCount {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[classify.Category]int64)
	for _, a := range m.records {
		if match(a) {
			counts[a.Category]++
		}
	}

	list := make([]analyses.CategoryCount, 0, len(counts))
	for c, n := range counts {
		list = append(list, analyses.CategoryCount{Category: c, Count: n})
	}
	slices.SortFunc(list, func(a, b analyses.CategoryCount) int {
		if a.Count != b.Count {
			return int(b.Count - a.Count)
		}
		if a.Category < b.Category {
			return -1
		}
		return 1
	})
	return list
}

func (m *memRepo) average(match func(analyses.Analysis) bool) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sum float64
	var n int
	for _, a := range m.records {
		if match(a) {
			sum += a.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func sortNewest(list []analyses.Analysis) {
	slices.SortFunc(list, func(a, b analyses.Analysis) int {
		if c := b.AnalyzedAt.Compare(a.AnalyzedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
}

func pageOf(list []analyses.Analysis, page pagination.PageRequest) *pagination.PageResult[analyses.Analysis] {
	page.Normalize(pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})

	start := min(page.Offset(), len(list))
	end := min(start+page.PageSize, len(list))

	result := pagination.NewPageResult(list[start:end], len(list), page.Page, page.PageSize)
	return &result
}

// engineFunc adapts a function to classify.Engine.
type engineFunc func(ctx context.Context, storedName string) (classify.Result, error)

func (f engineFunc) Classify(ctx context.Context, storedName string) (classify.Result, error) {
	return f(ctx, storedName)
}

// gatedEngine wraps an engine so each classification waits for release.
func gatedEngine(next classify.Engine, release <-chan struct{}, started chan<- string) classify.Engine {
	return engineFunc(func(ctx context.Context, storedName string) (classify.Result, error) {
		if started != nil {
			started <- storedName
		}
		<-release
		return next.Classify(ctx, storedName)
	})
}

type fixture struct {
	sys   analyses.System
	repo  *memRepo
	files storage.System
	pool  *workers.Pool
	dir   string
}

type fixtureOptions struct {
	engine   func(files storage.Reader) classify.Engine
	observer func(pool *workers.Pool) *analyses.Observer
	workers  workers.Config
	maxSize  string
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()

	dir := t.TempDir()
	storeCfg := &storage.Config{BasePath: dir, MaxUploadSize: opts.maxSize}
	if err := storeCfg.Finalize(nil); err != nil {
		t.Fatalf("storage config: %v", err)
	}

	files, err := storage.New(storeCfg, logging.Discard())
	if err != nil {
		t.Fatalf("storage.New() failed: %v", err)
	}
	if err := files.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	poolCfg := opts.workers
	if err := poolCfg.Finalize(nil); err != nil {
		t.Fatalf("workers config: %v", err)
	}
	pool := workers.New(&poolCfg, logging.Discard())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool.Shutdown(ctx)
	})

	var engine classify.Engine
	if opts.engine != nil {
		engine = opts.engine(files)
	} else {
		classifyCfg := &classify.Config{}
		if err := classifyCfg.Finalize(nil); err != nil {
			t.Fatalf("classify config: %v", err)
		}
		engine = classify.NewPlaceholder(files, classifyCfg, logging.Discard())
	}

	var observer *analyses.Observer
	if opts.observer != nil {
		observer = opts.observer(pool)
	}

	repo := newMemRepo()
	sys := analyses.New(repo, files, engine, uploads.NewValidator(storeCfg), pool, observer, logging.Discard())

	return &fixture{sys: sys, repo: repo, files: files, pool: pool, dir: dir}
}

func (f *fixture) fileCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	return len(entries)
}

func (f *fixture) submitAndWait(t *testing.T, identity analyses.Identity, name string) *analyses.Analysis {
	t.Helper()

	sub, err := f.sys.Submit(context.Background(), identity, upload(name, 2048))
	if err != nil {
		t.Fatalf("Submit(%q) failed: %v", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := sub.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
	return a
}

func upload(name string, size int) uploads.File {
	data := bytes.Repeat([]byte{0xAB}, size)
	return uploads.File{
		Data:        data,
		Filename:    name,
		Size:        int64(size),
		ContentType: "image/png",
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode() failed: %v", err)
	}
	return buf.Bytes()
}
