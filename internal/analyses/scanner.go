package analyses

import "github.com/JaimeStill/color-lab/pkg/repository"

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var a Analysis
	err := s.Scan(
		&a.ID,
		&a.UserID,
		&a.OriginalFileName,
		&a.StoredFileName,
		&a.Category,
		&a.Confidence,
		&a.Description,
		&a.Palette,
		&a.ContentType,
		&a.SizeBytes,
		&a.ImageWidth,
		&a.ImageHeight,
		&a.AnalyzedAt,
	)
	return a, err
}

func scanCategoryCount(s repository.Scanner) (CategoryCount, error) {
	var c CategoryCount
	err := s.Scan(&c.Category, &c.Count)
	return c, err
}

func scanMonthlyCount(s repository.Scanner) (MonthlyCount, error) {
	var m MonthlyCount
	err := s.Scan(&m.Month, &m.Count)
	return m, err
}
