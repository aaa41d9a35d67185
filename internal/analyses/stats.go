package analyses

import (
	"time"

	"github.com/JaimeStill/color-lab/internal/classify"
)

// CategoryCount is the number of analyses assigned to a category.
type CategoryCount struct {
	Category classify.Category `json:"category"`
	Count    int64             `json:"count"`
}

// MonthlyCount is the number of analyses in the calendar month starting at Month.
type MonthlyCount struct {
	Month time.Time `json:"month"`
	Count int64     `json:"count"`
}

// ConfidenceStats summarizes confidence across analyses.
type ConfidenceStats struct {
	Average float64 `json:"average"`
}

// PeriodStats is the number of analyses within [From, To].
type PeriodStats struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Count int64     `json:"count"`
}

// UserStats summarizes one user's analyses.
type UserStats struct {
	Total             int64             `json:"total"`
	AverageConfidence float64           `json:"average_confidence"`
	MostFrequent      classify.Category `json:"most_frequent,omitempty"`
	Categories        []CategoryCount   `json:"categories"`
	Latest            *Analysis         `json:"latest,omitempty"`
}
