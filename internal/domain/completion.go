package domain

import "time"

// DailyCompletion compares what was planned for a day with what was recorded.
// It is computed on read and never stored.
type DailyCompletion struct {
	Date                    time.Time `json:"date"`
	PlannedCount            int       `json:"plannedCount"`
	CompletedCount          int       `json:"completedCount"`
	CompletionPercentage    float64   `json:"completionPercentage"`
	PlannedTrainingNames    []string  `json:"plannedTrainingNames"`
	CompletedTrainingSports []string  `json:"completedTrainingSports"`
}
