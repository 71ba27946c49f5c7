package domain

import "time"

// JobStatus is the state of a cache warm-up job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// WarmupJob tracks a batch run of the text pipeline over a dish list.
type WarmupJob struct {
	ID          string     `json:"id"`
	Source      string     `json:"source"`
	Status      JobStatus  `json:"status"`
	Total       int        `json:"total"`
	Processed   int        `json:"processed"`
	Cached      int        `json:"cached"`
	Invalid     int        `json:"invalid"`
	Failed      int        `json:"failed"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ErrorLog    string     `json:"error_log,omitempty"`
}
