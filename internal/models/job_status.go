package models

// Job status constants used in the background_jobs table.
const (
	JobStatusEnqueued  = "enqueued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)
