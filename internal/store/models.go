package store

import (
	"database/sql"
	"time"
)

var (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailure = "failure"
)

// PipelineRun represents the 'pipeline_runs' table. One row per pipeline
// execution, recording what was requested and what came out.
type PipelineRun struct {
	ID          string         `db:"id"`
	Year        int            `db:"year"`
	DryRun      bool           `db:"dry_run"`
	RowsWritten int            `db:"rows_written"`
	Status      string         `db:"status"`
	OutputFile  string         `db:"output_file"`
	StartedAt   time.Time      `db:"started_at"`
	FinishedAt  sql.NullTime   `db:"finished_at"`
	Error       sql.NullString `db:"error"`
}
