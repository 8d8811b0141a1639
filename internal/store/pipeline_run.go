package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type PipelineRunStore struct {
	db *sqlx.DB
}

func (pr *PipelineRunStore) InsertRun(ctx context.Context, run *PipelineRun) error {
	query := `INSERT INTO pipeline_runs (
		id,
		year,
		dry_run,
		rows_written,
		status,
		output_file,
		started_at
	) VALUES (
		:id,
		:year,
		:dry_run,
		:rows_written,
		:status,
		:output_file,
		:started_at
	) RETURNING started_at`

	rows, err := pr.db.NamedQueryContext(ctx, query, run)
	if err != nil {
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&run.StartedAt); err != nil {
			return err
		}
	}
	return nil
}

func (pr *PipelineRunStore) FinishRun(ctx context.Context, id string, status string, rowsWritten int, runErr error) error {
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}

	query := `UPDATE pipeline_runs
		SET status = $1, rows_written = $2, error = NULLIF($3, ''), finished_at = $4
		WHERE id = $5`

	_, err := pr.db.ExecContext(ctx, query, status, rowsWritten, errText, time.Now().UTC(), id)
	return err
}

func (pr *PipelineRunStore) GetLatest(ctx context.Context, limit int) ([]PipelineRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, year, dry_run, rows_written, status, output_file, started_at, finished_at, error
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1`

	runs := []PipelineRun{}
	if err := pr.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, err
	}
	return runs, nil
}
