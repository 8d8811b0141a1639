package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	PipelineRuns interface {
		InsertRun(ctx context.Context, run *PipelineRun) error
		FinishRun(ctx context.Context, id string, status string, rowsWritten int, runErr error) error
		GetLatest(ctx context.Context, limit int) ([]PipelineRun, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		PipelineRuns: &PipelineRunStore{db: db},
	}
}
