package storage

import (
	"context"
	"errors"

	"genomic/internal/model"
)

// Store defines persistence operations for experiment runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunSummary, error)
	DeleteRun(ctx context.Context, id string) error
}

var errNotInitialized = errors.New("store is not initialized")
