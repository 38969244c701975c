package cvfiles

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Repo defines persistence operations for stored CV files.
type Repo interface {
	Create(ctx context.Context, file File) error
	GetByAnalysisID(ctx context.Context, analysisID string) (File, error)
}
