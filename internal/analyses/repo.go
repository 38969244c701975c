package analyses

import (
	"context"

	"cv-analyzer-backend/internal/cvfiles"
)

// Repo defines persistence operations for CV analyses. CreateWithFile writes
// the analysis and its file record together; on Postgres both rows share one
// transaction so a storage failure never leaves a partial record.
type Repo interface {
	CreateWithFile(ctx context.Context, analysis Analysis, file cvfiles.File) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	ListByUser(ctx context.Context, userID string) ([]Analysis, error)
	Update(ctx context.Context, analysisID string, result Result) error
	StatsByUser(ctx context.Context, userID string) (Stats, error)
}
