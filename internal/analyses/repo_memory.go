package analyses

import (
	"context"
	"sort"
	"sync"
	"time"

	"cv-analyzer-backend/internal/cvfiles"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use. File
// records are delegated to the in-memory file repo; there is no transaction,
// the two writes happen sequentially.
type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]Analysis
	files *cvfiles.MemoryRepo
}

// NewMemoryRepo constructs a MemoryRepo writing file records to files.
func NewMemoryRepo(files *cvfiles.MemoryRepo) *MemoryRepo {
	return &MemoryRepo{
		byID:  make(map[string]Analysis),
		files: files,
	}
}

// CreateWithFile stores the analysis and its file record.
func (r *MemoryRepo) CreateWithFile(ctx context.Context, analysis Analysis, file cvfiles.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.byID[analysis.ID] = analysis
	r.mu.Unlock()
	return r.files.Create(ctx, file)
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// ListByUser returns a user's analyses, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Analysis, 0)
	for _, analysis := range r.byID {
		if analysis.UserID == userID {
			out = append(out, analysis)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update overwrites the result fields of an existing analysis.
func (r *MemoryRepo) Update(ctx context.Context, analysisID string, result Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.ApplyResult(result)
	analysis.UpdatedAt = time.Now().UTC()
	r.byID[analysisID] = analysis
	return nil
}

// StatsByUser aggregates a user's analyses.
func (r *MemoryRepo) StatsByUser(ctx context.Context, userID string) (Stats, error) {
	analyses, err := r.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{TotalAnalyses: len(analyses)}
	if len(analyses) == 0 {
		return stats, nil
	}
	var sum float64
	for _, analysis := range analyses {
		sum += analysis.OverallScore
	}
	stats.AverageScore = sum / float64(len(analyses))
	last := analyses[0].CreatedAt
	stats.LastAnalysis = &last
	return stats, nil
}
