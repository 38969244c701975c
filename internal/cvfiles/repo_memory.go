package cvfiles

import (
	"context"
	"sync"
)

// MemoryRepo stores files in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu         sync.RWMutex
	byAnalysis map[string]File
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byAnalysis: make(map[string]File)}
}

// Create stores the file record.
func (r *MemoryRepo) Create(ctx context.Context, file File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAnalysis[file.AnalysisID] = file
	return nil
}

// GetByAnalysisID returns the file stored for an analysis.
func (r *MemoryRepo) GetByAnalysisID(ctx context.Context, analysisID string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	file, ok := r.byAnalysis[analysisID]
	if !ok {
		return File{}, ErrNotFound
	}
	return file, nil
}
