// Package storage provides the interview record repositories and the job
// directory backing the engine: an in-memory implementation for tests and
// embedding, and a SQLite implementation for durable single-node
// deployments.
package storage

import (
	"context"
	"sync"

	"github.com/hireloop/interview-engine/internal/domain"
	"github.com/hireloop/interview-engine/internal/ports"
)

var _ ports.InterviewRepository = (*MemoryRepository)(nil)

// MemoryRepository keeps interview records in a mutex-guarded map. Loads
// and saves exchange deep copies, so callers never alias stored state.
type MemoryRepository struct {
	mu         sync.RWMutex
	interviews map[string]*domain.Interview
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{interviews: make(map[string]*domain.Interview)}
}

// Load returns a deep copy of the stored interview, or
// ports.ErrInterviewNotFound.
func (r *MemoryRepository) Load(ctx context.Context, id string) (*domain.Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	iv, ok := r.interviews[id]
	if !ok {
		return nil, ports.ErrInterviewNotFound
	}
	return iv.Clone(), nil
}

// Save stores a deep copy of the interview, replacing any prior record.
func (r *MemoryRepository) Save(ctx context.Context, iv *domain.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.interviews[iv.ID] = iv.Clone()
	return nil
}

// Len returns the number of stored interviews.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.interviews)
}
