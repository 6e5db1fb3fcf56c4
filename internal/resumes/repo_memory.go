package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // resumeId -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[resume.ID] = clone(resume)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.data[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return clone(resume), nil
}

// ListByUser returns a user's resumes, most recently updated first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Resume, 0)
	for _, resume := range r.data {
		if resume.UserID == userID {
			out = append(out, clone(resume))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[resume.ID]
	if !ok || existing.UserID != resume.UserID {
		return ErrNotFound
	}
	r.data[resume.ID] = clone(resume)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[resumeID]
	if !ok || existing.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, resumeID)
	return nil
}

// clone detaches slices so callers cannot mutate stored state.
func clone(r Resume) Resume {
	out := r
	out.Skills = cloneSlice(r.Skills)
	out.Experience = cloneSlice(r.Experience)
	out.Project = cloneSlice(r.Project)
	out.Education = cloneSlice(r.Education)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

var _ Repo = (*MemoryRepo)(nil)
