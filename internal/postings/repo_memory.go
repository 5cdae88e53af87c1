package postings

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Vaga
	bySlug map[string]int64
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		byID:   make(map[int64]Vaga),
		bySlug: make(map[string]int64),
	}
}

func (r *MemoryRepo) Create(_ context.Context, v Vaga) (Vaga, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySlug[v.Slug]; exists {
		return Vaga{}, ErrSlugTaken
	}
	v.ID = r.nextID
	r.nextID++
	r.byID[v.ID] = v
	r.bySlug[v.Slug] = v.ID
	return v, nil
}

func (r *MemoryRepo) Update(_ context.Context, v Vaga) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[v.ID]
	if !ok {
		return ErrNotFound
	}
	if id, exists := r.bySlug[v.Slug]; exists && id != v.ID {
		return ErrSlugTaken
	}
	delete(r.bySlug, current.Slug)
	v.DataCriacao = current.DataCriacao
	r.byID[v.ID] = v
	r.bySlug[v.Slug] = v.ID
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.bySlug, v.Slug)
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id int64) (Vaga, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return Vaga{}, ErrNotFound
	}
	return v, nil
}

func (r *MemoryRepo) List(_ context.Context, onlyActive bool) ([]Vaga, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vagas := make([]Vaga, 0, len(r.byID))
	for _, v := range r.byID {
		if onlyActive && !v.Ativa {
			continue
		}
		vagas = append(vagas, v)
	}
	sort.Slice(vagas, func(i, j int) bool { return vagas[i].Titulo < vagas[j].Titulo })
	return vagas, nil
}
