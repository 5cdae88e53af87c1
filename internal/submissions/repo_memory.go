package submissions

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
// The pair index gives it the same uniqueness guarantee the Postgres
// constraint provides.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Submission
	byPair map[string]string // cpf|vaga -> id
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Submission),
		byPair: make(map[string]string),
	}
}

func pairKey(cpf, vaga string) string {
	return cpf + "|" + vaga
}

// Create stores a submission, enforcing (cpf, vaga) uniqueness.
func (r *MemoryRepo) Create(ctx context.Context, sub Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(sub.CPF, sub.Vaga)
	if _, exists := r.byPair[key]; exists {
		return ErrDuplicate
	}
	r.byID[sub.ID] = sub
	r.byPair[key] = sub.ID
	return nil
}

// FindByCPFAndVaga returns the existing submission for the pair, or ErrNotFound.
func (r *MemoryRepo) FindByCPFAndVaga(ctx context.Context, cpf, vaga string) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPair[pairKey(cpf, vaga)]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return r.byID[id], nil
}

// GetByID returns a submission by identifier.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byID[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

// List returns the filtered page plus the total count after filtering,
// newest first.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Submission, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	all := make([]Submission, 0, len(r.byID))
	for _, sub := range r.byID {
		all = append(all, sub)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].DataEnvio.After(all[j].DataEnvio)
	})

	filtered := all[:0:0]
	for _, sub := range all {
		if matchesFilter(sub, filter) {
			filtered = append(filtered, sub)
		}
	}
	return paginate(filtered, filter.Page, filter.PerPage)
}

// Delete removes a submission.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byPair, pairKey(sub.CPF, sub.Vaga))
	return nil
}

// UpdateExperiencia stores the extracted experience summary.
func (r *MemoryRepo) UpdateExperiencia(ctx context.Context, id string, exp Experiencia) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	sub.Experiencia = &exp
	r.byID[id] = sub
	return nil
}

// Aggregate computes the statistics counts.
func (r *MemoryRepo) Aggregate(ctx context.Context, since time.Time) (int, int, map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	recent := 0
	porVaga := make(map[string]int)
	for _, sub := range r.byID {
		total++
		porVaga[sub.Vaga]++
		if sub.DataEnvio.After(since) {
			recent++
		}
	}
	return total, recent, porVaga, nil
}

func matchesFilter(sub Submission, filter ListFilter) bool {
	if busca := strings.ToLower(strings.TrimSpace(filter.Busca)); busca != "" {
		if !strings.Contains(strings.ToLower(sub.Nome), busca) &&
			!strings.Contains(sub.CPF, busca) &&
			!strings.Contains(strings.ToLower(sub.Vaga), busca) {
			return false
		}
	}
	if filter.Vaga != "" && sub.Vaga != filter.Vaga {
		return false
	}
	if filter.Data != "" && sub.DataEnvio.UTC().Format("2006-01-02") != filter.Data {
		return false
	}
	if estado := strings.ToLower(strings.TrimSpace(filter.Estado)); estado != "" {
		if !strings.Contains(strings.ToLower(sub.Estado), estado) {
			return false
		}
	}
	return filter.MatchesExperiencia(sub)
}

var _ Repo = (*MemoryRepo)(nil)
