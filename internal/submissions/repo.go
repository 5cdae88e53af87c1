package submissions

import (
	"context"
	"time"
)

// Repo defines persistence operations for submissions.
//
// Create must enforce uniqueness of (cpf, vaga) at the storage layer and
// return ErrDuplicate on violation; the advisory FindByCPFAndVaga pre-check
// alone cannot serialize concurrent attempts for the same pair.
type Repo interface {
	Create(ctx context.Context, sub Submission) error
	FindByCPFAndVaga(ctx context.Context, cpf, vaga string) (Submission, error)
	GetByID(ctx context.Context, id string) (Submission, error)
	List(ctx context.Context, filter ListFilter) ([]Submission, int, error)
	Delete(ctx context.Context, id string) error
	UpdateExperiencia(ctx context.Context, id string, exp Experiencia) error
	Aggregate(ctx context.Context, since time.Time) (total int, recent int, porVaga map[string]int, err error)
}
