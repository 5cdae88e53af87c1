package postings

import "context"

// Repo persists job postings.
type Repo interface {
	Create(ctx context.Context, v Vaga) (Vaga, error)
	Update(ctx context.Context, v Vaga) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (Vaga, error)
	List(ctx context.Context, onlyActive bool) ([]Vaga, error)
}
