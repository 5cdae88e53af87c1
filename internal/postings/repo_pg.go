package postings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PGRepo stores postings in Postgres.
type PGRepo struct {
	DB *sql.DB
}

const vagaColumns = "id, slug, titulo, descricao, ativa, data_criacao"

func (r *PGRepo) Create(ctx context.Context, v Vaga) (Vaga, error) {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO vagas (slug, titulo, descricao, ativa, data_criacao)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, v.Slug, v.Titulo, v.Descricao, v.Ativa, v.DataCriacao).Scan(&v.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Vaga{}, ErrSlugTaken
		}
		return Vaga{}, fmt.Errorf("insert vaga: %w", err)
	}
	return v, nil
}

func (r *PGRepo) Update(ctx context.Context, v Vaga) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vagas
		SET slug = $1, titulo = $2, descricao = $3, ativa = $4
		WHERE id = $5
	`, v.Slug, v.Titulo, v.Descricao, v.Ativa, v.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("update vaga: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vaga rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vagas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vaga: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vaga rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Vaga, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+vagaColumns+` FROM vagas WHERE id = $1`, id)
	var v Vaga
	if err := row.Scan(&v.ID, &v.Slug, &v.Titulo, &v.Descricao, &v.Ativa, &v.DataCriacao); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Vaga{}, ErrNotFound
		}
		return Vaga{}, fmt.Errorf("get vaga: %w", err)
	}
	return v, nil
}

func (r *PGRepo) List(ctx context.Context, onlyActive bool) ([]Vaga, error) {
	query := `SELECT ` + vagaColumns + ` FROM vagas`
	if onlyActive {
		query += ` WHERE ativa`
	}
	query += ` ORDER BY titulo ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vagas: %w", err)
	}
	defer rows.Close()

	var vagas []Vaga
	for rows.Next() {
		var v Vaga
		if err := rows.Scan(&v.ID, &v.Slug, &v.Titulo, &v.Descricao, &v.Ativa, &v.DataCriacao); err != nil {
			return nil, fmt.Errorf("scan vaga: %w", err)
		}
		vagas = append(vagas, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vagas: %w", err)
	}
	return vagas, nil
}
