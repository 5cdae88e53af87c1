package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const submissionColumns = `id, nome, telefone, cpf, cep, estado, cidade, bairro, rua, numero, vaga, arquivo_curriculo, experiencia_extraida, data_envio, ip_address`

// Create inserts a new submission. A unique-constraint violation on
// (cpf, vaga) is mapped to ErrDuplicate so the pipeline can resolve the
// pre-check race to the duplicate outcome.
func (r *PGRepo) Create(ctx context.Context, sub Submission) error {
	const query = `
INSERT INTO curriculos (
    id, nome, telefone, cpf, cep, estado, cidade, bairro, rua, numero, vaga,
    arquivo_curriculo, experiencia_extraida, data_envio, ip_address
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	var numero sql.NullString
	if sub.Numero != "" {
		numero = sql.NullString{String: sub.Numero, Valid: true}
	}
	expJSON, err := marshalExperiencia(sub.Experiencia)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		sub.ID,
		sub.Nome,
		sub.Telefone,
		sub.CPF,
		sub.CEP,
		sub.Estado,
		sub.Cidade,
		sub.Bairro,
		sub.Rua,
		numero,
		sub.Vaga,
		sub.ArquivoCurriculo,
		expJSON,
		sub.DataEnvio,
		sub.IPAddress,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByCPFAndVaga returns the existing submission for the pair, or ErrNotFound.
func (r *PGRepo) FindByCPFAndVaga(ctx context.Context, cpf, vaga string) (Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM curriculos WHERE cpf = $1 AND vaga = $2 LIMIT 1`, submissionColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, cpf, vaga))
}

// GetByID fetches a submission by identifier.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM curriculos WHERE id = $1 LIMIT 1`, submissionColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// List returns the filtered page plus the total count after filtering.
// Field filters are pushed into SQL; the experience bucket lives in JSONB
// mined after the fact, so it is applied on the materialized rows, as is
// pagination.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Submission, int, error) {
	query := fmt.Sprintf(`
SELECT %s FROM curriculos
WHERE ($1 = '' OR nome ILIKE '%%' || $1 || '%%' OR cpf LIKE '%%' || $1 || '%%' OR vaga ILIKE '%%' || $1 || '%%')
  AND ($2 = '' OR vaga = $2)
  AND ($3 = '' OR to_char(data_envio AT TIME ZONE 'UTC', 'YYYY-MM-DD') = $3)
  AND ($4 = '' OR estado ILIKE '%%' || $4 || '%%')
ORDER BY data_envio DESC`, submissionColumns)

	rows, err := r.DB.QueryContext(ctx, query, filter.Busca, filter.Vaga, filter.Data, filter.Estado)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var all []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, err
		}
		if filter.MatchesExperiencia(sub) {
			all = append(all, sub)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return paginate(all, filter.Page, filter.PerPage)
}

// Delete removes a submission row.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM curriculos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateExperiencia stores the extracted experience summary.
func (r *PGRepo) UpdateExperiencia(ctx context.Context, id string, exp Experiencia) error {
	expJSON, err := marshalExperiencia(&exp)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE curriculos SET experiencia_extraida = $1 WHERE id = $2`, expJSON, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Aggregate scans (vaga, data_envio) pairs and computes the statistics
// counts in one pass.
func (r *PGRepo) Aggregate(ctx context.Context, since time.Time) (int, int, map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT vaga, data_envio FROM curriculos`)
	if err != nil {
		return 0, 0, nil, err
	}
	defer rows.Close()

	total := 0
	recent := 0
	porVaga := make(map[string]int)
	for rows.Next() {
		var vaga string
		var dataEnvio time.Time
		if err := rows.Scan(&vaga, &dataEnvio); err != nil {
			return 0, 0, nil, err
		}
		total++
		porVaga[vaga]++
		if dataEnvio.After(since) {
			recent++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, nil, err
	}
	return total, recent, porVaga, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Submission, error) {
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	return sub, nil
}

func scanSubmission(row rowScanner) (Submission, error) {
	var sub Submission
	var numero sql.NullString
	var expJSON []byte
	var ipAddress sql.NullString
	err := row.Scan(
		&sub.ID,
		&sub.Nome,
		&sub.Telefone,
		&sub.CPF,
		&sub.CEP,
		&sub.Estado,
		&sub.Cidade,
		&sub.Bairro,
		&sub.Rua,
		&numero,
		&sub.Vaga,
		&sub.ArquivoCurriculo,
		&expJSON,
		&sub.DataEnvio,
		&ipAddress,
	)
	if err != nil {
		return Submission{}, err
	}
	if numero.Valid {
		sub.Numero = numero.String
	}
	if ipAddress.Valid {
		sub.IPAddress = ipAddress.String
	}
	if len(expJSON) > 0 {
		var exp Experiencia
		if err := json.Unmarshal(expJSON, &exp); err == nil {
			sub.Experiencia = &exp
		}
	}
	return sub, nil
}

func marshalExperiencia(exp *Experiencia) ([]byte, error) {
	if exp == nil {
		return nil, nil
	}
	data, err := json.Marshal(exp)
	if err != nil {
		return nil, fmt.Errorf("marshal experiencia: %w", err)
	}
	return data, nil
}

func paginate(all []Submission, page, perPage int) ([]Submission, int, error) {
	total := len(all)
	if perPage <= 0 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= total {
		return []Submission{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

var _ Repo = (*PGRepo)(nil)
