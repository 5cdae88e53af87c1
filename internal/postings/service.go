package postings

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Service applies posting business rules on top of a Repo.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create validates the input and stores a new posting. New postings are
// active unless the input says otherwise.
func (s *Service) Create(ctx context.Context, in Input) (Vaga, error) {
	v, err := fromInput(in)
	if err != nil {
		return Vaga{}, err
	}
	v.Ativa = in.Ativa == nil || *in.Ativa
	v.DataCriacao = s.now()
	return s.Repo.Create(ctx, v)
}

// Update replaces the posting's fields. An absent ativa flag keeps the
// current value.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Vaga, error) {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Vaga{}, err
	}

	v, err := fromInput(in)
	if err != nil {
		return Vaga{}, err
	}
	v.ID = id
	v.DataCriacao = current.DataCriacao
	v.Ativa = current.Ativa
	if in.Ativa != nil {
		v.Ativa = *in.Ativa
	}

	if err := s.Repo.Update(ctx, v); err != nil {
		return Vaga{}, err
	}
	return v, nil
}

// Delete removes a posting. Submissions already received for it stay.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

// List returns postings, optionally restricted to active ones.
func (s *Service) List(ctx context.Context, onlyActive bool) ([]Vaga, error) {
	return s.Repo.List(ctx, onlyActive)
}

func fromInput(in Input) (Vaga, error) {
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	titulo := strings.TrimSpace(in.Titulo)

	if titulo == "" {
		return Vaga{}, fmt.Errorf("%w: titulo is required", ErrInvalidInput)
	}
	if slug == "" {
		slug = slugify(titulo)
	}
	if !slugPattern.MatchString(slug) {
		return Vaga{}, fmt.Errorf("%w: malformed slug", ErrInvalidInput)
	}

	return Vaga{
		Slug:      slug,
		Titulo:    titulo,
		Descricao: strings.TrimSpace(in.Descricao),
	}, nil
}

// slugify lowercases the title and collapses runs of non-alphanumerics into
// single hyphens. Accented letters are dropped rather than transliterated.
func slugify(s string) string {
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			sb.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(sb.String(), "-")
}
