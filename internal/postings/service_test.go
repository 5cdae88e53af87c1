package postings

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestPostingService() *Service {
	current := time.Unix(1_700_000_000, 0)
	return &Service{
		Repo: NewMemoryRepo(),
		Now:  func() time.Time { return current },
	}
}

func TestCreateDefaultsToActive(t *testing.T) {
	svc := newTestPostingService()

	v, err := svc.Create(context.Background(), Input{Titulo: "Vendedor Interno"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !v.Ativa {
		t.Fatal("new vaga must default to active")
	}
	if v.Slug != "vendedor-interno" {
		t.Fatalf("Slug = %q, want generated from titulo", v.Slug)
	}
	if v.ID == 0 {
		t.Fatal("expected assigned id")
	}
}

func TestCreateRejectsMissingTitulo(t *testing.T) {
	svc := newTestPostingService()

	_, err := svc.Create(context.Background(), Input{Slug: "vendedor"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc := newTestPostingService()

	if _, err := svc.Create(context.Background(), Input{Titulo: "Caixa"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := svc.Create(context.Background(), Input{Titulo: "Caixa"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("want ErrSlugTaken, got %v", err)
	}
}

func TestUpdateKeepsAtivaWhenAbsent(t *testing.T) {
	svc := newTestPostingService()

	inactive := false
	v, err := svc.Create(context.Background(), Input{Titulo: "Caixa", Ativa: &inactive})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), v.ID, Input{Titulo: "Caixa Sênior", Slug: v.Slug})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Ativa {
		t.Fatal("absent ativa flag must keep the stored value")
	}
	if updated.Titulo != "Caixa Sênior" {
		t.Fatalf("Titulo = %q", updated.Titulo)
	}
	if !updated.DataCriacao.Equal(v.DataCriacao) {
		t.Fatal("DataCriacao must be preserved on update")
	}
}

func TestUpdateMissingVaga(t *testing.T) {
	svc := newTestPostingService()

	_, err := svc.Update(context.Background(), 42, Input{Titulo: "Caixa"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListOnlyActive(t *testing.T) {
	svc := newTestPostingService()

	inactive := false
	if _, err := svc.Create(context.Background(), Input{Titulo: "Vendedor"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), Input{Titulo: "Caixa", Ativa: &inactive}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	active, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(active) != 1 || active[0].Slug != "vendedor" {
		t.Fatalf("active = %+v", active)
	}

	all, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d, want 2", len(all))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Vendedor Interno", "vendedor-interno"},
		{"Auxiliar  de   Estoque", "auxiliar-de-estoque"},
		{"Caixa (Meio Período)", "caixa-meio-per-odo"},
		{"--Vendedor--", "vendedor"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
