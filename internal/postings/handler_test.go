package postings_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JeffiBR/backend-curriculos/internal/bootstrap"
	"github.com/JeffiBR/backend-curriculos/internal/shared/config"
)

func buildRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:              "0",
		Env:               "dev",
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		MaxUploadBytes:    5 << 20,
		GeneralRateMax:    100,
		GeneralRateWindow: 15 * time.Minute,
		SubmitRateMax:     5,
		SubmitRateWindow:  time.Hour,
		StatsCacheTTL:     5 * time.Minute,
		StoreCallTimeout:  15 * time.Second,
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func TestVagasCRUD(t *testing.T) {
	router := buildRouter(t)

	// Create.
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/vagas",
		strings.NewReader(`{"titulo":"Vendedor Interno","descricao":"Atendimento na loja"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Success bool `json:"success"`
		Data    struct {
			ID   int64  `json:"id"`
			Slug string `json:"slug"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Data.Slug != "vendedor-interno" {
		t.Fatalf("slug = %q", created.Data.Slug)
	}

	// Duplicate slug conflicts.
	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/vagas",
		strings.NewReader(`{"titulo":"Vendedor Interno"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate slug status = %d, want 409", resp.Code)
	}

	// Deactivate via update.
	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/vagas/1",
		strings.NewReader(`{"titulo":"Vendedor Interno","slug":"vendedor-interno","ativa":false}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", resp.Code, resp.Body.String())
	}

	// Public listing hides inactive vagas.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/vagas", nil))
	var listed struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed.Total != 0 {
		t.Fatalf("active total = %d, want 0", listed.Total)
	}

	// Admin listing sees everything.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/vagas?todas=1", nil))
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list all: %v", err)
	}
	if listed.Total != 1 {
		t.Fatalf("total = %d, want 1", listed.Total)
	}

	// Delete.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/vagas/1", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("delete status = %d", resp.Code)
	}
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/vagas/1", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.Code)
	}
}
