package submissions_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JeffiBR/backend-curriculos/internal/bootstrap"
	"github.com/JeffiBR/backend-curriculos/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:              "0",
		Env:               "dev",
		CORSAllowOrigin:   []string{"http://localhost:5173"},
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		MaxUploadBytes:    5 << 20,
		GeneralRateMax:    100,
		GeneralRateWindow: 15 * time.Minute,
		SubmitRateMax:     5,
		SubmitRateWindow:  time.Hour,
		StatsCacheTTL:     5 * time.Minute,
		StoreCallTimeout:  15 * time.Second,
	}
}

func buildRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

type formField struct{ name, value string }

func submissionForm(t *testing.T, fields []formField, fileName, fileType string, fileBody []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			t.Fatalf("write field %s: %v", f.name, err)
		}
	}
	if fileName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="curriculo"; filename="%s"`, fileName))
		header.Set("Content-Type", fileType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(fileBody); err != nil {
			t.Fatalf("write file body: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func completeFields(cpf, vaga string) []formField {
	return []formField{
		{"nome", "Maria da Silva"},
		{"telefone", "(11) 98888-7777"},
		{"cpf", cpf},
		{"cep", "01310-100"},
		{"estado", "SP"},
		{"cidade", "São Paulo"},
		{"bairro", "Bela Vista"},
		{"rua", "Avenida Paulista"},
		{"numero", "1000"},
		{"vaga", vaga},
	}
}

func postSubmission(router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/curriculos", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSubmitEndToEnd(t *testing.T) {
	router := buildRouter(t, testConfig(t))

	pdf := make([]byte, 2<<20)
	copy(pdf, "%PDF-1.4")
	body, contentType := submissionForm(t, completeFields("123.456.789-09", "vendedor"), "curriculo.pdf", "application/pdf", pdf)

	resp := postSubmission(router, body, contentType)
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			ID        string    `json:"id"`
			Nome      string    `json:"nome"`
			Vaga      string    `json:"vaga"`
			DataEnvio time.Time `json:"data_envio"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Success || created.Data.ID == "" || created.Data.Vaga != "vendedor" {
		t.Fatalf("created = %+v", created)
	}
	if created.Message != "Currículo enviado com sucesso!" {
		t.Fatalf("message = %q", created.Message)
	}

	// The record is retrievable through the listing.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/curriculos/"+created.Data.ID, nil)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("get status = %d", respGet.Code)
	}
}

func TestSubmitDuplicateReturns409(t *testing.T) {
	router := buildRouter(t, testConfig(t))
	pdf := []byte("%PDF-1.4 conteudo")

	body, contentType := submissionForm(t, completeFields("123.456.789-09", "vendedor"), "cv.pdf", "application/pdf", pdf)
	if resp := postSubmission(router, body, contentType); resp.Code != http.StatusCreated {
		t.Fatalf("first submit status = %d", resp.Code)
	}

	body, contentType = submissionForm(t, completeFields("123.456.789-09", "vendedor"), "cv.pdf", "application/pdf", pdf)
	resp := postSubmission(router, body, contentType)
	if resp.Code != http.StatusConflict {
		t.Fatalf("second submit status = %d, want 409", resp.Code)
	}

	var dup struct {
		Success   bool      `json:"success"`
		Message   string    `json:"message"`
		DataEnvio time.Time `json:"data_envio"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dup); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dup.Success || dup.DataEnvio.IsZero() {
		t.Fatalf("dup = %+v", dup)
	}
	if dup.Message != "Você já enviou um currículo para esta vaga." {
		t.Fatalf("message = %q", dup.Message)
	}
}

func TestSubmitValidationViolationsReported(t *testing.T) {
	router := buildRouter(t, testConfig(t))

	body, contentType := submissionForm(t, []formField{{"nome", "Maria"}}, "", "", nil)
	resp := postSubmission(router, body, contentType)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}

	var rejected struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rejected); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rejected.Success || len(rejected.Errors) == 0 {
		t.Fatalf("rejected = %+v", rejected)
	}
	found := false
	for _, v := range rejected.Errors {
		if v == "Arquivo do currículo é obrigatório" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing file violation in %v", rejected.Errors)
	}
}

func TestSubmitOversizeFileRejected(t *testing.T) {
	router := buildRouter(t, testConfig(t))

	big := make([]byte, 6<<20)
	body, contentType := submissionForm(t, completeFields("123.456.789-09", "vendedor"), "cv.pdf", "application/pdf", big)
	resp := postSubmission(router, body, contentType)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Arquivo muito grande") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestSubmitExecutableRejected(t *testing.T) {
	router := buildRouter(t, testConfig(t))

	body, contentType := submissionForm(t, completeFields("123.456.789-09", "vendedor"), "cv.exe", "application/octet-stream", []byte("MZ"))
	resp := postSubmission(router, body, contentType)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Tipo de arquivo não permitido") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestSubmitRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.SubmitRateMax = 2
	router := buildRouter(t, cfg)
	pdf := []byte("%PDF-1.4 conteudo")

	for i := 0; i < 2; i++ {
		cpf := fmt.Sprintf("1234567890%d", i)
		body, contentType := submissionForm(t, completeFields(cpf, "vendedor"), "cv.pdf", "application/pdf", pdf)
		if resp := postSubmission(router, body, contentType); resp.Code != http.StatusCreated {
			t.Fatalf("submit %d status = %d", i, resp.Code)
		}
	}

	body, contentType := submissionForm(t, completeFields("99999999999", "vendedor"), "cv.pdf", "application/pdf", pdf)
	resp := postSubmission(router, body, contentType)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After header must be set")
	}
}

func TestDeleteEndpointRemovesSubmission(t *testing.T) {
	router := buildRouter(t, testConfig(t))
	pdf := []byte("%PDF-1.4 conteudo")

	body, contentType := submissionForm(t, completeFields("123.456.789-09", "vendedor"), "cv.pdf", "application/pdf", pdf)
	resp := postSubmission(router, body, contentType)
	if resp.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", resp.Code)
	}
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	reqDel := httptest.NewRequest(http.MethodDelete, "/api/curriculos/"+created.Data.ID, nil)
	respDel := httptest.NewRecorder()
	router.ServeHTTP(respDel, reqDel)
	if respDel.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body = %s", respDel.Code, respDel.Body.String())
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/curriculos/"+created.Data.ID, nil)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", respGet.Code)
	}
}

func TestEstatisticasEndpoint(t *testing.T) {
	router := buildRouter(t, testConfig(t))
	pdf := []byte("%PDF-1.4 conteudo")

	body, contentType := submissionForm(t, completeFields("123.456.789-09", "vendedor"), "cv.pdf", "application/pdf", pdf)
	if resp := postSubmission(router, body, contentType); resp.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/estatisticas", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	var stats struct {
		Success bool `json:"success"`
		Cached  bool `json:"cached"`
		Data    struct {
			TotalCurriculos int            `json:"total_curriculos"`
			Curriculos7Dias int            `json:"curriculos_7_dias"`
			PorVaga         map[string]int `json:"por_vaga"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !stats.Success || stats.Cached {
		t.Fatalf("first read: %+v", stats)
	}
	if stats.Data.TotalCurriculos != 1 || stats.Data.PorVaga["vendedor"] != 1 {
		t.Fatalf("data = %+v", stats.Data)
	}

	// A second read within the TTL comes from cache.
	resp2 := httptest.NewRecorder()
	router.ServeHTTP(resp2, httptest.NewRequest(http.MethodGet, "/api/estatisticas", nil))
	if err := json.NewDecoder(resp2.Body).Decode(&stats); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if !stats.Cached {
		t.Fatal("second read within TTL must be cached")
	}
}
