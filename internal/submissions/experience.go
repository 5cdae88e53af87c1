package submissions

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/JeffiBR/backend-curriculos/internal/shared/telemetry"
)

var yearsPattern = regexp.MustCompile(`(\d{1,2})\s*(?:\+\s*)?anos?`)

// knownCompetencias are the skill keywords mined from résumé text. Matching
// is case-insensitive on the plain text of the document.
var knownCompetencias = []string{
	"excel", "word", "powerpoint", "pacote office",
	"atendimento", "vendas", "caixa", "estoque", "logística",
	"informática", "inglês", "espanhol", "liderança", "gestão",
}

// extractExperience mines the résumé for an experience summary and stores it
// on the committed record. Only PDFs are mined; any failure is logged and
// swallowed since the submission is already committed.
func (s *Service) extractExperience(ctx context.Context, sub Submission, file *FileUpload) {
	if file.ContentType != "application/pdf" {
		return
	}

	text, err := pdfText(file.Data)
	if err != nil {
		telemetry.Warn("submission.extract_failed", map[string]any{
			"submission_id": sub.ID,
			"error":         err.Error(),
		})
		return
	}

	exp := mineExperience(text)
	if exp == nil {
		return
	}
	if err := s.Repo.UpdateExperiencia(ctx, sub.ID, *exp); err != nil {
		telemetry.Warn("submission.extract_store_failed", map[string]any{
			"submission_id": sub.ID,
			"error":         err.Error(),
		})
	}
}

func pdfText(data []byte) (text string, err error) {
	// The reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errMalformedPDF
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// mineExperience pulls a years-of-experience figure and known skill keywords
// out of plain résumé text. Returns nil when nothing was found.
func mineExperience(text string) *Experiencia {
	lower := strings.ToLower(text)

	years := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(lower, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > years && n <= 60 {
			years = n
		}
	}

	var skills []string
	for _, kw := range knownCompetencias {
		if strings.Contains(lower, kw) {
			skills = append(skills, kw)
		}
	}

	if years == 0 && len(skills) == 0 {
		return nil
	}
	return &Experiencia{TotalAnosExperiencia: years, Competencias: skills}
}
