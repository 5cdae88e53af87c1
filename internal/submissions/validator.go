package submissions

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// allowedFileTypes maps accepted content types to the extension each must
// carry. A correct extension with a mismatched declared type is rejected.
var allowedFileTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// requiredFields lists the form fields that must be non-empty after trimming,
// in the order violations are reported.
var requiredFields = []string{"nome", "telefone", "cpf", "cep", "estado", "cidade", "bairro", "rua", "vaga"}

// Validate runs every check and returns the complete violation list; an
// empty list means the input is acceptable. Checks never short-circuit so
// the caller can report all problems at once. No side effects.
func Validate(in Input, file *FileUpload, maxFileBytes int64) []string {
	var violations []string

	fields := map[string]string{
		"nome":     in.Nome,
		"telefone": in.Telefone,
		"cpf":      in.CPF,
		"cep":      in.CEP,
		"estado":   in.Estado,
		"cidade":   in.Cidade,
		"bairro":   in.Bairro,
		"rua":      in.Rua,
		"vaga":     in.Vaga,
	}
	for _, field := range requiredFields {
		if strings.TrimSpace(fields[field]) == "" {
			violations = append(violations, fmt.Sprintf("Campo %s é obrigatório", field))
		}
	}

	if strings.TrimSpace(in.CPF) != "" && len(digitsOnly(in.CPF)) != 11 {
		violations = append(violations, "CPF deve conter 11 dígitos")
	}
	if strings.TrimSpace(in.Telefone) != "" {
		if n := len(digitsOnly(in.Telefone)); n < 10 || n > 11 {
			violations = append(violations, "Telefone deve conter 10 ou 11 dígitos")
		}
	}
	if strings.TrimSpace(in.CEP) != "" && len(digitsOnly(in.CEP)) != 8 {
		violations = append(violations, "CEP deve conter 8 dígitos")
	}

	if file == nil {
		violations = append(violations, "Arquivo do currículo é obrigatório")
	} else {
		wantExt, typeOK := allowedFileTypes[strings.ToLower(strings.TrimSpace(file.ContentType))]
		ext := strings.ToLower(filepath.Ext(file.Name))
		if !typeOK || ext != wantExt {
			violations = append(violations, fmt.Sprintf(
				"Tipo de arquivo não permitido. Apenas %s são aceitos", strings.Join(allowedExtensions(), ", ")))
		}
		if maxFileBytes > 0 && file.Size > maxFileBytes {
			violations = append(violations, fmt.Sprintf(
				"Arquivo muito grande. O tamanho máximo é %dMB.", maxFileBytes>>20))
		}
	}

	return violations
}

// Normalize trims every field and reduces cpf, telefone and cep to digits.
func Normalize(in Input) Input {
	return Input{
		Nome:     strings.TrimSpace(in.Nome),
		Telefone: digitsOnly(in.Telefone),
		CPF:      digitsOnly(in.CPF),
		CEP:      digitsOnly(in.CEP),
		Estado:   strings.TrimSpace(in.Estado),
		Cidade:   strings.TrimSpace(in.Cidade),
		Bairro:   strings.TrimSpace(in.Bairro),
		Rua:      strings.TrimSpace(in.Rua),
		Numero:   strings.TrimSpace(in.Numero),
		Vaga:     strings.TrimSpace(in.Vaga),
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowedExtensions() []string {
	exts := make([]string, 0, len(allowedFileTypes))
	for _, ext := range allowedFileTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
