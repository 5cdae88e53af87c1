package submissions

import "time"

// Submission represents one candidate's application for one vaga.
// CPF, telefone and CEP are stored digits-only.
type Submission struct {
	ID               string
	Nome             string
	Telefone         string
	CPF              string
	CEP              string
	Estado           string
	Cidade           string
	Bairro           string
	Rua              string
	Numero           string
	Vaga             string
	ArquivoCurriculo string
	Experiencia      *Experiencia
	DataEnvio        time.Time
	IPAddress        string
}

// Experiencia is the best-effort summary mined from the résumé text.
type Experiencia struct {
	TotalAnosExperiencia int      `json:"total_anos_experiencia"`
	Competencias         []string `json:"competencias,omitempty"`
}

// Input carries the raw form fields of a submission attempt.
type Input struct {
	Nome     string
	Telefone string
	CPF      string
	CEP      string
	Estado   string
	Cidade   string
	Bairro   string
	Rua      string
	Numero   string
	Vaga     string
}

// FileUpload carries the résumé file of a submission attempt. Data is held in
// memory; the upload ceiling keeps that bounded.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// ListFilter narrows and pages the submission listing.
type ListFilter struct {
	Busca       string // substring over nome, cpf, vaga
	Vaga        string // exact match
	Data        string // YYYY-MM-DD of data_envio
	Estado      string // case-insensitive substring
	Experiencia string // bucket: "1-2", "3-5", "5+"
	Page        int
	PerPage     int
}

// MatchesExperiencia reports whether a submission falls in the requested
// experience bucket. Submissions without extracted experience never match.
func (f ListFilter) MatchesExperiencia(sub Submission) bool {
	if f.Experiencia == "" {
		return true
	}
	if sub.Experiencia == nil {
		return false
	}
	anos := sub.Experiencia.TotalAnosExperiencia
	switch f.Experiencia {
	case "1-2":
		return anos >= 1 && anos <= 2
	case "3-5":
		return anos >= 3 && anos <= 5
	case "5+":
		return anos >= 5
	default:
		return true
	}
}
