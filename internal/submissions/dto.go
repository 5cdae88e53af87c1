package submissions

import "time"

// SubmitResponse is the outward-facing confirmation of a committed submission.
type SubmitResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Vaga      string    `json:"vaga"`
	DataEnvio time.Time `json:"data_envio"`
}

// SubmissionResponse is the full record shape used by the admin listing.
type SubmissionResponse struct {
	ID                  string       `json:"id"`
	Nome                string       `json:"nome"`
	Telefone            string       `json:"telefone"`
	CPF                 string       `json:"cpf"`
	CEP                 string       `json:"cep"`
	Estado              string       `json:"estado"`
	Cidade              string       `json:"cidade"`
	Bairro              string       `json:"bairro"`
	Rua                 string       `json:"rua"`
	Numero              string       `json:"numero,omitempty"`
	Vaga                string       `json:"vaga"`
	ArquivoCurriculo    string       `json:"arquivo_curriculo"`
	ExperienciaExtraida *Experiencia `json:"experiencia_extraida,omitempty"`
	DataEnvio           time.Time    `json:"data_envio"`
}

func toSubmitResponse(sub Submission) SubmitResponse {
	return SubmitResponse{
		ID:        sub.ID,
		Nome:      sub.Nome,
		Vaga:      sub.Vaga,
		DataEnvio: sub.DataEnvio,
	}
}

func toResponse(sub Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:                  sub.ID,
		Nome:                sub.Nome,
		Telefone:            sub.Telefone,
		CPF:                 sub.CPF,
		CEP:                 sub.CEP,
		Estado:              sub.Estado,
		Cidade:              sub.Cidade,
		Bairro:              sub.Bairro,
		Rua:                 sub.Rua,
		Numero:              sub.Numero,
		Vaga:                sub.Vaga,
		ArquivoCurriculo:    sub.ArquivoCurriculo,
		ExperienciaExtraida: sub.Experiencia,
		DataEnvio:           sub.DataEnvio,
	}
}
