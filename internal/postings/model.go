package postings

import "time"

// Vaga is a job posting candidates can submit résumés against.
type Vaga struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Titulo      string    `json:"titulo"`
	Descricao   string    `json:"descricao"`
	Ativa       bool      `json:"ativa"`
	DataCriacao time.Time `json:"data_criacao"`
}

// Input carries the admin-supplied fields for creating or updating a vaga.
type Input struct {
	Slug      string `json:"slug"`
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
	Ativa     *bool  `json:"ativa"`
}
