package domain

import "time"

// ContentScript é um roteiro de conteúdo que pode ser vinculado a um plano.
type ContentScript struct {
	ID        int       `json:"id"`
	Title     string    `json:"titulo"`
	Body      *string   `json:"conteudo"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
