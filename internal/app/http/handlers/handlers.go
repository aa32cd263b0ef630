package handlers

import (
	"github.com/go-playground/validator/v10"

	"funilaria-puma/backend/internal/domain/quote"
	"funilaria-puma/backend/internal/domain/quote/pdf"
)

type Handlers struct {
	Quotes   *quote.Service
	PDF      pdf.Generator
	validate *validator.Validate
}

func New(quotes *quote.Service, gen pdf.Generator) *Handlers {
	return &Handlers{
		Quotes:   quotes,
		PDF:      gen,
		validate: validator.New(),
	}
}
