package pdf

import "funilaria-puma/backend/internal/domain/quote"

// Generator renders a fully-resolved quote into a self-contained document.
// Implementations must be pure: same quote in, same bytes out, nothing
// persisted, the quote never mutated.
type Generator interface {
	Generate(q quote.Quote) ([]byte, error)
}
