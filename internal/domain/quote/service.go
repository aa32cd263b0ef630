package quote

import (
	"context"
	"strings"
)

// Store persists quote aggregates. Every write method must be atomic: either
// the header and all of its line rows land together, or nothing does.
type Store interface {
	// CreateQuote inserts the header and all line rows, filling in the
	// assigned id and creation timestamp on q.
	CreateQuote(ctx context.Context, q *Quote) error
	// UpdateQuote rewrites the header in place and replaces all line rows
	// wholesale. Returns ErrNotFound when the id does not exist.
	UpdateQuote(ctx context.Context, q *Quote) error
	// DeleteQuote removes the header; line rows go with it via cascade.
	DeleteQuote(ctx context.Context, id int64) error
	// GetQuote returns the full aggregate: header, parts and labor.
	GetQuote(ctx context.Context, id int64) (*Quote, error)
	// ListQuotes returns summaries ordered by id descending. An all-digits
	// filter matches the id exactly; anything else matches the client name
	// as a case-insensitive substring; empty returns everything.
	ListQuotes(ctx context.Context, filter string) ([]Summary, error)
}

// Receipt is what create and update hand back to the caller.
type Receipt struct {
	ID    int64
	Total float64
}

// Service owns validation, normalization and total computation for the
// quote aggregate; storage atomicity is delegated to the Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, d Draft) (Receipt, error) {
	q, err := buildValid(d)
	if err != nil {
		return Receipt{}, err
	}
	if err := s.store.CreateQuote(ctx, q); err != nil {
		return Receipt{}, err
	}
	return Receipt{ID: q.ID, Total: q.Total}, nil
}

func (s *Service) Update(ctx context.Context, id int64, d Draft) (Receipt, error) {
	q, err := buildValid(d)
	if err != nil {
		return Receipt{}, err
	}
	q.ID = id
	if err := s.store.UpdateQuote(ctx, q); err != nil {
		return Receipt{}, err
	}
	return Receipt{ID: id, Total: q.Total}, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteQuote(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Quote, error) {
	return s.store.GetQuote(ctx, id)
}

func (s *Service) List(ctx context.Context, filter string) ([]Summary, error) {
	return s.store.ListQuotes(ctx, strings.TrimSpace(filter))
}

func buildValid(d Draft) (*Quote, error) {
	if strings.TrimSpace(d.ClientName) == "" {
		return nil, &ValidationError{Field: "cliente", Message: "obrigatório"}
	}
	q := d.build()
	if q.PartsTotal < 0 || q.LaborTotal < 0 || q.Total < 0 {
		return nil, &ValidationError{Field: "total", Message: "não pode ser negativo"}
	}
	return q, nil
}
