package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"funilaria-puma/backend/internal/domain/quote"
)

var _ quote.Store = (*DB)(nil)

// opTimeout bounds every logical store operation, transaction included.
// Hitting it rolls back; a partial commit is never possible.
const opTimeout = 10 * time.Second

const insertQuoteSQL = `
	INSERT INTO orcamentos (
		cliente_nome, telefone, descricao,
		carro_marca, carro_modelo, carro_placa, carro_ano,
		forma_pagamento, total_itens, total_servicos, total_geral
	) VALUES ($1, NULLIF($2,''), $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), NULLIF($7,''), NULLIF($8,''), $9, $10, $11)
	RETURNING id, data_criacao`

const updateQuoteSQL = `
	UPDATE orcamentos SET
		cliente_nome = $1, telefone = NULLIF($2,''), descricao = $3,
		carro_marca = NULLIF($4,''), carro_modelo = NULLIF($5,''),
		carro_placa = NULLIF($6,''), carro_ano = NULLIF($7,''),
		forma_pagamento = NULLIF($8,''),
		total_itens = $9, total_servicos = $10, total_geral = $11
	WHERE id = $12`

func (db *DB) CreateQuote(ctx context.Context, q *quote.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, insertQuoteSQL,
			q.ClientName, q.Phone, q.Description,
			q.VehicleMake, q.VehicleModel, q.VehiclePlate, q.VehicleYear,
			q.PaymentTerms, q.PartsTotal, q.LaborTotal, q.Total,
		)
		if err := row.Scan(&q.ID, &q.CreatedAt); err != nil {
			return fmt.Errorf("insert header: %w", err)
		}
		return insertLines(ctx, tx, q)
	})
	if err != nil {
		return fmt.Errorf("create quote: %w", err)
	}
	return nil
}

func (db *DB) UpdateQuote(ctx context.Context, q *quote.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateQuoteSQL,
			q.ClientName, q.Phone, q.Description,
			q.VehicleMake, q.VehicleModel, q.VehiclePlate, q.VehicleYear,
			q.PaymentTerms, q.PartsTotal, q.LaborTotal, q.Total, q.ID,
		)
		if err != nil {
			return fmt.Errorf("update header: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return quote.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM orcamento_itens WHERE orcamento_id = $1`, q.ID); err != nil {
			return fmt.Errorf("clear parts: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM orcamento_servicos WHERE orcamento_id = $1`, q.ID); err != nil {
			return fmt.Errorf("clear labor: %w", err)
		}
		return insertLines(ctx, tx, q)
	})
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return quote.ErrNotFound
		}
		return fmt.Errorf("update quote %d: %w", q.ID, err)
	}
	return nil
}

// insertLines batch-inserts both child collections. Empty collections are a
// no-op, not an error.
func insertLines(ctx context.Context, tx pgx.Tx, q *quote.Quote) error {
	if len(q.Parts) == 0 && len(q.Labor) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, p := range q.Parts {
		b.Queue(
			`INSERT INTO orcamento_itens (orcamento_id, qtd, descricao, unitario, total) VALUES ($1, $2, $3, $4, $5)`,
			q.ID, p.Qty, p.Description, p.UnitPrice, p.Subtotal,
		)
	}
	for _, l := range q.Labor {
		b.Queue(
			`INSERT INTO orcamento_servicos (orcamento_id, descricao, valor) VALUES ($1, $2, $3)`,
			q.ID, l.Description, l.Value,
		)
	}
	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

func (db *DB) DeleteQuote(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `DELETE FROM orcamentos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return quote.ErrNotFound
	}
	return nil
}

func (db *DB) GetQuote(ctx context.Context, id int64) (*quote.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	q := &quote.Quote{}
	row := db.Pool.QueryRow(ctx, `
		SELECT id, cliente_nome, COALESCE(telefone,''), descricao,
		       COALESCE(carro_marca,''), COALESCE(carro_modelo,''),
		       COALESCE(carro_placa,''), COALESCE(carro_ano,''),
		       COALESCE(forma_pagamento,''),
		       total_itens, total_servicos, total_geral, data_criacao
		FROM orcamentos WHERE id = $1`, id)
	err := row.Scan(
		&q.ID, &q.ClientName, &q.Phone, &q.Description,
		&q.VehicleMake, &q.VehicleModel, &q.VehiclePlate, &q.VehicleYear,
		&q.PaymentTerms, &q.PartsTotal, &q.LaborTotal, &q.Total, &q.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, quote.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quote %d: %w", id, err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, qtd, descricao, unitario, total FROM orcamento_itens WHERE orcamento_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get parts %d: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var p quote.PartLine
		if err := rows.Scan(&p.ID, &p.Qty, &p.Description, &p.UnitPrice, &p.Subtotal); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		q.Parts = append(q.Parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get parts %d: %w", id, err)
	}

	rows, err = db.Pool.Query(ctx,
		`SELECT id, descricao, valor FROM orcamento_servicos WHERE orcamento_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get labor %d: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var l quote.LaborLine
		if err := rows.Scan(&l.ID, &l.Description, &l.Value); err != nil {
			return nil, fmt.Errorf("scan labor: %w", err)
		}
		q.Labor = append(q.Labor, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get labor %d: %w", id, err)
	}
	return q, nil
}

// ListQuotes matches the id exactly when the filter is all digits, otherwise
// the client name as a case-insensitive (ILIKE) substring.
func (db *DB) ListQuotes(ctx context.Context, filter string) ([]quote.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	sql := `SELECT id, cliente_nome, descricao, total_geral, data_criacao FROM orcamentos`
	args := []any{}
	switch {
	case filter == "":
	case isAllDigits(filter):
		id, _ := strconv.ParseInt(filter, 10, 64)
		sql += ` WHERE id = $1`
		args = append(args, id)
	default:
		sql += ` WHERE cliente_nome ILIKE $1`
		args = append(args, "%"+filter+"%")
	}
	sql += ` ORDER BY id DESC`

	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	summaries := []quote.Summary{}
	for rows.Next() {
		var s quote.Summary
		if err := rows.Scan(&s.ID, &s.ClientName, &s.Description, &s.Total, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return summaries, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
