package postgres

import "context"

// migrations are idempotent and run at startup. The header carries the
// split-totals columns; child tables cascade on quote deletion so a single
// header delete removes the whole aggregate.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS orcamentos (
		id              BIGSERIAL PRIMARY KEY,
		cliente_nome    TEXT NOT NULL,
		telefone        TEXT,
		descricao       TEXT NOT NULL DEFAULT '',
		carro_marca     TEXT,
		carro_modelo    TEXT,
		carro_placa     TEXT,
		carro_ano       TEXT,
		forma_pagamento TEXT,
		total_itens     NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_servicos  NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_geral     NUMERIC(12,2) NOT NULL DEFAULT 0,
		data_criacao    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orcamento_itens (
		id           BIGSERIAL PRIMARY KEY,
		orcamento_id BIGINT NOT NULL REFERENCES orcamentos(id) ON DELETE CASCADE,
		qtd          NUMERIC(10,2) NOT NULL DEFAULT 1,
		descricao    TEXT NOT NULL DEFAULT '',
		unitario     NUMERIC(12,2) NOT NULL DEFAULT 0,
		total        NUMERIC(12,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orcamento_servicos (
		id           BIGSERIAL PRIMARY KEY,
		orcamento_id BIGINT NOT NULL REFERENCES orcamentos(id) ON DELETE CASCADE,
		descricao    TEXT NOT NULL DEFAULT '',
		valor        NUMERIC(12,2) NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orcamento_itens_orcamento
		ON orcamento_itens (orcamento_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orcamento_servicos_orcamento
		ON orcamento_servicos (orcamento_id)`,
}

func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
