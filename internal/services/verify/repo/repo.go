// Package repo stores terminal verification outcomes in Postgres
package repo

import (
	"context"
	"time"

	"addrcheck/internal/core/chains"
	"addrcheck/internal/modkit/repokit"
	perr "addrcheck/internal/platform/errors"
	"addrcheck/internal/platform/store"
	dom "addrcheck/internal/services/verify/domain"
)

// Schema creates the journal table. Safe to run on every boot
const Schema = `
CREATE TABLE IF NOT EXISTS verification_results (
	request_id  text PRIMARY KEY,
	address     text        NOT NULL,
	blockchain  text        NOT NULL,
	status      text        NOT NULL,
	content     text        NOT NULL DEFAULT '',
	detail      text        NOT NULL DEFAULT '',
	attempts    integer     NOT NULL DEFAULT 0,
	created_at  timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS verification_results_address_idx
	ON verification_results (address, created_at DESC);
`

type (
	// PG is a Postgres binder for dom.Journal
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for dom.Journal
func NewPG() repokit.Binder[dom.Journal] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) dom.Journal { return &queries{q: q} }

// EnsureSchema applies Schema
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, Schema); err != nil {
		return perr.FromPostgres(err, "ensure verification_results")
	}
	return nil
}

// Record inserts e once; recording the same request again is a no-op
func (r *queries) Record(ctx context.Context, e dom.HistoryEntry) error {
	at := e.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO verification_results
			(request_id, address, blockchain, status, content, detail, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (request_id) DO NOTHING
	`, string(e.RequestID), string(e.Address), string(e.Blockchain), string(e.Status),
		e.Content, e.Detail, e.Attempts, at.UTC())
	if err != nil {
		return perr.FromPostgres(err, "record verification result")
	}
	return nil
}

// ByAddress returns the newest entries for addr first
func (r *queries) ByAddress(ctx context.Context, addr dom.Address, limit int) ([]dom.HistoryEntry, error) {
	out, err := store.Many(ctx, r.q, scanEntry, `
		SELECT request_id, address, blockchain, status, content, detail, attempts, created_at
		FROM verification_results
		WHERE address = $1
		ORDER BY created_at DESC, request_id
		LIMIT $2
	`, string(addr), limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "history by address")
	}
	return out, nil
}

func scanEntry(row store.Row) (dom.HistoryEntry, error) {
	var (
		e                       dom.HistoryEntry
		id, addr, chain, status string
	)
	if err := row.Scan(&id, &addr, &chain, &status, &e.Content, &e.Detail, &e.Attempts, &e.CreatedAt); err != nil {
		return e, err
	}
	e.RequestID = dom.RequestID(id)
	e.Address = dom.Address(addr)
	e.Blockchain = chains.Code(chain)
	e.Status = dom.OutcomeStatus(status)
	return e, nil
}
