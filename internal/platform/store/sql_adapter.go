package store

import (
	"context"
	"errors"
	"time"

	"addrcheck/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgAdapter implements TxRunner over pg.PG and traces every statement
type pgAdapter struct {
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter { return &pgAdapter{p: p} }

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil || a.p.Pool == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return traced(a.p.Tracer, a.p.SlowMs).exec(ctx, a.p.Pool, sql, args)
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return traced(a.p.Tracer, a.p.SlowMs).query(ctx, a.p.Pool, sql, args)
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return traced(a.p.Tracer, a.p.SlowMs).queryRow(ctx, a.p.Pool, sql, args)
}

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(txQuerier{tx: tx, tr: traced(a.p.Tracer, a.p.SlowMs)}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// conn is what both the pool and a transaction offer
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type tracer struct {
	t      pg.QueryTracer
	slowUS int64
}

func traced(t pg.QueryTracer, slowMs int) tracer {
	return tracer{t: t, slowUS: int64(slowMs) * 1000}
}

func (tr tracer) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if tr.t == nil {
		return
	}
	us := time.Since(start).Microseconds()
	tr.t.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: us,
		Err:       err,
		Slow:      tr.slowUS >= 0 && us >= tr.slowUS,
	})
}

func (tr tracer) exec(ctx context.Context, c conn, sql string, args []any) (CommandTag, error) {
	start := time.Now()
	ct, err := c.Exec(ctx, sql, args...)
	tr.emit(ctx, sql, args, start, err)
	return tag{ct}, err
}

func (tr tracer) query(ctx context.Context, c conn, sql string, args []any) (Rows, error) {
	start := time.Now()
	rs, err := c.Query(ctx, sql, args...)
	tr.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

// queryRow emits after Scan so the scan error is captured
func (tr tracer) queryRow(ctx context.Context, c conn, sql string, args []any) Row {
	start := time.Now()
	r := c.QueryRow(ctx, sql, args...)
	return row{r: r, after: func(err error) { tr.emit(ctx, sql, args, start, err) }}
}

type txQuerier struct {
	tx pgx.Tx
	tr tracer
}

func (t txQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return t.tr.exec(ctx, t.tx, sql, args)
}

func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return t.tr.query(ctx, t.tx, sql, args)
}

func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return t.tr.queryRow(ctx, t.tx, sql, args)
}

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct{ r pgx.Rows }

func (x rows) Next() bool            { return x.r.Next() }
func (x rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rows) Err() error            { return x.r.Err() }
func (x rows) Close()                { x.r.Close() }
func (x rows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}

type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }
