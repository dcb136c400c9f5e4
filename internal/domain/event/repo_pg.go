package event

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// PGRepo persists the event journal in the events table.
type PGRepo struct {
	pool *pgxpool.Pool
}

func NewPGRepo(pool *pgxpool.Pool) *PGRepo {
	return &PGRepo{pool: pool}
}

func (r *PGRepo) conn(context.Context) queryable {
	return r.pool
}

const eventCols = `id, sequence, type, actor, pool_id, claim_id, member, provider,
	amount, status, name, reason, occurred_at, created_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(
		&e.ID, &e.Sequence, &e.Type, &e.Actor, &e.PoolID, &e.ClaimID, &e.Member, &e.Provider,
		&e.Amount, &e.Status, &e.Name, &e.Reason, &e.OccurredAt, &e.CreatedAt,
	)
	return &e, err
}

func (r *PGRepo) Append(ctx context.Context, events []*Event) error {
	for _, e := range events {
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO events (id, type, actor, pool_id, claim_id, member, provider, amount, status, name, reason, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING sequence, created_at`,
			e.ID, e.Type, e.Actor, e.PoolID, e.ClaimID, e.Member, e.Provider, e.Amount, e.Status, e.Name, e.Reason, e.OccurredAt,
		).Scan(&e.Sequence, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("append event %s: %w", e.Type, err)
		}
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context, filter Filter, limit, offset int) ([]*Event, int, error) {
	where := []string{}
	args := []interface{}{}
	idx := 1

	if filter.Type != "" {
		where = append(where, fmt.Sprintf("type = $%d", idx))
		args = append(args, filter.Type)
		idx++
	}
	if filter.PoolID != 0 {
		where = append(where, fmt.Sprintf("pool_id = $%d", idx))
		args = append(args, filter.PoolID)
		idx++
	}
	if filter.ClaimID != 0 {
		where = append(where, fmt.Sprintf("claim_id = $%d", idx))
		args = append(args, filter.ClaimID)
		idx++
	}
	if filter.Principal != "" {
		where = append(where, fmt.Sprintf("(actor = $%d OR member = $%d OR provider = $%d)", idx, idx, idx))
		args = append(args, filter.Principal)
		idx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQ := fmt.Sprintf("SELECT COUNT(*) FROM events %s", whereClause)
	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM events %s ORDER BY sequence LIMIT $%d OFFSET $%d", eventCols, whereClause, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}
