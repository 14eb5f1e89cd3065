package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// schemaSQL creates the businesses table when missing. seq keeps listing in
// insertion order, including rows written in one COPY.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS businesses (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	street_name TEXT NOT NULL,
	zipcode     TEXT NOT NULL,
	city        TEXT NOT NULL,
	email       TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	tags        TEXT[] NOT NULL DEFAULT '{}',
	comment     TEXT NOT NULL DEFAULT '',
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	seq         BIGSERIAL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const selectColumns = `id, name, street_name, zipcode, city, email, phone,
	COALESCE(tags, '{}'), comment, is_active`

var insertColumns = []string{
	"id", "name", "street_name", "zipcode", "city", "email", "phone", "tags", "comment", "is_active",
}

// Postgres stores businesses in the businesses table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an open pool. Call EnsureSchema before first use.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the businesses table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context) ([]core.Business, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+selectColumns+` FROM businesses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query businesses: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[core.Business])
	if err != nil {
		return nil, fmt.Errorf("scan businesses: %w", err)
	}
	return out, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (core.Business, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+selectColumns+` FROM businesses WHERE id = $1`, id)
	if err != nil {
		return core.Business{}, fmt.Errorf("query business: %w", err)
	}
	return collectOne(rows)
}

func (p *Postgres) Create(ctx context.Context, in core.BusinessInput) (core.Business, error) {
	b := core.NewBusiness(uuid.NewString(), in)
	rows, err := p.pool.Query(ctx, `
		INSERT INTO businesses (`+strings.Join(insertColumns, ", ")+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+selectColumns,
		insertArgs(b)...,
	)
	if err != nil {
		return core.Business{}, fmt.Errorf("insert business: %w", err)
	}
	return collectOne(rows)
}

func (p *Postgres) Update(ctx context.Context, id string, patch core.BusinessPatch) (core.Business, error) {
	sets, args := updateAssignments(patch)
	if len(sets) == 0 {
		return p.Get(ctx, id)
	}

	args = append(args, id)
	rows, err := p.pool.Query(ctx,
		fmt.Sprintf(`UPDATE businesses SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args), selectColumns),
		args...,
	)
	if err != nil {
		return core.Business{}, fmt.Errorf("update business: %w", err)
	}
	return collectOne(rows)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// BulkCreate writes all inputs with the COPY protocol inside one
// transaction, so either every row lands or none does.
func (p *Postgres) BulkCreate(ctx context.Context, in []core.BusinessInput) ([]core.Business, error) {
	created := make([]core.Business, len(in))
	rows := make([][]any, len(in))
	for i, input := range in {
		created[i] = core.NewBusiness(uuid.NewString(), input)
		rows[i] = insertArgs(created[i])
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"businesses"}, insertColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return nil, fmt.Errorf("copy businesses: %w", err)
	}
	if int(n) != len(rows) {
		return nil, fmt.Errorf("copy businesses: wrote %d of %d rows", n, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit bulk insert: %w", err)
	}
	return created, nil
}

func insertArgs(b core.Business) []any {
	return []any{b.ID, b.Name, b.StreetName, b.Zipcode, b.City, b.Email, b.Phone, b.Tags, b.Comment, b.IsActive}
}

func updateAssignments(patch core.BusinessPatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	text := []struct {
		column string
		value  *string
	}{
		{"name", patch.Name},
		{"street_name", patch.StreetName},
		{"zipcode", patch.Zipcode},
		{"city", patch.City},
		{"email", patch.Email},
		{"phone", patch.Phone},
		{"comment", patch.Comment},
	}
	for _, f := range text {
		if f.value != nil {
			add(f.column, *f.value)
		}
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		add("tags", tags)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	return sets, args
}

func collectOne(rows pgx.Rows) (core.Business, error) {
	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[core.Business])
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Business{}, core.ErrNotFound
	}
	if err != nil {
		return core.Business{}, fmt.Errorf("scan business: %w", err)
	}
	return b, nil
}
