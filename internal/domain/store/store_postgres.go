package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"domainpanel/internal/domain/models"
	"domainpanel/pkg/platform/sentinel"
	txcontext "domainpanel/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS domains (
	id           BIGINT PRIMARY KEY,
	domain       TEXT NOT NULL,
	note         TEXT NOT NULL DEFAULT '',
	client       TEXT NOT NULL DEFAULT '',
	seller       TEXT NOT NULL DEFAULT '',
	client_id    BIGINT NOT NULL DEFAULT 0,
	seller_id    BIGINT NOT NULL DEFAULT 0,
	state        TEXT NOT NULL DEFAULT '',
	created_date TIMESTAMPTZ,
	expires      TIMESTAMPTZ,
	nameservers  TEXT[] NOT NULL DEFAULT '{}',
	data         JSONB NOT NULL,
	refreshed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS domains_domain_idx ON domains (lower(domain));
CREATE INDEX IF NOT EXISTS domains_client_idx ON domains (client_id);
`

// sortColumns maps sortable attributes to columns.
var sortColumns = map[string]string{
	"domain":       "domain",
	"note":         "note",
	"client":       "client",
	"seller":       "seller",
	"created_date": "created_date",
	"expires":      "expires",
	"id":           "id",
}

// PostgresStore keeps projections in the domains table. The whole record is
// kept as JSON; filter and sort attributes are also columns.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the domains table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create domains schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Upsert(ctx context.Context, d *models.Domain) error {
	if d == nil || d.ID == 0 {
		return errors.New("upsert domain: id is required")
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode domain: %w", err)
	}
	nameservers := d.Nameservers
	if nameservers == nil {
		nameservers = []string{}
	}

	query := `
		INSERT INTO domains (
			id, domain, note, client, seller, client_id, seller_id, state,
			created_date, expires, nameservers, data, refreshed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (id) DO UPDATE SET
			domain = EXCLUDED.domain,
			note = EXCLUDED.note,
			client = EXCLUDED.client,
			seller = EXCLUDED.seller,
			client_id = EXCLUDED.client_id,
			seller_id = EXCLUDED.seller_id,
			state = EXCLUDED.state,
			created_date = EXCLUDED.created_date,
			expires = EXCLUDED.expires,
			nameservers = EXCLUDED.nameservers,
			data = EXCLUDED.data,
			refreshed_at = now()
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		d.ID,
		strings.ToLower(d.Domain),
		d.Note,
		d.Client,
		d.Seller,
		d.ClientID,
		d.SellerID,
		string(d.State),
		d.CreatedDate,
		d.Expires,
		pq.Array(nameservers),
		data,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("upsert domain %s: %w", d.Domain, sentinel.ErrConflict)
		}
		return fmt.Errorf("upsert domain: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.Domain, error) {
	return s.findOne(ctx, `SELECT data, nameservers FROM domains WHERE id = $1`, id)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Domain, error) {
	return s.findOne(ctx, `SELECT data, nameservers FROM domains WHERE lower(domain) = $1`, normalizeName(name))
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Domain, error) {
	d, err := scanDomain(s.execer(ctx).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find domain: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*models.Domain, error) {
	f := filter.normalized()
	column, ok := sortColumns[f.Sort]
	if !ok {
		return nil, fmt.Errorf("list domains: unknown sort attribute %q", f.Sort)
	}

	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.DomainLike != "" {
		add("lower(domain) LIKE $%d", "%"+escapeLike(f.DomainLike)+"%")
	}
	if f.State != "" {
		add("state = $%d", string(f.State))
	}
	if f.ClientID != 0 {
		add("client_id = $%d", f.ClientID)
	}
	if f.SellerID != 0 {
		add("seller_id = $%d", f.SellerID)
	}

	query := "SELECT data, nameservers FROM domains"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	direction := "ASC NULLS FIRST"
	if f.Desc {
		direction = "DESC NULLS LAST"
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d",
		column, direction, strings.Fields(direction)[0], len(args)-1, len(args))

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	out := []*models.Domain{}
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domains: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDomain(row scanner) (*models.Domain, error) {
	var (
		data        []byte
		nameservers []string
	)
	if err := row.Scan(&data, pq.Array(&nameservers)); err != nil {
		return nil, err
	}
	var d models.Domain
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode domain: %w", err)
	}
	if len(nameservers) > 0 {
		d.Nameservers = nameservers
	}
	return &d, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
