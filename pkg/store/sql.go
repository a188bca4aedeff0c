package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/openfleet/opsagent/internal/observability"
)

// SQLStore implements Querier over a SQL database through sqlx. The same
// implementation serves Postgres (pgx stdlib driver) and SQLite; sqlx Rebind
// translates placeholders per driver.
type SQLStore struct {
	db *sqlx.DB
}

// OpenSQL connects to the database identified by driver ("pgx" or "sqlite3")
// and dsn, and verifies the connection.
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	log.Info().Str("driver", driver).Msg("Data store connected")
	return &SQLStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Count implements Querier.
func (s *SQLStore) Count(ctx context.Context, q Query) (int, error) {
	where, args := buildWhere(q.Filters)
	query := "SELECT COUNT(*) FROM " + q.Table + where

	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(query), args...); err != nil {
		return 0, s.wrap("count", q.Table, err)
	}
	observability.RecordStoreQuery(q.Table, true)
	return n, nil
}

// Select implements Querier.
func (s *SQLStore) Select(ctx context.Context, q Query) ([]Row, error) {
	query, args := buildSelect(q)

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, s.wrap("select", q.Table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row := Row{}
		if err := rows.MapScan(row); err != nil {
			return nil, s.wrap("select", q.Table, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("select", q.Table, err)
	}
	observability.RecordStoreQuery(q.Table, true)
	return out, nil
}

// Get implements Querier. A missing row yields (nil, nil).
func (s *SQLStore) Get(ctx context.Context, q Query) (Row, error) {
	q.Limit = 1
	query, args := buildSelect(q)

	row := s.db.QueryRowxContext(ctx, s.db.Rebind(query), args...)
	out := Row{}
	if err := row.MapScan(out); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, s.wrap("get", q.Table, err)
	}
	observability.RecordStoreQuery(q.Table, true)
	return out, nil
}

func (s *SQLStore) wrap(op, table string, err error) error {
	observability.RecordStoreQuery(table, false)
	return &QueryError{Op: op, Table: table, Err: err, NonRecoverable: isAuthFailure(err)}
}

// isAuthFailure recognizes failures that no retry or corrected tool call can
// fix: invalid credentials or authorization (SQLSTATE class 28).
func isAuthFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "28")
	}
	return false
}

func buildSelect(q Query) (string, []interface{}) {
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ", ")
	}

	where, args := buildWhere(q.Filters)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(cols)
	b.WriteString(" FROM ")
	b.WriteString(q.Table)
	b.WriteString(where)

	if len(q.OrderBy) > 0 {
		keys := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			keys = append(keys, o.Column+" "+dir)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(keys, ", "))
	}

	if q.Limit > 0 {
		b.WriteString(fmt.Sprintf(" LIMIT %d", q.Limit))
	}

	return b.String(), args
}

func buildWhere(filters []Filter) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(filters))
	var args []interface{}

	for _, f := range filters {
		switch f.Op {
		case OpEq:
			clauses = append(clauses, f.Column+" = ?")
			args = append(args, f.Value)
		case OpGte:
			clauses = append(clauses, f.Column+" >= ?")
			args = append(args, f.Value)
		case OpLte:
			clauses = append(clauses, f.Column+" <= ?")
			args = append(args, f.Value)
		case OpIn:
			values, _ := f.Value.([]interface{})
			if len(values) == 0 {
				// An empty IN set matches nothing.
				clauses = append(clauses, "1 = 0")
				continue
			}
			marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
			clauses = append(clauses, f.Column+" IN ("+marks+")")
			args = append(args, values...)
		case OpNotNull:
			clauses = append(clauses, f.Column+" IS NOT NULL")
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
