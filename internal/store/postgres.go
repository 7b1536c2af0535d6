package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

// Pool is the subset of *pgxpool.Pool's surface Postgres needs — narrowed
// to an interface so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Postgres implements Store using pgxpool.
type Postgres struct {
	pool Pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             BIGINT PRIMARY KEY,
	first_name     TEXT NOT NULL DEFAULT '',
	last_name      TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	company_name   TEXT NOT NULL DEFAULT '',
	job_title      TEXT NOT NULL DEFAULT '',
	phone_number   TEXT NOT NULL DEFAULT '',
	email_verified SMALLINT NOT NULL DEFAULT 0
);
`

// NewPostgres creates a Postgres store with a connection pool and applies
// the lead-table migration.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "store: parse postgres config")
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "store: create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "store: ping postgres")
	}

	s := &Postgres{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresWithPool wraps an already-constructed pool (or pgxmock, for
// tests) without running migrations or pinging — the caller owns setup.
func NewPostgresWithPool(pool Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "store: migrate leads table")
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id int64) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, company_name, job_title, phone_number, email_verified
		FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: find lead %d", id)
	}
	return &lead, nil
}

func (s *Postgres) FindManyByIDs(ctx context.Context, ids []int64) ([]model.Lead, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, company_name, job_title, phone_number, email_verified
		FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, eris.Wrap(err, "store: find many leads")
	}
	defer rows.Close()

	var out []model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan lead")
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate leads")
	}
	return out, nil
}

func (s *Postgres) UpdateFields(ctx context.Context, id int64, f Fields) error {
	var sets []string
	var args []any
	n := 1

	if f.PhoneNumber != nil {
		sets = append(sets, columnAssignment("phone_number", &n))
		args = append(args, *f.PhoneNumber)
	}
	if f.EmailVerified != nil {
		sets = append(sets, columnAssignment("email_verified", &n))
		args = append(args, int(*f.EmailVerified))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := "UPDATE leads SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(n)
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return eris.Wrapf(err, "store: update lead %d", id)
	}
	return nil
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

// rowScanner abstracts over pgx.Row and pgx.Rows, both of which implement
// Scan but share no common interface in pgx/v5.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (model.Lead, error) {
	var l model.Lead
	var emailVerified int
	err := row.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.CompanyName, &l.JobTitle, &l.PhoneNumber, &emailVerified)
	l.EmailVerified = model.TriState(emailVerified)
	return l, err
}

func columnAssignment(col string, n *int) string {
	s := col + " = $" + strconv.Itoa(*n)
	*n++
	return s
}
