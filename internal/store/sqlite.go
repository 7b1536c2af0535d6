package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             INTEGER PRIMARY KEY,
	first_name     TEXT NOT NULL DEFAULT '',
	last_name      TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	company_name   TEXT NOT NULL DEFAULT '',
	job_title      TEXT NOT NULL DEFAULT '',
	phone_number   TEXT NOT NULL DEFAULT '',
	email_verified INTEGER NOT NULL DEFAULT 0
);
`

// SQLite implements Store on top of database/sql with the pure-Go
// modernc.org/sqlite driver — used for the local/dev store driver so
// running the service requires no cgo toolchain and no external database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if necessary) a SQLite-backed Store at path.
// Use ":memory:" for an ephemeral, process-local store.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open sqlite %s", path)
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "store: migrate leads table")
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) FindByID(ctx context.Context, id int64) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, company_name, job_title, phone_number, email_verified
		FROM leads WHERE id = ?`, id)

	var l model.Lead
	var emailVerified int
	err := row.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.CompanyName, &l.JobTitle, &l.PhoneNumber, &emailVerified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: find lead %d", id)
	}
	l.EmailVerified = model.TriState(emailVerified)
	return &l, nil
}

func (s *SQLite) FindManyByIDs(ctx context.Context, ids []int64) ([]model.Lead, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var out []model.Lead
	for _, id := range ids {
		lead, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			out = append(out, *lead)
		}
	}
	return out, nil
}

func (s *SQLite) UpdateFields(ctx context.Context, id int64, f Fields) error {
	if f.PhoneNumber != nil {
		if _, err := s.db.ExecContext(ctx, `UPDATE leads SET phone_number = ? WHERE id = ?`, *f.PhoneNumber, id); err != nil {
			return eris.Wrapf(err, "store: update phone for lead %d", id)
		}
	}
	if f.EmailVerified != nil {
		if _, err := s.db.ExecContext(ctx, `UPDATE leads SET email_verified = ? WHERE id = ?`, int(*f.EmailVerified), id); err != nil {
			return eris.Wrapf(err, "store: update email_verified for lead %d", id)
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// InsertLead is a test/seed helper — the core never creates leads, only
// reads and updates them, but a store needs some way to seed fixtures.
func (s *SQLite) InsertLead(ctx context.Context, l model.Lead) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, first_name, last_name, email, company_name, job_title, phone_number, email_verified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.FirstName, l.LastName, l.Email, l.CompanyName, l.JobTitle, l.PhoneNumber, int(l.EmailVerified))
	if err != nil {
		return eris.Wrapf(err, "store: insert lead %d", l.ID)
	}
	return nil
}
