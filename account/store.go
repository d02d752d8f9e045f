// Package account is the SQLite-backed account store. The
// authentication policy only ever sees the canonical schema: any
// legacy table left behind by earlier deployments is imported once,
// at open time, before the first query runs.
package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type (
	Store struct {
		db *sql.DB
	}

	// Account is one registered principal. Secret is stored as plain
	// text, an empty value means no secret is configured.
	Account struct {
		ID         int64
		Identifier string
		Secret     string
	}
)

func openAccountDatabase(ctx context.Context, dir string) (*sql.DB, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("unable to create directory %v to store accounts, cause %w", dir, err)
	}
	dbfile := filepath.Join(dir, "usuarios.db")
	connstr := fmt.Sprintf("file:%v?_journal=wal&mode=rwc", dbfile)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %v", dbfile, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to ping account store %v, cause %v", dbfile, err)
	}
	return conn, nil
}

// Open loads the account store under dir, creating it on first boot
// and migrating it to the canonical schema before returning.
func Open(ctx context.Context, dir string) (*Store, error) {
	conn, err := openAccountDatabase(ctx, dir)
	if err != nil {
		return nil, err
	}
	s := &Store{db: conn}
	err = s.migrate(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to migrate account store at %v, cause %w", dir, err)
	}
	return s, nil
}

// FindByIdentifier returns the account registered under the given
// identifier. The match is exact and case-sensitive. A missing
// account is reported with NotFound, never with a bare error.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (Account, error) {
	var acc Account
	err := s.db.QueryRowContext(ctx,
		`select account_id, identifier, secret from accounts where identifier = ?`,
		identifier).Scan(&acc.ID, &acc.Identifier, &acc.Secret)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, NotFound{Identifier: identifier}
	}
	if err != nil {
		return Account{}, fmt.Errorf("unable to lookup account %v, cause %w", identifier, err)
	}
	return acc, nil
}

// InsertIfAbsent registers an account, leaving any existing account
// with the same identifier untouched. Used for seeding only, the
// authentication hot path never writes.
func (s *Store) InsertIfAbsent(ctx context.Context, identifier, secret string) error {
	_, err := s.db.ExecContext(ctx,
		`insert into accounts (identifier, secret) values (?, ?) on conflict (identifier) do nothing`,
		identifier, secret)
	if err != nil {
		return fmt.Errorf("unable to insert account %v, cause %w", identifier, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
