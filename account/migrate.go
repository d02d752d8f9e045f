package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/amontoro/porteria/account/migrations"
	"github.com/pressly/goose/v3"
)

const legacyTable = "usuarios"

// Column spellings observed in databases produced by earlier
// deployments, in detection order. The first present wins.
var (
	legacyIdentifierColumns = []string{"nombre de usuario", "usuario", "nombre_usuario"}
	legacySecretColumns     = []string{"contraseña", "clave", "contrasena"}
)

func (s *Store) migrate(ctx context.Context) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return err
	}
	return s.importLegacy(ctx)
}

// importLegacy moves rows out of a legacy localized table into the
// canonical accounts table, then renames the legacy table out of the
// way so the import runs at most once.
func (s *Store) importLegacy(ctx context.Context) error {
	var name string
	err := s.db.QueryRowContext(ctx,
		`select name from sqlite_master where type = 'table' and name = ?`,
		legacyTable).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to inspect schema, cause %w", err)
	}
	idCol, secretCol, err := legacyColumns(ctx, s.db)
	if err != nil {
		return err
	}
	secretExpr := "''"
	if secretCol != "" {
		secretExpr = quoteIdent(secretCol)
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(
		`insert into accounts (identifier, secret)
		select %v, %v from %v where true
		on conflict (identifier) do nothing`,
		quoteIdent(idCol), secretExpr, legacyTable))
	if err != nil {
		return fmt.Errorf("unable to import legacy accounts, cause %w", err)
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(
		`alter table %v rename to %v`, legacyTable, legacyTable+"_imported"))
	if err != nil {
		return fmt.Errorf("unable to retire legacy table, cause %w", err)
	}
	return nil
}

func legacyColumns(ctx context.Context, db *sql.DB) (identifier, secret string, err error) {
	rows, err := db.QueryContext(ctx, `select name from pragma_table_info(?) order by cid`, legacyTable)
	if err != nil {
		return "", "", fmt.Errorf("unable to inspect legacy table, cause %w", err)
	}
	defer rows.Close()
	present := map[string]bool{}
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return "", "", err
		}
		present[col] = true
	}
	if err := rows.Err(); err != nil {
		return "", "", err
	}
	pick := func(options []string) string {
		for _, o := range options {
			if present[o] {
				return o
			}
		}
		return ""
	}
	identifier = pick(legacyIdentifierColumns)
	if identifier == "" {
		return "", "", UnknownLegacySchema{Table: legacyTable}
	}
	// a legacy table without any secret column imports with empty secrets
	secret = pick(legacySecretColumns)
	return identifier, secret, nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}
