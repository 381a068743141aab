package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Supported database/sql driver names.
const (
	DriverPGX      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "units"

// Querier is the subset of *sql.DB used by [SQL].
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQL reads unit records from a relational table with columns
// id, name, abbrev, unit_type, parent_id.
type SQL struct {
	DB     Querier
	Table  string
	Target string // credential-free description of the database
}

// Open connects to a database and verifies the connection.
// Any failure is a FETCH_FAILURE.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPGX, DriverPostgres, DriverSQLite:
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown database driver %q (must be one of: pgx, postgres, sqlite)", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailure, err, "open %s database", driver)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeFetchFailure, err, "connect to %s", Redact(dsn))
	}
	return db, nil
}

// Query returns the statement used to read table.
func (s *SQL) Query() string {
	return fmt.Sprintf("SELECT id, name, abbrev, unit_type, parent_id FROM %s ORDER BY id", s.table())
}

// Describe implements [Describer].
func (s *SQL) Describe() string {
	return "sql:" + s.Target + "/" + s.table()
}

func (s *SQL) table() string {
	if s.Table == "" {
		return DefaultTable
	}
	return s.Table
}

// Fetch implements [Source].
func (s *SQL) Fetch(ctx context.Context) ([]org.UnitRecord, error) {
	if s.DB == nil {
		return nil, errors.New(errors.ErrCodeFetchFailure, "no database connection")
	}
	if err := errors.ValidateIdentifier(s.table()); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, s.Query())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeFetchFailure, err, "query %s", s.table())
	}
	defer rows.Close()

	var records []org.UnitRecord
	for rows.Next() {
		var (
			r      org.UnitRecord
			abbrev sql.NullString
			utype  sql.NullString
			parent sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Name, &abbrev, &utype, &parent); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFetchFailure, err, "scan %s", s.table())
		}
		r.Abbrev = abbrev.String
		r.UnitType = utype.String
		if parent.Valid {
			r.ParentID = org.ParentOf(parent.Int64)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailure, err, "read %s", s.table())
	}
	return records, nil
}

// Redact masks the password in a DSN so it can be logged.
func Redact(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
		return u.String()
	}
	if strings.Contains(dsn, "password=") {
		return "****"
	}
	return dsn
}

var _ Source = (*SQL)(nil)
