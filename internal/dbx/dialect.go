package dbx

import (
	"strconv"
	"strings"
)

// Dialect names a SQL flavour. The values double as goose dialect names.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// Driver is the database/sql driver name registered for d.
func (d Dialect) Driver() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// Rebind rewrites ? placeholders into $1, $2, ... for PostgreSQL. Queries
// must not contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseDSN picks the dialect from a DSN. postgres:// and postgresql:// URLs
// go to PostgreSQL, everything else is a SQLite path with an optional
// sqlite:// prefix, which is stripped.
func ParseDSN(dsn string) (Dialect, string) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return SQLite, strings.TrimPrefix(dsn, "sqlite://")
	default:
		return SQLite, dsn
	}
}
