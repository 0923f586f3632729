package settings

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/friendsofgo/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

//go:embed migrations
var migrations embed.FS

const migrationsTable = "user_settings_migrations"

// Dialect selects the SQL flavour of a SQLStore. Its value is also the
// database/sql driver name.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// SQLStore is a Store backed by the user_settings table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// Option configures a SQLStore.
type Option func(*SQLStore)

// WithLogger sets the logger used for migrations.
func WithLogger(logger *zap.Logger) Option {
	return func(s *SQLStore) {
		s.logger = logger
	}
}

// NewSQLStore wraps an open database. Call Migrate before first use.
func NewSQLStore(db *sql.DB, dialect Dialect, opts ...Option) *SQLStore {
	s := &SQLStore{db: db, dialect: dialect, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to dsn, checks the connection and applies migrations.
// For SQLite the parent directory of the database file is created.
func Open(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*SQLStore, error) {
	switch dialect {
	case SQLite:
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, errors.Wrapf(err, "create database directory %s", dir)
			}
		}
	case Postgres:
	default:
		return nil, errors.Errorf("unsupported settings dialect %q", dialect)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open settings database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connect to settings database")
	}

	s := NewSQLStore(db, dialect, opts...)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB returns the underlying database.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Migrate brings the settings schema up to date.
func (s *SQLStore) Migrate() error {
	src, err := iofs.New(migrations, "migrations/"+string(s.dialect))
	if err != nil {
		return errors.Wrap(err, "load settings migrations")
	}

	var driver database.Driver
	switch s.dialect {
	case SQLite:
		driver, err = sqlite3.WithInstance(s.db, &sqlite3.Config{MigrationsTable: migrationsTable})
	case Postgres:
		driver, err = postgres.WithInstance(s.db, &postgres.Config{MigrationsTable: migrationsTable})
	default:
		err = errors.Errorf("unsupported settings dialect %q", s.dialect)
	}
	if err != nil {
		return errors.Wrap(err, "initialize settings migrations")
	}

	m, err := migrate.NewWithInstance("iofs", src, string(s.dialect), driver)
	if err != nil {
		return errors.Wrap(err, "initialize settings migrations")
	}

	// m.Close would close s.db as well.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply settings migrations")
	}

	version, dirty, _ := m.Version()
	s.logger.Info("settings migrations applied",
		zap.String("dialect", string(s.dialect)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT value FROM user_settings WHERE key = ?"), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get setting %q", key)
	}
	return []byte(value), true, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO user_settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, string(value),
	)
	if err != nil {
		return errors.Wrapf(err, "put setting %q", key)
	}
	return nil
}

// Delete removes key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM user_settings WHERE key = ?"), key); err != nil {
		return errors.Wrapf(err, "delete setting %q", key)
	}
	return nil
}

// rebind turns ? placeholders into $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}

	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}
