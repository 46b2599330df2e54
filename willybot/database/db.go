package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/willyosu/willybot/willybot/database/models"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultSQLitePath  = "data/willybot.db"
	defaultBusyTimeout = 5000
)

type DBConfig struct {
	Driver   string `toml:"driver"`
	Path     string `toml:"path"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
	SSLMode  string `toml:"ssl_mode"`
}

type DB struct {
	sqlDB  *sql.DB
	bunDB  *bun.DB
	driver string
	path   string
}

// New opens the store. SQLite is the default and keeps everything in one
// local file; a postgres driver is available for hosted deployments.
func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	var (
		db  *DB
		err error
	)
	switch cfg.Driver {
	case "", DriverSQLite:
		db, err = openSQLite(cfg)
	case DriverPostgres:
		db = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

func openSQLite(cfg DBConfig) (*DB, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultSQLitePath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, defaultBusyTimeout)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection serialises every statement on the file.
	sqlDB.SetMaxOpenConns(1)

	return &DB{
		sqlDB:  sqlDB,
		bunDB:  bun.NewDB(sqlDB, sqlitedialect.New()),
		driver: DriverSQLite,
		path:   path,
	}, nil
}

func openPostgres(cfg DBConfig) *DB {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, sslMode)

	sqlDB := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(5*time.Second),
	))
	if cfg.PoolSize > 0 {
		sqlDB.SetMaxOpenConns(cfg.PoolSize)
	}

	return &DB{
		sqlDB:  sqlDB,
		bunDB:  bun.NewDB(sqlDB, pgdialect.New()),
		driver: DriverPostgres,
	}
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Driver() string {
	return db.driver
}

// Path is the database file, or empty when the store is not file based.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.sqlDB.PingContext(ctx)
}

func (db *DB) Close() error {
	slog.Info("Closing database connection",
		slog.String("type", "db"),
		slog.String("driver", db.driver))
	return db.bunDB.Close()
}

// Size reports the storage used by the database in bytes.
func (db *DB) Size(ctx context.Context) (int64, error) {
	query := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
	if db.driver == DriverPostgres {
		query = "SELECT pg_database_size(current_database())"
	}
	var size int64
	if err := db.bunDB.NewRaw(query).Scan(ctx, &size); err != nil {
		return 0, fmt.Errorf("failed to read database size: %w", err)
	}
	return size, nil
}

// InitializeSchema creates every table and index that does not exist yet.
// There are no migrations: the schema is create-if-absent.
func (db *DB) InitializeSchema(ctx context.Context) error {
	// Links between tables are plain columns; deleting a user or badge
	// never fails because of rows that still point at it.
	tables := []any{
		(*models.User)(nil),
		(*models.Badge)(nil),
		(*models.UserBadge)(nil),
		(*models.Quest)(nil),
		(*models.UserQuest)(nil),
	}

	for _, model := range tables {
		if _, err := db.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_xp ON users(xp)",
		"CREATE INDEX IF NOT EXISTS idx_users_active ON users(active)",
		"CREATE INDEX IF NOT EXISTS idx_user_badges_badge_id ON user_badges(badge_id)",
		"CREATE INDEX IF NOT EXISTS idx_quests_expires ON quests(expires)",
	}
	for _, idx := range indexes {
		if _, err := db.bunDB.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	slog.Info("Database schema ready",
		slog.String("type", "db"),
		slog.String("driver", db.driver),
		slog.Int("tables", len(tables)))
	return nil
}
