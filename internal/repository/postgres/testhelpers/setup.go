package testhelpers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// TestDB представляет тестовую базу данных в контейнере
type TestDB struct {
	DB        *sqlx.DB
	Logger    *zap.Logger
	container testcontainers.Container
}

// SetupTestDB запускает PostgreSQL в контейнере и применяет миграции.
// Если задан TEST_DB_DSN, используется внешняя база.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	tdb := &TestDB{Logger: zap.NewNop()}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
			tcpostgres.WithDatabase("competition_test"),
			tcpostgres.WithUsername("test"),
			tcpostgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			t.Skipf("Docker not available, skipping: %v", err)
		}
		tdb.container = container

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			tdb.Close()
			t.Fatalf("Failed to get connection string: %v", err)
		}
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		tdb.Close()
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	tdb.DB = db

	if err := ApplyMigrations(db.DB, MigrationsDir(t)); err != nil {
		tdb.Close()
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return tdb
}

// Close закрывает соединение и останавливает контейнер
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
	if tdb.container != nil {
		_ = tdb.container.Terminate(context.Background())
	}
}

// Cleanup очищает таблицы между тестами
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, `
		TRUNCATE TABLE relations, cells, markets, projects,
			municipality_size_classes, decay_coefficients, discount_coefficients CASCADE
	`)
	return err
}

// MigrationsDir ищет каталог migrations вверх от текущей директории
func MigrationsDir(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}
