//go:build integration

package testutil

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // драйвер database/sql "pgx"
	"github.com/pressly/goose/v3"

	"github.com/Gunvolt24/groupclient/migrations"
)

// ApplyMigrationsGoose — прогоняет вшитые миграции по DSN через отдельный
// goose.Provider (без глобального состояния goose) и возвращает число применённых.
func ApplyMigrationsGoose(dsn string) (int, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(context.Background())
	if err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return len(results), nil
}
