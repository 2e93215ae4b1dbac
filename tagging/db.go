package tagging

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// GetDatabase opens the journal database, creating its directory if needed
func GetDatabase(filename string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, ioErr("create journal directory", filepath.Dir(filename), err)
	}
	return sql.Open("sqlite", filename)
}

// PrepareDatabase brings the journal schema up to date
func PrepareDatabase(ctx context.Context, db *sql.DB) error {
	log.Printf("PrepareDatabase: loading migrations")
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("while loading migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("while preparing migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("while setting up migrations: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	log.Printf("PrepareDatabase: applying migrations")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("PrepareDatabase: schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("while applying migrations: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Printf("PrepareDatabase: success!")
	return nil
}
