package goosemigrate

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrator applies goose migrations read from an fs.FS, so binaries do not depend on the
// working directory.
type Migrator struct {
	postgresURL string
	migrations  fs.FS
	schemaName  string
}

func NewMigrator(postgresURL string, migrations fs.FS, schemaName string) *Migrator {
	return &Migrator{
		postgresURL: postgresURL,
		migrations:  migrations,
		schemaName:  schemaName,
	}
}

// Up creates the schema when missing and applies every pending migration.
func (m *Migrator) Up() (err error) {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer closeDB(db, &err)

	if _, err := db.Exec(createSchemaQuery(m.schemaName)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to up migrations: %w", err)
	}

	return nil
}

// Down rolls back the last migration and drops the schema with everything in it.
func (m *Migrator) Down() (err error) {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer closeDB(db, &err)

	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("failed to down migrations: %w", err)
	}

	if _, err := db.Exec(dropSchemaQuery(m.schemaName)); err != nil {
		return fmt.Errorf("failed to delete schema: %w", err)
	}

	return nil
}

func (m *Migrator) open() (*sql.DB, error) {
	goose.SetBaseFS(m.migrations)
	goose.SetTableName(m.schemaName + "." + "migrations")

	db, err := goose.OpenDBWithDriver("postgres", m.postgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB for migration: %w", err)
	}

	return db, nil
}

func closeDB(db *sql.DB, err *error) {
	if closeErr := db.Close(); closeErr != nil && *err == nil {
		*err = fmt.Errorf("failed to close db for migration: %w", closeErr)
	}
}

func createSchemaQuery(schema string) string {
	return "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize()
}

func dropSchemaQuery(schema string) string {
	return "DROP SCHEMA IF EXISTS " + pgx.Identifier{schema}.Sanitize() + " CASCADE"
}
