package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

// migrationsTable keeps the users schema history apart from other services
// sharing the database.
const migrationsTable = "users_schema_migrations"

// RunMigrations brings the users schema up to date from the .sql files in dir.
// A dirty schema is reported and left for an operator to force.
func RunMigrations(dsn, dir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return err
	}

	if v, dirty, verr := m.Version(); verr == nil && dirty {
		return fmt.Errorf("users schema is dirty at version %d", v)
	}
	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug("users schema already current")
	case err != nil:
		return err
	}
	if v, _, err := m.Version(); err == nil {
		logger.WithField("version", v).Info("users schema migrated")
	}
	return nil
}

