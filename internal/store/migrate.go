package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator handles DB schema migrations using golang-migrate.
type Migrator struct {
	dsn string
}

func NewMigrator(dsn string) (*Migrator, error) {
	if dsn == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	return &Migrator{dsn: dsn}, nil
}

func (m *Migrator) sourceURL() (string, error) {
	// Point to local db/migrations directory
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	p := filepath.Join(wd, "db", "migrations")
	u := url.URL{Scheme: "file", Path: p}
	return u.String(), nil
}

func (m *Migrator) Up(ctx context.Context) error {
	src, err := m.sourceURL()
	if err != nil {
		return err
	}
	mig, closer, err := m.migrateInstance(src)
	if err != nil {
		return err
	}
	defer closer()
	if err := mig.Up(); err != nil {
		if err == migrate.ErrNoChange {
			return ErrNoChange
		}
		return err
	}
	return nil
}

func (m *Migrator) Down(ctx context.Context) error {
	src, err := m.sourceURL()
	if err != nil {
		return err
	}
	mig, closer, err := m.migrateInstance(src)
	if err != nil {
		return err
	}
	defer closer()
	if err := mig.Steps(-1); err != nil {
		if err == migrate.ErrNoChange {
			return ErrNoChange
		}
		return err
	}
	return nil
}

// Version reports the current schema version and whether it is dirty.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	src, err := m.sourceURL()
	if err != nil {
		return 0, false, err
	}
	mig, closer, err := m.migrateInstance(src)
	if err != nil {
		return 0, false, err
	}
	defer closer()
	v, dirty, err := mig.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	return v, dirty, err
}

func (m *Migrator) migrateInstance(src string) (*migrate.Migrate, func(), error) {
	mig, err := migrate.New(src, m.dsn)
	if err != nil {
		return nil, func() {}, err
	}
	return mig, func() { mig.Close() }, nil
}
