package database

import (
	"errors"
	"fmt"
	"strings"
)

// Driver names a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown database driver")

// SelectDriver resolves a configured driver name. An empty name is inferred
// from url with DetectDriver.
func SelectDriver(name, url string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DetectDriver(url), nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownDriver, name)
}

// DetectDriver picks PostgreSQL for postgres:// and postgresql:// URLs.
// Anything else, including an empty URL, is a local SQLite file.
func DetectDriver(url string) Driver {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}
