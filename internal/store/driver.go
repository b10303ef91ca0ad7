package store

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverFactory is a function that creates a gorm.Dialector
type DriverFactory func(dsn string) gorm.Dialector

var (
	driversMu sync.RWMutex
	// driverFactories maps driver names to their factory functions
	driverFactories = map[string]DriverFactory{
		"sqlite":   openSQLite,
		"postgres": postgres.Open,
	}
)

// openSQLite adds a busy timeout and foreign keys to file DSNs.
func openSQLite(dsn string) gorm.Dialector {
	if dsn != ":memory:" && !strings.Contains(dsn, "_busy_timeout") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_busy_timeout=5000&_foreign_keys=on"
	}
	return sqlite.Open(dsn)
}

// GetDialector returns a GORM dialector for the given driver name and DSN
func GetDialector(driver, dsn string) (gorm.Dialector, error) {
	driversMu.RLock()
	factory, exists := driverFactories[driver]
	driversMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf(
			"unsupported database driver: %s (available: %s)",
			driver, strings.Join(Drivers(), ", "),
		)
	}
	return factory(dsn), nil
}

// RegisterDriver allows registering custom database drivers
func RegisterDriver(name string, factory DriverFactory) {
	driversMu.Lock()
	defer driversMu.Unlock()
	driverFactories[name] = factory
}

// Drivers returns the registered driver names in sorted order
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(driverFactories))
	for name := range driverFactories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
