package port

import (
	"context"
	"database/sql"
)

// DatabaseProvider hands out the preference database connection.
// Implementations may open it lazily on first access.
type DatabaseProvider interface {
	// DB returns the connection, opening it if necessary.
	DB(ctx context.Context) (*sql.DB, error)

	// Close closes the connection if it was opened.
	Close() error

	// IsInitialized reports whether the connection has been opened.
	IsInitialized() bool
}
