// Package repository declares the persistence ports of the domain.
package repository

import "context"

// PreferenceStore is a string key-value store holding serialized preferences,
// the equivalent of the browser's localStorage.
type PreferenceStore interface {
	// Get returns the stored value for key.
	// found is false when the key was never written or was deleted.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
