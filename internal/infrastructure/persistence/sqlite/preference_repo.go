package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/infrastructure/persistence/sqlite/sqlc"
	"github.com/bnema/folio/internal/logging"
)

// PreferenceChange is one entry of the per-key change log kept by triggers.
type PreferenceChange struct {
	Key       string
	Value     string
	Deleted   bool
	ChangedAt time.Time
}

// PreferenceStore is a repository.PreferenceStore backed by the preferences table.
type PreferenceStore struct {
	provider port.DatabaseProvider
}

var _ repository.PreferenceStore = (*PreferenceStore)(nil)

// NewPreferenceStore creates a store over provider. The connection is not
// opened until the first read or write.
func NewPreferenceStore(provider port.DatabaseProvider) *PreferenceStore {
	return &PreferenceStore{provider: provider}
}

func (s *PreferenceStore) queries(ctx context.Context) (*sqlc.Queries, error) {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return nil, err
	}
	return sqlc.New(db), nil
}

func (s *PreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	q, err := s.queries(ctx)
	if err != nil {
		return "", false, err
	}

	row, err := q.GetPreference(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	logging.FromContext(ctx).Debug().Str("key", key).Str("value", value).Msg("storing preference")

	q, err := s.queries(ctx)
	if err != nil {
		return err
	}
	if err := q.SetPreference(ctx, sqlc.SetPreferenceParams{Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

func (s *PreferenceStore) Delete(ctx context.Context, key string) error {
	q, err := s.queries(ctx)
	if err != nil {
		return err
	}
	if err := q.DeletePreference(ctx, key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// All returns every stored key and value.
func (s *PreferenceStore) All(ctx context.Context) (map[string]string, error) {
	q, err := s.queries(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.ListPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// SchemaVersion returns the migration version of the underlying database.
func (s *PreferenceStore) SchemaVersion(ctx context.Context) (int64, error) {
	db, err := s.provider.DB(ctx)
	if err != nil {
		return 0, err
	}
	return GetMigrationStatus(ctx, db)
}

// Changes returns the most recent changes of key, newest first.
func (s *PreferenceStore) Changes(ctx context.Context, key string, limit int) ([]PreferenceChange, error) {
	if limit <= 0 {
		limit = 20
	}
	q, err := s.queries(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.ListPreferenceChanges(ctx, sqlc.ListPreferenceChangesParams{Key: key, Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("failed to list changes of %s: %w", key, err)
	}

	changes := make([]PreferenceChange, len(rows))
	for i, row := range rows {
		changes[i] = PreferenceChange{
			Key:       row.Key,
			Value:     row.Value.String,
			Deleted:   !row.Value.Valid,
			ChangedAt: row.ChangedAt.Time,
		}
	}
	return changes, nil
}
