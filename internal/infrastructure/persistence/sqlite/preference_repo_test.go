package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/infrastructure/persistence/sqlite"
)

func newStore(t *testing.T, path string) (*sqlite.PreferenceStore, *sqlite.LazyDB) {
	t.Helper()
	lazy := sqlite.NewLazyDB(path)
	t.Cleanup(func() { _ = lazy.Close() })
	return sqlite.NewPreferenceStore(lazy), lazy
}

func TestPreferenceStore_GetMissing(t *testing.T) {
	ctx := testCtx()
	store, _ := newStore(t, sqlite.MemoryPath)

	value, found, err := store.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestPreferenceStore_SetOverwritesAndDeletes(t *testing.T) {
	ctx := testCtx()
	store, _ := newStore(t, sqlite.MemoryPath)

	require.NoError(t, store.Set(ctx, "fontSize", "18"))
	require.NoError(t, store.Set(ctx, "fontSize", "20"))

	value, found, err := store.Get(ctx, "fontSize")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "20", value)

	require.NoError(t, store.Delete(ctx, "fontSize"))
	require.NoError(t, store.Delete(ctx, "fontSize"), "deleting a missing key is not an error")

	_, found, err = store.Get(ctx, "fontSize")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPreferenceStore_SurvivesReopen(t *testing.T) {
	ctx := testCtx()
	path := filepath.Join(t.TempDir(), "folio.db")

	set := entity.PreferenceSet{
		Theme:            entity.ThemeLight,
		FontSize:         22,
		EnableAnimations: false,
		ReducedMotion:    true,
		HighContrast:     true,
		ScreenReader:     true,
		Analytics:        false,
		Cookies:          false,
		Language:         "fr-CA",
		PageWidth:        "wide",
	}

	first, lazy := newStore(t, path)
	for field, value := range set.Values() {
		require.NoError(t, first.Set(ctx, field.Key(), value))
	}
	require.NoError(t, lazy.Close())

	second, _ := newStore(t, path)
	all, err := second.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(entity.AllFields()))
	for field, value := range set.Values() {
		assert.Equal(t, value, all[field.Key()], field.Key())
	}
}

func TestPreferenceStore_ChangesNewestFirst(t *testing.T) {
	ctx := testCtx()
	store, _ := newStore(t, sqlite.MemoryPath)

	require.NoError(t, store.Set(ctx, "theme", "light"))
	require.NoError(t, store.Set(ctx, "theme", "light"))
	require.NoError(t, store.Set(ctx, "theme", "dark"))
	require.NoError(t, store.Delete(ctx, "theme"))

	changes, err := store.Changes(ctx, "theme", 10)
	require.NoError(t, err)
	require.Len(t, changes, 3, "rewriting the same value is not a change")

	assert.True(t, changes[0].Deleted)
	assert.Equal(t, "dark", changes[1].Value)
	assert.Equal(t, "light", changes[2].Value)
	assert.False(t, changes[2].Deleted)
}

func TestPreferenceStore_SchemaVersion(t *testing.T) {
	ctx := testCtx()
	store, _ := newStore(t, sqlite.MemoryPath)

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, version)
}

func TestPreferenceStore_SchemaVersionReportsOpenFailure(t *testing.T) {
	store, _ := newStore(t, "")

	_, err := store.SchemaVersion(testCtx())
	assert.Error(t, err)
}

func TestMigrations_CreateChangeLogTable(t *testing.T) {
	ctx := testCtx()
	_, lazy := newStore(t, sqlite.MemoryPath)
	db, err := lazy.DB(ctx)
	require.NoError(t, err)

	var name string
	err = db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'preference_changes'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "preference_changes", name)
}
