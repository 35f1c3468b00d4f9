package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/quickfix/internal/db"
	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "prefs.env"))
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
		"sealed": NewSealedStore(NewMemoryStore(), "test-secret", KeyAuthToken),
	}
}

func TestSaveLoadFilter_RoundTrip(t *testing.T) {
	filters := map[string]valueobject.Filter{
		"defaults": valueobject.DefaultFilter(),
		"all set": {
			Type: "Plumbing", Query: `leak "kitchen" sink!`,
			Budget: valueobject.Some(150), Distance: valueobject.Some(25),
		},
		"mixed":      {Type: valueobject.AnyType, Query: "", Budget: valueobject.Some(0)},
		"only query": {Type: valueobject.AnyType, Query: "garden"},
		"digits":     {Type: valueobject.AnyType, Query: "007"},
		"quote end":  {Type: valueobject.AnyType, Query: `say "hi"`},
		"backslash":  {Type: valueobject.AnyType, Query: `C:\`},
		"dollar":     {Type: valueobject.AnyType, Query: "${HOME} $5 #tag"},
	}

	for storeName, store := range testStores(t) {
		for name, f := range filters {
			t.Run(storeName+"/"+name, func(t *testing.T) {
				ctx := context.Background()
				require.NoError(t, SaveFilter(ctx, store, valueobject.ViewRequests, f))

				got, err := LoadFilter(ctx, store, valueobject.ViewRequests)
				require.NoError(t, err)
				assert.Equal(t, f.Normalize(), got)
			})
		}
	}
}

func TestFilter_ModeIsolation(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			providers := valueobject.Filter{Type: "Cleaning", Budget: valueobject.Some(40)}
			requests := valueobject.Filter{Type: "Painting", Query: "fence", Distance: valueobject.Some(5)}

			require.NoError(t, SaveFilter(ctx, store, valueobject.ViewProviders, providers))
			require.NoError(t, SaveFilter(ctx, store, valueobject.ViewRequests, requests))

			got, err := LoadFilter(ctx, store, valueobject.ViewProviders)
			require.NoError(t, err)
			assert.Equal(t, providers, got)

			require.NoError(t, ClearFilter(ctx, store, valueobject.ViewRequests))

			got, err = LoadFilter(ctx, store, valueobject.ViewRequests)
			require.NoError(t, err)
			assert.Equal(t, valueobject.DefaultFilter(), got)

			got, err = LoadFilter(ctx, store, valueobject.ViewProviders)
			require.NoError(t, err)
			assert.Equal(t, providers, got)
		})
	}
}

func TestLoadFilter_IgnoresCorruptNumbers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	keys := KeysFor(valueobject.ViewProviders)
	require.NoError(t, store.Update(ctx, map[string]string{keys.Budget: "lots", keys.Distance: "50.0"}, nil))

	got, err := LoadFilter(ctx, store, valueobject.ViewProviders)
	require.NoError(t, err)
	assert.False(t, got.Budget.IsSet())
	assert.Equal(t, 50, got.Distance.OrElse(-1))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.env")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, Set(ctx, first, KeyUserID, "42"))
	require.NoError(t, Set(ctx, first, KeyThemeMode, "2"))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := second.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	require.NoError(t, second.Clear(ctx))
	_, ok, err = first.Get(ctx, KeyThemeMode)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_AwkwardValuesKeepOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.env")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, Set(ctx, store, KeyAuthToken, "jwt-value"))
	require.NoError(t, SaveFilter(ctx, store, valueobject.ViewRequests,
		valueobject.Filter{Type: valueobject.AnyType, Query: `C:\`}))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	token, ok, err := reopened.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt-value", token)

	got, err := LoadFilter(ctx, reopened, valueobject.ViewRequests)
	require.NoError(t, err)
	assert.Equal(t, `C:\`, got.Query)
}

func TestFileStore_CorruptFileReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.env")
	require.NoError(t, os.WriteFile(path, []byte("FILTER_QUERY_REQUEST=\"C:\\\\\"\nauthToken=\"x\"\n"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	_, ok, err := store.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Set(ctx, store, KeyUserID, "9"))
	v, ok, err := store.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "9", v)
}

func TestFileStore_ReadsPlainLegacyValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.env")
	require.NoError(t, os.WriteFile(path, []byte("userId=42\nthemeMode=\"2\"\n"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := store.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestSealedStore_EncryptsSelectedKeys(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	sealed := NewSealedStore(inner, "secret", KeyAuthToken)

	require.NoError(t, sealed.Update(ctx, map[string]string{KeyAuthToken: "jwt-value", KeyUserID: "7"}, nil))

	raw := inner.Snapshot()
	assert.NotEqual(t, "jwt-value", raw[KeyAuthToken])
	assert.Equal(t, "7", raw[KeyUserID])

	v, ok, err := sealed.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt-value", v)

	other := NewSealedStore(inner, "another-secret", KeyAuthToken)
	_, ok, err = other.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("QUICKFIX_TEST_DSN")
	if dsn == "" {
		t.Skip("QUICKFIX_TEST_DSN не задан")
	}
	ctx := context.Background()

	conn, err := db.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.RunMigrations(ctx, conn, Migrations))

	store := NewPostgresStore(conn, "test-"+t.Name())
	require.NoError(t, store.Clear(ctx))

	f := valueobject.Filter{Type: "Cleaning", Budget: valueobject.Some(10)}
	require.NoError(t, SaveFilter(ctx, store, valueobject.ViewProviders, f))
	got, err := LoadFilter(ctx, store, valueobject.ViewProviders)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	require.NoError(t, ClearFilter(ctx, store, valueobject.ViewProviders))
	got, err = LoadFilter(ctx, store, valueobject.ViewProviders)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DefaultFilter(), got)
}
