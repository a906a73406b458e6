package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/fleetview/internal/fleetview/core"
	"github.com/autopeer-io/fleetview/pkg/options"
)

func exerciseStore(t *testing.T, store core.SessionStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetMany(ctx, map[string]string{
		"authToken": "tok-1",
		"authUser":  `{"id":"1","email":"admin@fleet.com","role":"admin"}`,
	}))

	v, ok, err := store.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, store.SetMany(ctx, map[string]string{"authToken": "tok-2"}))
	v, _, err = store.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", v, "SetMany overwrites existing keys")

	require.NoError(t, store.Delete(ctx, "authToken", "authUser", "never-set"))
	for _, k := range []string{"authToken", "authUser"} {
		_, ok, err := store.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}

	require.NoError(t, store.Delete(ctx))
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	s, err := NewSQLite(context.Background(), path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SetMany(ctx, map[string]string{"authToken": "persisted"}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
	assert.Equal(t, path, reopened.Path())
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	opts := options.NewRedisOptions()
	opts.Addr = mr.Addr()

	r, err := NewRedis(context.Background(), opts)
	require.NoError(t, err)
	defer r.Close()

	exerciseStore(t, r)

	require.NoError(t, r.SetMany(context.Background(), map[string]string{"authToken": "x"}))
	assert.True(t, mr.Exists("fleetview:authToken"), "keys carry the configured prefix")
}

func TestRedisUnreachable(t *testing.T) {
	opts := options.NewRedisOptions()
	opts.Addr = "127.0.0.1:1"

	_, err := NewRedis(context.Background(), opts)
	assert.ErrorContains(t, err, "failed to connect to redis")
}
