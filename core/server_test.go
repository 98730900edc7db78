package core_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xRadioAc7iv/go-depot/core"
	"github.com/0xRadioAc7iv/go-depot/depot"
)

func startServer(t *testing.T, path string) *core.Server {
	t.Helper()

	logger.New("NOOP")

	srv := &core.Server{
		DataFilePath: path,
		Capacity:     100,
		ListenerPort: 0,
		SyncInterval: 1,
	}
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)

	return srv
}

func connectClient(t *testing.T, srv *core.Server) *depot.Client {
	t.Helper()

	client, err := depot.Connect(depot.WithHost("127.0.0.1"), depot.WithPort(srv.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func TestServerStartStop(t *testing.T) {
	srv := startServer(t, filepath.Join(t.TempDir(), "data.depot"))
	assert.NotZero(t, srv.Port())
	srv.Stop()
}

func TestServerCommands(t *testing.T) {
	srv := startServer(t, filepath.Join(t.TempDir(), "data.depot"))
	client := connectClient(t, srv)

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, client.Ping())
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, client.Set([]byte("foo"), []byte("bar")))

		val, found, err := client.Get([]byte("foo"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("bar"), val)
	})

	t.Run("get missing", func(t *testing.T) {
		_, found, err := client.Get([]byte("nope"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("int key", func(t *testing.T) {
		key, err := depot.ParseArg("int:42")
		require.NoError(t, err)
		require.NoError(t, client.Set(key, boolTrue))

		val, found, err := client.Get(core.IntKey(42).Bytes())
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, boolTrue, val)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := client.Exists([]byte("foo"))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = client.Exists([]byte("nope"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("count and buckets", func(t *testing.T) {
		n, err := client.Count()
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		used, err := client.Buckets()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, used, 1)
		assert.LessOrEqual(t, used, 2)
	})

	t.Run("list", func(t *testing.T) {
		keys, err := client.List()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"foo", "hex:2a000000"}, keys)
	})

	t.Run("header", func(t *testing.T) {
		h, err := client.Header()
		require.NoError(t, err)
		assert.Contains(t, h, "version: 14")
		assert.Contains(t, h, "buckets: 103")
		assert.Contains(t, h, "records: 2")
	})

	t.Run("align", func(t *testing.T) {
		n, err := client.Align(-2)
		require.NoError(t, err)
		assert.Equal(t, -2, n)

		_, err = client.Execute("align", []byte("wide"), nil)
		var serverErr *depot.ServerError
		assert.ErrorAs(t, err, &serverErr)
	})

	t.Run("empty value is refused", func(t *testing.T) {
		err := client.Set([]byte("foo"), nil)
		var serverErr *depot.ServerError
		require.True(t, errors.As(err, &serverErr))
		assert.Contains(t, serverErr.Msg, "invalid argument")
	})

	t.Run("invalid command", func(t *testing.T) {
		_, err := client.Execute("delete", []byte("foo"), nil)
		var serverErr *depot.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, "Invalid Command", serverErr.Msg)
	})
}

func TestServerEmptyList(t *testing.T) {
	srv := startServer(t, filepath.Join(t.TempDir(), "data.depot"))
	client := connectClient(t, srv)

	keys, err := client.List()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestServerPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.depot")

	{
		srv := startServer(t, path)
		client := connectClient(t, srv)

		require.NoError(t, client.Set([]byte("persist"), []byte("yes")))
		client.Close()
		srv.Stop()
	}

	// restart
	{
		srv := startServer(t, path)
		client := connectClient(t, srv)

		val, found, err := client.Get([]byte("persist"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("yes"), val)
	}
}

func TestServerStopClosesConnections(t *testing.T) {
	srv := startServer(t, filepath.Join(t.TempDir(), "data.depot"))
	client := connectClient(t, srv)
	require.NoError(t, client.Ping())

	srv.Stop()

	assert.Error(t, client.Ping())
}

func TestServerRefusesLockedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.depot")
	startServer(t, path)

	second := &core.Server{DataFilePath: path, Capacity: 100}
	assert.Error(t, second.Start())
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "plain-key", core.FormatKey([]byte("plain-key")))
	assert.Equal(t, "hex:2a000000", core.FormatKey(core.IntKey(42).Bytes()))
	assert.Equal(t, "", core.FormatKey(nil))
}
