package client_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caskdb/caskdb/cask"
	"github.com/caskdb/caskdb/client"
	"github.com/caskdb/caskdb/internal/server"
)

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

// startServer runs a real engine behind the TCP handler and returns the port
// it listens on.
func startServer(t *testing.T, dir string) int {
	t.Helper()

	db, err := cask.Open(dir, cask.WithMaxLogSize(1024))
	require.NoError(t, err)

	logger := log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}}
	handler := server.NewHandler(db, logger)

	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		_ = server.Start(ctx, port, handler.HandleConn)
	}()

	t.Cleanup(func() {
		cancel()
		db.Close()
	})

	// Give the listener a moment to bind
	time.Sleep(50 * time.Millisecond)

	return port
}

func connect(t *testing.T, port int) *client.Client {
	t.Helper()

	c, err := client.Connect(
		client.WithHost("127.0.0.1"),
		client.WithPort(port),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		c.Close()
	})

	return c
}

func TestClientPing(t *testing.T) {
	port := startServer(t, t.TempDir())
	c := connect(t, port)

	resp, err := c.Ping()
	require.NoError(t, err)
	assert.Equal(t, "PONG!", resp)
}

func TestClientSetGetDelete(t *testing.T) {
	port := startServer(t, t.TempDir())
	c := connect(t, port)

	resp, err := c.Set("foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	resp, err = c.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "bar", resp)

	resp, err = c.Delete("foo")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	resp, err = c.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "nil", resp)
}

func TestClientExistsCountKeys(t *testing.T) {
	port := startServer(t, t.TempDir())
	c := connect(t, port)

	resp, err := c.Keys()
	require.NoError(t, err)
	assert.Equal(t, "nil", resp)

	_, err = c.Set("a", "1")
	require.NoError(t, err)
	_, err = c.Set("b", "2")
	require.NoError(t, err)

	resp, err = c.Exists("a")
	require.NoError(t, err)
	assert.Equal(t, "true", resp)

	resp, err = c.Exists("z")
	require.NoError(t, err)
	assert.Equal(t, "false", resp)

	resp, err = c.Count()
	require.NoError(t, err)
	assert.Equal(t, "2", resp)

	resp, err = c.Keys()
	require.NoError(t, err)
	assert.Equal(t, "a\nb", resp)
}

func TestClientSyncAndMerge(t *testing.T) {
	port := startServer(t, t.TempDir())
	c := connect(t, port)

	for i := 0; i < 50; i++ {
		_, err := c.Set("key", "a value that gets overwritten every time")
		require.NoError(t, err)
	}

	resp, err := c.Sync()
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	resp, err = c.Merge()
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	resp, err = c.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "a value that gets overwritten every time", resp)
}

func TestClientValueWithSpaces(t *testing.T) {
	port := startServer(t, t.TempDir())
	c := connect(t, port)

	_, err := c.Set("city", "new york")
	require.NoError(t, err)

	resp, err := c.Get("city")
	require.NoError(t, err)
	assert.Equal(t, "new york", resp)
}

func TestClientExecuteUnknownCommand(t *testing.T) {
	port := startServer(t, t.TempDir())
	c := connect(t, port)

	resp, err := c.Execute("bogus", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Invalid Command", resp)
}

func TestClientMultipleClients(t *testing.T) {
	port := startServer(t, t.TempDir())
	c1 := connect(t, port)
	c2 := connect(t, port)

	_, err := c1.Set("shared", "from-c1")
	require.NoError(t, err)

	resp, err := c2.Get("shared")
	require.NoError(t, err)
	assert.Equal(t, "from-c1", resp)
}
