package apilog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Options{Dir: dir, APILogging: true, Credentials: true})
	require.NoError(t, err)
	defer r.Close()

	r.Call("POST %s", "https://api.example.com/users")
	r.Connection("connection refused")
	r.CredentialInfo("token obtained")

	for _, name := range []string{"api_calls.log", "connection_errors.log", "credentials.log"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

func TestCall_RespectsAPILoggingToggle(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Options{Dir: dir})
	require.NoError(t, err)
	defer r.Close()

	r.Call("GET /users")
	data, err := os.ReadFile(filepath.Join(dir, "api_calls.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "GET /users")

	r.SetAPILogging(true)
	r.Call("GET /populations")
	data, err = os.ReadFile(filepath.Join(dir, "api_calls.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "GET /populations")
}

func TestConnection_WritesRegardlessOfAPIToggle(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Options{Dir: dir})
	require.NoError(t, err)
	defer r.Close()

	r.Connection("CREATE FAILED for user=alice")

	data, err := os.ReadFile(filepath.Join(dir, "connection_errors.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE FAILED for user=alice")
}

func TestLiveCapture_DrainsAndRespectsToggle(t *testing.T) {
	r := Discard()

	r.Call("invisible")
	assert.Empty(t, r.TakeEvents())

	r.SetLiveCapture(true)
	r.Call("POST /users status=201")
	r.Connection("timeout")

	events := r.TakeEvents()
	require.Len(t, events, 2)
	assert.Contains(t, events[0], "POST /users status=201")
	assert.Contains(t, events[1], "timeout")

	assert.Empty(t, r.TakeEvents(), "drain empties the buffer")
}

func TestPreview_TruncatesLongBodies(t *testing.T) {
	assert.Equal(t, "short", Preview([]byte("short"), 10))
	assert.Equal(t, "0123456789...", Preview([]byte("0123456789abcdef"), 10))
}
