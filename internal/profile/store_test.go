package profile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsEmptyStore(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Profiles)
	assert.Empty(t, s.Names())
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("Production", Profile{
		EnvironmentID: "env-1",
		ClientID:      "client-1",
		ClientSecret:  "secret-1",
	}))
	require.NoError(t, s.Set("Sandbox", Profile{EnvironmentID: "env-2"}))
	s.Meta.AutoConnectLast = true
	s.MarkWorking("Production")
	require.NoError(t, s.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Production", "Sandbox"}, loaded.Names())

	p, ok := loaded.Get("Production")
	require.True(t, ok)
	assert.Equal(t, "secret-1", p.ClientSecret)
	assert.Equal(t, "Production", loaded.Meta.LastWorkingProfile)

	auto, name, ok := loaded.AutoConnect()
	require.True(t, ok)
	assert.Equal(t, "Production", name)
	assert.Equal(t, "env-1", auto.EnvironmentID)
}

func TestSave_OwnerOnlyPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix permissions")
	}
	path := filepath.Join(t.TempDir(), "profiles.json")
	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("p", Profile{ClientSecret: "hush"}))
	require.NoError(t, s.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSet_RejectsReservedName(t *testing.T) {
	s := &Store{Profiles: map[string]Profile{}}
	assert.Error(t, s.Set("__meta__", Profile{}))
	assert.Error(t, s.Set("", Profile{}))
}

func TestDelete_ClearsLastWorking(t *testing.T) {
	s := &Store{Profiles: map[string]Profile{"p": {}}}
	s.MarkWorking("p")

	assert.True(t, s.Delete("p"))
	assert.Empty(t, s.Meta.LastWorkingProfile)
	assert.False(t, s.Delete("p"), "second delete reports absence")
}

func TestAutoConnect_RequiresOptInAndExistingProfile(t *testing.T) {
	s := &Store{Profiles: map[string]Profile{"p": {}}}
	s.MarkWorking("p")
	_, _, ok := s.AutoConnect()
	assert.False(t, ok, "auto-connect is opt-in")

	s.Meta.AutoConnectLast = true
	s.Meta.LastWorkingProfile = "gone"
	_, _, ok = s.AutoConnect()
	assert.False(t, ok)
}
