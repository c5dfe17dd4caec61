package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_FLOAT", "2.5")
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_DURATION", "3s")

	assert.Equal(t, "value", GetString("TEST_STRING", "def"))
	assert.Equal(t, "def", GetString("TEST_STRING_MISSING", "def"))
	assert.Equal(t, 42, GetInt("TEST_INT", 1))
	assert.Equal(t, 1, GetInt("TEST_INT_MISSING", 1))
	assert.Equal(t, 2.5, GetFloat("TEST_FLOAT", 0))
	assert.False(t, GetBool("TEST_BOOL", true))
	assert.True(t, GetBool("TEST_BOOL_MISSING", true))
	assert.Equal(t, 3*time.Second, GetDuration("TEST_DURATION", time.Second))
}

func TestGetIntPanicsOnGarbage(t *testing.T) {
	t.Setenv("TEST_INT", "forty-two")

	assert.Panics(t, func() { GetInt("TEST_INT", 0) })
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("ENV_TEST_LOADED=yes\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ENV_TEST_LOADED") })

	require.NoError(t, Load(file))
	assert.Equal(t, "yes", GetString("ENV_TEST_LOADED", "no"))

	require.Error(t, Load(filepath.Join(t.TempDir(), "missing.env")))
}
