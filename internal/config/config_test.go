package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetRoundTrip(t *testing.T) {
	cfg, err := newAt(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.Set(KeyUserID, "sa_user_id_test"))
	assert.Equal(t, "sa_user_id_test", cfg.Get(KeyUserID))

	// Values persist across a fresh load of the same directory.
	reloaded, err := newAt(filepath.Dir(cfg.FilePath()))
	require.NoError(t, err)
	assert.Equal(t, "sa_user_id_test", reloaded.Get(KeyUserID))
}

func TestSetRejectsUnknownKey(t *testing.T) {
	cfg, err := newAt(t.TempDir())
	require.NoError(t, err)

	err = cfg.Set("region", "eu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestSetBaseURLValidation(t *testing.T) {
	cfg, err := newAt(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.Set(KeyBaseURL, "https://custom.api.com/"))
	assert.Equal(t, "https://custom.api.com", cfg.Get(KeyBaseURL), "trailing slash is stripped")

	err = cfg.Set(KeyBaseURL, "custom.api.com")
	require.Error(t, err)
}

func TestListMasksAPIKey(t *testing.T) {
	cfg, err := newAt(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.Set(KeyAPIKey, "sa_api_key_secret"))
	require.NoError(t, cfg.Set(KeyTimezone, "Europe/Amsterdam"))

	entries := cfg.List()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Key: KeyAPIKey, Value: "sa_a****"}, entries[0])
	assert.Equal(t, Entry{Key: KeyTimezone, Value: "Europe/Amsterdam"}, entries[1])
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "****", mask("abcd"))
	assert.Equal(t, "abcd****", mask("abcdefgh"))
}
