package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Portal.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Wallet.SessionTTL.Std())
	assert.Equal(t, "product-images", cfg.Supabase.Bucket)
	assert.Equal(t, "0x1", cfg.Wallet.ChainID)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	contents := `
supabase:
  project_url: https://file.supabase.co
  anon_key: file-key
portal:
  listen_addr: ":9999"
  page_size: 12
wallet:
  chain_id: "0x89"
  session_ttl: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.supabase.co", cfg.Supabase.ProjectURL, "env must win over file")
	assert.Equal(t, "file-key", cfg.Supabase.AnonKey, "empty env must not override")
	assert.Equal(t, ":9999", cfg.Portal.ListenAddr)
	assert.Equal(t, 12, cfg.Portal.PageSize)
	assert.Equal(t, "0x89", cfg.Wallet.ChainID)
	assert.Equal(t, time.Hour, cfg.Wallet.SessionTTL.Std())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{"negative page size", "portal:\n  page_size: -1\n"},
		{"zero session ttl", "wallet:\n  session_ttl: 0s\n"},
		{"malformed duration", "wallet:\n  session_ttl: soon\n"},
		{"invalid yaml", "portal: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "portal.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.contents), 0o600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
