package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `default_protocol: ooake-ristrettodh-aes128colm0
profile: /home/alice/.config/ene/key.ene
askpass: /usr/bin/myaskpass
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ooake-ristrettodh-aes128colm0", cfg.DefaultProtocol)
	assert.Equal(t, "/home/alice/.config/ene/key.ene", cfg.Profile)
	assert.Equal(t, "/usr/bin/myaskpass", cfg.Askpass)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t:bad"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
