package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/market/natsmarket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLoadConfigDefaults(t *testing.T) {
	home := t.TempDir()

	conf, err := LoadConfig(home, "")
	require.NoError(t, err)
	assert.Equal(t, "info", conf.LogLevel)
	assert.Equal(t, filepath.Join(home, "mint.db"), conf.DBPath)
	assert.Equal(t, filepath.Join(home, "genesis.json"), conf.Genesis)
	assert.Equal(t, 100, conf.BlockSize)
	assert.Equal(t, "", conf.NATS.URL)
	assert.Equal(t, natsmarket.DefaultSubjectPrefix, conf.NATS.SubjectPrefix)
	assert.Equal(t, 2*time.Second, conf.NATS.ReconnectWait)
	assert.Equal(t, Name, conf.NATS.ConnectionName)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	home := t.TempDir()
	raw := []byte(`
log_level: debug
block_size: 5
nats:
  url: nats://localhost:4222
  subject_prefix: mintbase
  reconnect_wait: 5s
`)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), raw, 0600))

	conf, err := LoadConfig(home, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, 5, conf.BlockSize)
	assert.Equal(t, "nats://localhost:4222", conf.NATS.URL)
	assert.Equal(t, "mintbase", conf.NATS.SubjectPrefix)
	assert.Equal(t, 5*time.Second, conf.NATS.ReconnectWait)

	t.Setenv("MINTD_NATS_URL", "nats://remote:4222")
	t.Setenv("MINTD_BLOCK_SIZE", "7")
	conf, err = LoadConfig(home, "")
	require.NoError(t, err)
	assert.Equal(t, "nats://remote:4222", conf.NATS.URL)
	assert.Equal(t, 7, conf.BlockSize)
}

func TestLoadConfigErrors(t *testing.T) {
	home := t.TempDir()

	_, err := LoadConfig(home, filepath.Join(home, "missing.yaml"))
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)

	t.Setenv("MINTD_BLOCK_SIZE", "0")
	_, err = LoadConfig(home, "")
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Logger(Config{LogLevel: "info"}, &buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "module="+Name)

	_, err = Logger(Config{LogLevel: "loud"}, &buf)
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)
}

func TestNotifierDisabled(t *testing.T) {
	n, closer, err := Notifier(Config{}, log.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, n)
	closer()
}
