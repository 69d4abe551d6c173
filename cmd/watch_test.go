package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diillson/gperf2flame/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunWatchExigeSaida(t *testing.T) {
	config.Global = config.New(zap.NewNop())
	config.Global.Load()

	err := RunWatch(context.Background(), []string{"exe", "prof"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch requer")
}

func TestRunWatchArgumentosFaltando(t *testing.T) {
	config.Global = config.New(zap.NewNop())
	config.Global.Load()

	err := RunWatch(context.Background(), []string{"-text-output", "out.txt"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRunWatchEncerraComContexto(t *testing.T) {
	config.Global = config.New(zap.NewNop())
	config.Global.Load()

	dir := t.TempDir()
	exe := filepath.Join(dir, "gperftest")
	require.NoError(t, os.WriteFile(exe, []byte{0x7f, 'E', 'L', 'F'}, 0755))
	// Perfil ainda não existe: o watch deve ficar aguardando eventos

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	err := RunWatch(ctx, []string{
		"-text-output", filepath.Join(dir, "out.txt"),
		exe, filepath.Join(dir, "gperftest.prof"),
	}, zap.NewNop())
	assert.NoError(t, err)
}
