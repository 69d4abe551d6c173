package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeLoggerRespeitaLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "teste.log")
	t.Setenv("LOG_FILE", logFile)
	t.Setenv("LOG_MAX_SIZE", "5")

	logger, err := InitializeLogger()
	require.NoError(t, err)

	logger.Info("mensagem de teste")
	_ = logger.Sync() // stderr pode não suportar sync, o arquivo basta

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mensagem de teste")
}
