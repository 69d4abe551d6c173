package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ CommandExecutor = (*OSCommandExecutor)(nil)

func TestOSCommandExecutorOutput(t *testing.T) {
	out, err := NewOSCommandExecutor().Output("echo", "ok")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(out))
}

func TestOSCommandExecutorOutputWithInput(t *testing.T) {
	// Mesmo caminho usado para alimentar o flamegraph.pl pelo stdin
	out, err := NewOSCommandExecutor().OutputWithInput([]byte("main;FuncA 30\n"), "cat")
	require.NoError(t, err)
	assert.Equal(t, "main;FuncA 30\n", string(out))
}
