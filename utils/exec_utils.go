package utils

import (
	"bytes"
	"os/exec"
)

// CommandExecutor define uma interface para executar comandos externos
// (nm, readelf, flamegraph.pl). Isso nos permite mockar a execução de
// comandos nos testes.
type CommandExecutor interface {
	Output(name string, arg ...string) ([]byte, error)
	OutputWithInput(input []byte, name string, arg ...string) ([]byte, error)
}

// OSCommandExecutor é a implementação real que usa os/exec.
type OSCommandExecutor struct{}

// Output executa um comando e retorna sua saída padrão.
func (e *OSCommandExecutor) Output(name string, arg ...string) ([]byte, error) {
	cmd := exec.Command(name, arg...)
	return cmd.Output()
}

// OutputWithInput executa um comando alimentando o stdin com input e retorna
// sua saída padrão. Usado para enviar os stacks colapsados ao flamegraph.pl.
func (e *OSCommandExecutor) OutputWithInput(input []byte, name string, arg ...string) ([]byte, error) {
	cmd := exec.Command(name, arg...)
	cmd.Stdin = bytes.NewReader(input)
	return cmd.Output()
}

// NewOSCommandExecutor cria um novo executor de comandos do sistema operacional.
func NewOSCommandExecutor() CommandExecutor {
	return &OSCommandExecutor{}
}
