package utils

import (
	"os"

	"github.com/google/uuid"
	"golang.org/x/term"
)

// GenerateUUID gera um UUID (Universally Unique Identifier)
func GenerateUUID() string {
	return uuid.New().String()
}

// IsTerminal verifica se o stdout está ligado a um terminal interativo.
// Usado para decidir se imprimimos o resumo amigável ou só os stacks crus.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
