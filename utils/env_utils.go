package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// GetEnv retorna o valor de uma variável de ambiente ou um valor padrão se não
// estiver definida, além de um booleano indicando se o valor padrão foi usado.
// O logger é opcional: durante a inicialização do próprio logger ainda não há
// um disponível.
func GetEnv(key, defaultValue string, logger *zap.Logger) (string, bool) {
	value := os.Getenv(key)
	if value == "" {
		if logger != nil {
			logger.Debug(fmt.Sprintf("%s não definido, assumindo default: %s", key, defaultValue))
		}
		return defaultValue, true // true indica que o valor padrão foi usado
	}
	return value, false // false indica que o valor foi obtido da variável de ambiente
}
