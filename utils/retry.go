package utils

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/diillson/gperf2flame/profile"
	"go.uber.org/zap"
)

// Retry executa uma função com retry exponencial para erros temporários.
// - maxAttempts: Número máximo de tentativas (lido de ENV ou default).
// - initialBackoff: Tempo inicial de espera entre tentativas (lido de ENV ou default).
// - fn: Função a executar, que recebe ctx e retorna um resultado genérico T e erro.
func Retry[T any](ctx context.Context, logger *zap.Logger, maxAttempts int, initialBackoff time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var result T
	backoff := initialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			logger.Debug("Operação bem-sucedida na tentativa",
				zap.Int("attempt", attempt))
			return res, nil
		}

		// Apenas retry para erros temporários (ex: perfil ainda sendo escrito)
		if IsTemporaryError(err) {
			logger.Warn("Erro temporário detectado, retentando",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err),
				zap.Duration("backoff", backoff))
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return result, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2 // Backoff exponencial
				continue
			}
		}

		// Erro permanente: loga e retorna
		logger.Error("Erro permanente na operação, abortando",
			zap.Int("attempt", attempt),
			zap.Error(err))
		return result, err
	}

	// Falha após todas as tentativas
	errMsg := fmt.Errorf("falha após %d tentativas", maxAttempts)
	logger.Error("Máximo de tentativas excedido", zap.Error(errMsg))
	return result, errMsg
}

// IsTemporaryError verifica se o erro é temporário e pode ser retryado.
// Um perfil truncado significa que o profiler ainda está escrevendo o
// arquivo; um arquivo inexistente pode ser um rename em andamento.
func IsTemporaryError(err error) bool {
	if errors.Is(err, profile.ErrTruncated) {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	return false
}
