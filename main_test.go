package main

import (
	"testing"

	"github.com/diillson/gperf2flame/config"
	"go.uber.org/zap"
)

func TestConfigGlobalInicializa(t *testing.T) {
	// A inicialização completa do main é coberta pelos testes dos
	// componentes; aqui só garantimos que o bootstrap de configuração
	// não quebra.
	logger := zap.NewNop()
	config.Global = config.New(logger)
	config.Global.Load()

	if config.Global.GetString("FLAMEGRAPH_PL") == "" {
		t.Error("FLAMEGRAPH_PL deveria ter um valor padrão")
	}
}
