/*
 * gperf2flame - gperftools CPU profile to flamegraph converter
 * Copyright (c) 2026 Edilson Freitas
 * License: MIT
 */
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diillson/gperf2flame/cmd"
	"github.com/diillson/gperf2flame/config"
	"github.com/diillson/gperf2flame/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Nenhum arquivo .env encontrado, continuando sem ele")
	}

	logger, err := utils.InitializeLogger()
	if err != nil {
		panic(fmt.Sprintf("Não foi possível inicializar o logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	config.Global = config.New(logger)
	config.Global.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	// Ctrl+C encerra o modo watch de forma limpa
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cmdErr error
	switch os.Args[1] {
	case "convert":
		cmdErr = cmd.RunConvert(ctx, os.Args[2:], logger)
	case "watch":
		cmdErr = cmd.RunWatch(ctx, os.Args[2:], logger)
	case "workload":
		cmdErr = cmd.RunWorkload(os.Args[2:], logger)
	case "version", "--version", "-v":
		cmdErr = cmd.RunVersion(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Comando desconhecido: %s\n\n", os.Args[1])
		printUsage()
		stop()
		os.Exit(2)
	}

	if cmdErr != nil {
		logger.Error("Comando falhou", zap.Error(cmdErr))
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `gperf2flame - converte resultados do CPU profiler do gperftools em flamegraphs

Uso: gperf2flame <comando> [flags]

Comandos:
  convert <exe> <prof>   converte um perfil em stacks colapsados ou SVG
  watch <exe> <prof>     observa o perfil e reconverte a cada escrita
  workload               roda as cargas sintéticas (FuncA/FuncB)
  version                exibe informações de versão
  help                   exibe esta ajuda

Use 'gperf2flame <comando> -h' para as flags de cada comando.`)
}
