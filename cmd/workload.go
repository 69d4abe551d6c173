/*
 * gperf2flame - gperftools CPU profile to flamegraph converter
 * Copyright (c) 2026 Edilson Freitas
 * License: MIT
 */
package cmd

import (
	"flag"
	"fmt"
	"time"

	"github.com/diillson/gperf2flame/bench"
	"go.uber.org/zap"
)

// WorkloadOptions holds the flags for the 'workload' subcommand.
type WorkloadOptions struct {
	Loops uint64
	Funcs string
}

// RunWorkload executes the 'gperf2flame workload' subcommand: roda as cargas
// sintéticas com um bound configurável, útil para rodadas rápidas de teste do
// conversor. O binário gperftest continua sendo a carga contratual, sem
// argumentos e sem instrumentação.
func RunWorkload(args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("workload", flag.ContinueOnError)

	opts := &WorkloadOptions{}
	fs.Uint64Var(&opts.Loops, "loops", bench.LoopCount, "Loop bound for each function")
	fs.StringVar(&opts.Funcs, "func", "both", "Which function to run: a, b or both")

	if err := fs.Parse(args); err != nil {
		return err
	}

	runA := opts.Funcs == "a" || opts.Funcs == "both"
	runB := opts.Funcs == "b" || opts.Funcs == "both"
	if !runA && !runB {
		return fmt.Errorf("valor inválido para --func: %q (esperado a, b ou both)", opts.Funcs)
	}

	// FuncA sempre termina por completo antes de FuncB começar
	if runA {
		start := time.Now()
		bench.FuncA(opts.Loops)
		logger.Info("FuncA concluída",
			zap.Uint64("loops", opts.Loops),
			zap.Duration("elapsed", time.Since(start)))
	}
	if runB {
		start := time.Now()
		bench.FuncB(opts.Loops)
		logger.Info("FuncB concluída",
			zap.Uint64("loops", opts.Loops),
			zap.Duration("elapsed", time.Since(start)))
	}

	return nil
}
