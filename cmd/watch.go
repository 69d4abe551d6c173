/*
 * gperf2flame - gperftools CPU profile to flamegraph converter
 * Copyright (c) 2026 Edilson Freitas
 * License: MIT
 */
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/gperf2flame/config"
	"github.com/diillson/gperf2flame/metrics"
	"github.com/diillson/gperf2flame/utils"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchOptions holds the flags for the 'watch' subcommand.
type WatchOptions struct {
	Convert     ConvertOptions
	Debounce    time.Duration
	MetricsPort int
}

// RunWatch executes the 'gperf2flame watch <exe> <prof>' subcommand: observa
// o arquivo de perfil e refaz a conversão a cada escrita do profiler.
func RunWatch(ctx context.Context, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)

	opts := &WatchOptions{}
	fs.StringVar(&opts.Convert.SVGOutput, "svg-output", "", "The output .svg path")
	fs.StringVar(&opts.Convert.TextOutput, "text-output", "", "The output .txt path (folded stacks)")
	fs.BoolVar(&opts.Convert.SimplifySymbol, "simplify-symbol", false, "Simplify symbols, remove template args and function args")
	fs.BoolVar(&opts.Convert.ExecutableOnly, "executable-only", false, "Only resolve the executable binary")
	fs.BoolVar(&opts.Convert.AnnotateLibname, "annotate-libname", false, "Append \"[libname.so]\" to final symbols")
	fs.BoolVar(&opts.Convert.ToMicroseconds, "to-microsecond", false, "Use microsecond as the result unit")
	fs.StringVar(&opts.Convert.Flamegraph, "flamegraph", config.Global.GetString("FLAMEGRAPH_PL"), "Path to the flamegraph.pl script")
	fs.DurationVar(&opts.Debounce, "debounce", config.Global.GetDuration("GPERF2FLAME_WATCH_DEBOUNCE", config.DefaultWatchDebounce), "Debounce window for file events")
	fs.IntVar(&opts.MetricsPort, "metrics-port", config.Global.GetInt("GPERF2FLAME_METRICS_PORT", config.DefaultMetricsPort), "Prometheus metrics port (0 = disabled)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Uso: gperf2flame watch [flags] <executável> <perfil>")
		return fmt.Errorf("esperados 2 argumentos: o executável e o resultado do profiler")
	}
	exe, prof := fs.Arg(0), fs.Arg(1)

	// No modo watch o stdout não é um destino útil: exigimos um arquivo
	if opts.Convert.SVGOutput == "" && opts.Convert.TextOutput == "" {
		return fmt.Errorf("o modo watch requer --svg-output e/ou --text-output")
	}

	profPath, err := utils.ExpandPath(prof)
	if err != nil {
		return err
	}

	maxRetries := config.Global.GetInt("GPERF2FLAME_MAX_RETRIES", config.DefaultMaxRetries)
	backoff := config.Global.GetDuration("GPERF2FLAME_INITIAL_BACKOFF", config.DefaultInitialBackoff)
	executor := utils.NewOSCommandExecutor()

	var convMetrics *metrics.ConverterMetrics
	if opts.MetricsPort > 0 {
		convMetrics = metrics.NewConverterMetrics(time.Now())
		srv := metrics.NewServer(opts.MetricsPort, logger)
		srv.Start()
		defer srv.Stop()
	}

	convert := func() {
		start := time.Now()
		// O profiler grava o arquivo aos poucos; perfis truncados são
		// erros temporários e entram no retry
		res, err := utils.Retry(ctx, logger, maxRetries, backoff, func(ctx context.Context) (*ConversionResult, error) {
			return runConversion(ctx, exe, profPath, &opts.Convert, executor, logger)
		})
		if err != nil {
			logger.Error("Conversão falhou", zap.Error(err))
			if convMetrics != nil {
				convMetrics.Conversions.WithLabelValues("error").Inc()
			}
			return
		}

		logger.Info("Perfil reconvertido",
			zap.Uint64("samples", res.Samples),
			zap.Int("stacks", res.Data.Len()),
			zap.Duration("elapsed", res.Elapsed))
		if convMetrics != nil {
			convMetrics.Conversions.WithLabelValues("success").Inc()
			convMetrics.Duration.Observe(time.Since(start).Seconds())
			convMetrics.LastSamples.Set(float64(res.Samples))
			convMetrics.LastStacks.Set(float64(res.Data.Len()))
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("não foi possível criar o observador de arquivos: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Observa o diretório: o gperftools troca o arquivo por rename, e
	// watch direto no arquivo se perde nesse momento
	dir := filepath.Dir(profPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("erro ao observar o diretório %s: %w", dir, err)
	}
	logger.Info("Observando perfil",
		zap.String("prof", profPath),
		zap.Duration("debounce", opts.Debounce))

	// Conversão inicial, se o perfil já existe
	if _, err := os.Stat(profPath); err == nil {
		convert()
	}

	// Debounce: Evita reconversões múltiplas em rápida sucessão.
	var reloadTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			logger.Info("Encerrando o modo watch")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil // Canal fechado
			}
			if filepath.Base(event.Name) != filepath.Base(profPath) {
				continue
			}
			// Reage a qualquer escrita, criação ou rename do perfil
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				logger.Debug("Alteração detectada no perfil", zap.String("event", event.String()))

				// Reseta o timer de debounce a cada novo evento.
				if reloadTimer != nil {
					reloadTimer.Stop()
				}
				reloadTimer = time.AfterFunc(opts.Debounce, convert)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil // Canal fechado
			}
			logger.Error("Erro no observador de arquivos", zap.Error(err))
		}
	}
}
