/*
 * gperf2flame - gperftools CPU profile to flamegraph converter
 * Copyright (c) 2026 Edilson Freitas
 * License: MIT
 */
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/diillson/gperf2flame/config"
	"github.com/diillson/gperf2flame/flamegraph"
	"github.com/diillson/gperf2flame/profile"
	"github.com/diillson/gperf2flame/symbol"
	"github.com/diillson/gperf2flame/utils"
	"go.uber.org/zap"
)

// ConversionResult resume uma conversão completa.
type ConversionResult struct {
	Data           *flamegraph.Data
	Samples        uint64
	SamplingPeriod time.Duration
	Elapsed        time.Duration
}

// runConversion executa o pipeline completo: lê o perfil, resolve os
// símbolos, colapsa os stacks e grava as saídas pedidas.
func runConversion(ctx context.Context, exe, prof string, opts *ConvertOptions, executor utils.CommandExecutor, logger *zap.Logger) (*ConversionResult, error) {
	start := time.Now()

	profPath, err := utils.ExpandPath(prof)
	if err != nil {
		return nil, err
	}
	exePath, err := utils.ExpandPath(exe)
	if err != nil {
		return nil, err
	}

	res, err := profile.ParseFile(profPath)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler o perfil %s: %w", profPath, err)
	}
	logger.Debug("Perfil lido",
		zap.Int("stacktraces", len(res.Stacktraces)),
		zap.Duration("sampling_period", res.SamplingPeriod))

	resolver, err := symbol.NewResolver(ctx, exePath, res.MappedObjects, executor, logger, symbol.Options{
		ExecutableOnly:  opts.ExecutableOnly,
		Simplify:        opts.SimplifySymbol,
		AnnotateLibname: opts.AnnotateLibname,
		NMPath:          config.Global.GetString("NM_PATH"),
		ReadelfPath:     config.Global.GetString("READELF_PATH"),
	})
	if err != nil {
		return nil, err
	}
	resolver.Annotate(res.Stacktraces)

	data := flamegraph.Collapse(res, opts.ToMicroseconds)

	if opts.TextOutput != "" {
		out, err := utils.ExpandPath(opts.TextOutput)
		if err != nil {
			return nil, err
		}
		if err := data.WriteTextFile(out); err != nil {
			return nil, err
		}
		logger.Info("Saída de texto gravada", zap.String("path", out))
	}
	if opts.SVGOutput != "" {
		out, err := utils.ExpandPath(opts.SVGOutput)
		if err != nil {
			return nil, err
		}
		if err := data.WriteSVG(out, opts.Flamegraph, executor, opts.FlamegraphArgs...); err != nil {
			return nil, err
		}
		logger.Info("Flamegraph SVG gravado", zap.String("path", out))
	}

	return &ConversionResult{
		Data:           data,
		Samples:        res.TotalSamples(),
		SamplingPeriod: res.SamplingPeriod,
		Elapsed:        time.Since(start),
	}, nil
}
