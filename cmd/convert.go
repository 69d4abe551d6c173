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

	"github.com/diillson/gperf2flame/config"
	"github.com/diillson/gperf2flame/utils"
	"go.uber.org/zap"
)

// ConvertOptions holds the flags for the 'convert' subcommand.
type ConvertOptions struct {
	SVGOutput       string
	TextOutput      string
	SimplifySymbol  bool
	ExecutableOnly  bool
	AnnotateLibname bool
	ToMicroseconds  bool
	Flamegraph      string
	Preset          string

	// Argumentos extras repassados ao flamegraph.pl (vindos de preset)
	FlamegraphArgs []string
}

// RunConvert executes the 'gperf2flame convert <exe> <prof>' subcommand.
func RunConvert(ctx context.Context, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	opts := &ConvertOptions{}
	fs.StringVar(&opts.SVGOutput, "svg-output", "", "The output .svg path")
	fs.StringVar(&opts.TextOutput, "text-output", "", "The output .txt path (folded stacks)")
	fs.BoolVar(&opts.SimplifySymbol, "simplify-symbol", false, "Simplify symbols, remove template args and function args")
	fs.BoolVar(&opts.ExecutableOnly, "executable-only", false, "Only resolve the executable binary")
	fs.BoolVar(&opts.AnnotateLibname, "annotate-libname", false, "Append \"[libname.so]\" to final symbols")
	fs.BoolVar(&opts.ToMicroseconds, "to-microsecond", false, "Use microsecond as the result unit")
	fs.StringVar(&opts.Flamegraph, "flamegraph", config.Global.GetString("FLAMEGRAPH_PL"), "Path to the flamegraph.pl script")
	fs.StringVar(&opts.Preset, "preset", "", "Named preset from ~/.gperf2flame/presets.yaml")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 2 {
		PrintConvertUsage()
		return fmt.Errorf("esperados 2 argumentos: o executável e o resultado do profiler")
	}
	exe, prof := fs.Arg(0), fs.Arg(1)

	if opts.Preset != "" {
		presets, err := config.LoadPresets(logger)
		if err != nil {
			return err
		}
		if err := applyPreset(fs, opts, presets, logger); err != nil {
			return err
		}
	}

	runID := utils.GenerateUUID()
	logger = logger.With(zap.String("run_id", runID))
	logger.Info("Iniciando conversão",
		zap.String("exe", exe),
		zap.String("prof", prof))

	res, err := runConversion(ctx, exe, prof, opts, utils.NewOSCommandExecutor(), logger)
	if err != nil {
		return err
	}

	// Sem flags de saída: stacks colapsados no stdout, como o script original
	if opts.SVGOutput == "" && opts.TextOutput == "" {
		if err := res.Data.WriteText(os.Stdout); err != nil {
			return fmt.Errorf("erro ao escrever no stdout: %w", err)
		}
		if utils.IsTerminal() {
			printSummary(res)
		}
	}

	logger.Info("Conversão concluída",
		zap.Uint64("samples", res.Samples),
		zap.Int("stacks", res.Data.Len()),
		zap.Duration("elapsed", res.Elapsed))

	return nil
}

// applyPreset preenche as opções a partir do preset escolhido, sem sobrepor
// flags passadas explicitamente na linha de comando.
func applyPreset(fs *flag.FlagSet, opts *ConvertOptions, presets map[string]*config.Preset, logger *zap.Logger) error {
	preset, ok := presets[opts.Preset]
	if !ok {
		return fmt.Errorf("preset %q não encontrado em ~/%s/%s", opts.Preset, config.ConfigDirName, config.PresetsFileName)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["simplify-symbol"] {
		opts.SimplifySymbol = preset.SimplifySymbol
	}
	if !set["executable-only"] {
		opts.ExecutableOnly = preset.ExecutableOnly
	}
	if !set["annotate-libname"] {
		opts.AnnotateLibname = preset.AnnotateLibname
	}
	if !set["to-microsecond"] {
		opts.ToMicroseconds = preset.ToMicroseconds
	}
	if !set["svg-output"] && preset.SVGOutput != "" {
		opts.SVGOutput = preset.SVGOutput
	}
	if !set["text-output"] && preset.TextOutput != "" {
		opts.TextOutput = preset.TextOutput
	}
	opts.FlamegraphArgs = preset.FlamegraphArgs

	logger.Debug("Preset aplicado", zap.String("preset", opts.Preset))
	return nil
}

// printSummary imprime um resumo amigável quando o stdout é um terminal.
func printSummary(res *ConversionResult) {
	fmt.Printf("\n%d amostras em %d stacks distintos (período de amostragem: %s)\n",
		res.Samples, res.Data.Len(), res.SamplingPeriod)
	fmt.Println("Top stacks:")
	for _, sc := range res.Data.Top(5) {
		fmt.Printf("  %8d  %s\n", sc.Count, sc.Stack)
	}
}

// PrintConvertUsage prints usage help for the convert subcommand.
func PrintConvertUsage() {
	fmt.Fprintln(os.Stderr, `Uso: gperf2flame convert [flags] <executável> <perfil>

Converte um resultado do CPU profiler do gperftools em flamegraph.

Flags:
  --svg-output PATH       grava o flamegraph SVG (requer flamegraph.pl)
  --text-output PATH      grava os stacks colapsados em texto
  --simplify-symbol       remove argumentos de template e de função
  --executable-only       resolve só o binário principal
  --annotate-libname      anexa [lib.so] aos símbolos de bibliotecas
  --to-microsecond        pesa os stacks em microssegundos
  --flamegraph PATH       caminho do flamegraph.pl (env FLAMEGRAPH_PL)
  --preset NOME           preset de ~/.gperf2flame/presets.yaml

Sem flags de saída os stacks colapsados vão para o stdout.`)
}
