package cmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/gperf2flame/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeExecutor devolve saídas enlatadas de nm e readelf e captura a chamada
// ao flamegraph.pl.
type fakeExecutor struct {
	nmOutput      string
	readelfOutput string
	svgInput      []byte
	svgArgs       []string
}

func (f *fakeExecutor) Output(name string, arg ...string) ([]byte, error) {
	switch name {
	case "nm":
		return []byte(f.nmOutput), nil
	case "readelf":
		return []byte(f.readelfOutput), nil
	}
	return nil, fmt.Errorf("comando inesperado: %s", name)
}

func (f *fakeExecutor) OutputWithInput(input []byte, name string, arg ...string) ([]byte, error) {
	f.svgInput = input
	f.svgArgs = arg
	return []byte("<svg/>"), nil
}

func writeSlots(buf *bytes.Buffer, slots ...uint64) {
	for _, s := range slots {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], s)
		buf.Write(b[:])
	}
}

// writeTestProfile grava um perfil sintético apontando para o executável exe.
func writeTestProfile(t *testing.T, path, exe string) {
	t.Helper()
	var buf bytes.Buffer
	writeSlots(&buf, 0, 3, 0, 10000, 0)
	// FuncA (30 amostras) e FuncB (20 amostras), ambas chamadas por main
	writeSlots(&buf, 30, 2, 0x401100, 0x403050)
	writeSlots(&buf, 20, 2, 0x402200, 0x403050)
	// Uma folha fora de qualquer objeto
	writeSlots(&buf, 2, 2, 0x999999990000, 0x403050)
	writeSlots(&buf, 0, 1, 0)
	buf.WriteString(fmt.Sprintf("00400000-00500000 r-xp 00000000 08:02 11 %s\n", exe))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

const testNM = `0000000000401000 T FuncA()
0000000000402000 T FuncB()
0000000000403000 T main
`

const testReadelf = `  [13] .text             PROGBITS        0000000000401000 001000 002f00 00  AX  0   0 16
`

func setupConvertTest(t *testing.T) (exe, prof string, exec *fakeExecutor) {
	t.Helper()
	config.Global = config.New(zap.NewNop())
	config.Global.Load()

	dir := t.TempDir()
	exe = filepath.Join(dir, "gperftest")
	require.NoError(t, os.WriteFile(exe, []byte{0x7f, 'E', 'L', 'F'}, 0755))
	prof = filepath.Join(dir, "gperftest.prof")
	writeTestProfile(t, prof, exe)

	return exe, prof, &fakeExecutor{nmOutput: testNM, readelfOutput: testReadelf}
}

func TestRunConversionTextOutput(t *testing.T) {
	exe, prof, exec := setupConvertTest(t)
	out := filepath.Join(t.TempDir(), "folded.txt")

	opts := &ConvertOptions{TextOutput: out, SimplifySymbol: true}
	res, err := runConversion(context.Background(), exe, prof, opts, exec, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, uint64(52), res.Samples)
	assert.Equal(t, 3, res.Data.Len())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	// A folha não resolvida é removida e o peso fica no frame main
	assert.Equal(t, "main;FuncA 30\nmain;FuncB 20\nmain 2\n", string(data))
}

func TestRunConversionSVGOutput(t *testing.T) {
	exe, prof, exec := setupConvertTest(t)
	out := filepath.Join(t.TempDir(), "perfil.svg")

	opts := &ConvertOptions{
		SVGOutput:      out,
		Flamegraph:     "flamegraph.pl",
		ToMicroseconds: true,
	}
	_, err := runConversion(context.Background(), exe, prof, opts, exec, zap.NewNop())
	require.NoError(t, err)

	// O flamegraph.pl recebe os stacks no stdin e a unidade em µs
	assert.Equal(t, []string{"--countname", "us"}, exec.svgArgs)
	assert.Contains(t, string(exec.svgInput), "main;FuncA() 300000\n")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

func TestRunConversionPerfilInexistente(t *testing.T) {
	exe, _, exec := setupConvertTest(t)

	_, err := runConversion(context.Background(), exe, filepath.Join(t.TempDir(), "nada.prof"), &ConvertOptions{}, exec, zap.NewNop())
	assert.Error(t, err)
}

func TestRunConvertArgumentosFaltando(t *testing.T) {
	config.Global = config.New(zap.NewNop())
	config.Global.Load()

	err := RunConvert(context.Background(), []string{}, zap.NewNop())
	assert.Error(t, err)
}

func TestApplyPreset(t *testing.T) {
	presets := map[string]*config.Preset{
		"relatorio": {
			SimplifySymbol: true,
			ToMicroseconds: true,
			SVGOutput:      "preset.svg",
			FlamegraphArgs: []string{"--width", "1600"},
		},
	}

	opts := &ConvertOptions{Preset: "relatorio"}
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.BoolVar(&opts.SimplifySymbol, "simplify-symbol", false, "")
	fs.BoolVar(&opts.ToMicroseconds, "to-microsecond", false, "")
	fs.StringVar(&opts.SVGOutput, "svg-output", "", "")
	// Flag explícita na linha de comando vence o preset
	require.NoError(t, fs.Parse([]string{"-simplify-symbol=false"}))

	require.NoError(t, applyPreset(fs, opts, presets, zap.NewNop()))

	assert.False(t, opts.SimplifySymbol)
	assert.True(t, opts.ToMicroseconds)
	assert.Equal(t, "preset.svg", opts.SVGOutput)
	assert.Equal(t, []string{"--width", "1600"}, opts.FlamegraphArgs)
}

func TestApplyPresetInexistente(t *testing.T) {
	opts := &ConvertOptions{Preset: "nao-existe"}
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	err := applyPreset(fs, opts, map[string]*config.Preset{}, zap.NewNop())
	assert.Error(t, err)
}
