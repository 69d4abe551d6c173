package symbol

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/gperf2flame/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeExecutor devolve saídas enlatadas por comando, indexadas pelo último
// argumento (o caminho do objeto).
type fakeExecutor struct {
	nmOutput      map[string]string
	readelfOutput map[string]string
	calls         []string
}

func (f *fakeExecutor) Output(name string, arg ...string) ([]byte, error) {
	f.calls = append(f.calls, name)
	path := arg[len(arg)-1]
	switch name {
	case "nm":
		if out, ok := f.nmOutput[path]; ok {
			return []byte(out), nil
		}
	case "readelf":
		if out, ok := f.readelfOutput[path]; ok {
			return []byte(out), nil
		}
	}
	return nil, fmt.Errorf("comando inesperado: %s %v", name, arg)
}

func (f *fakeExecutor) OutputWithInput(input []byte, name string, arg ...string) ([]byte, error) {
	return nil, fmt.Errorf("não usado")
}

// writeFakeObject cria um arquivo regular para passar na checagem de
// existência do resolvedor.
func writeFakeObject(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte{0x7f, 'E', 'L', 'F'}, 0644))
	return path
}

func testMaps(exePath, libPath string) string {
	return fmt.Sprintf(`build=abc123
00400000-00500000 r-xp 00000000 08:02 11 %s
00600000-00601000 rw-p 00100000 08:02 11 %s
7f0000000000-7f0000100000 r-xp 00000000 08:02 22 %s
`, exePath, exePath, libPath)
}

const exeNM = `0000000000401000 T FuncA()
0000000000402000 T FuncB()
0000000000403000 T main
`

const exeReadelf = `  [13] .text             PROGBITS        0000000000401000 001000 002f00 00  AX  0   0 16
`

const libNM = `0000000000001000 T cos
0000000000002000 T sin
`

const libReadelf = `  [11] .text             PROGBITS        0000000000001000 001000 00f000 00  AX  0   0 16
`

func newTestResolver(t *testing.T, opts Options) (*Resolver, string, string) {
	t.Helper()
	dir := t.TempDir()
	exe := writeFakeObject(t, dir, "gperftest")
	lib := writeFakeObject(t, dir, "libm.so.6")

	exec := &fakeExecutor{
		nmOutput:      map[string]string{exe: exeNM, lib: libNM},
		readelfOutput: map[string]string{exe: exeReadelf, lib: libReadelf},
	}

	r, err := NewResolver(context.Background(), exe, testMaps(exe, lib), exec, zap.NewNop(), opts)
	require.NoError(t, err)
	return r, exe, lib
}

func TestNewResolverIgnoraMapeamentosNaoExecutaveis(t *testing.T) {
	r, _, _ := newTestResolver(t, Options{})
	// Linha rw-p e linha build= ficam de fora
	assert.Len(t, r.Objects(), 2)
}

func TestResolveBatch(t *testing.T) {
	r, _, _ := newTestResolver(t, Options{})

	pcs := map[uint64]struct{}{
		0x401500:       {}, // dentro de FuncA()
		0x402010:       {}, // dentro de FuncB()
		0x403000:       {}, // exatamente no início de main
		0x400500:       {}, // antes do primeiro símbolo do executável
		0x7f0000002500: {}, // dentro de sin, na libm
		0xdeadbeef0000: {}, // fora de qualquer objeto
	}

	resolved := r.ResolveBatch(pcs)
	assert.Equal(t, "FuncA()", resolved[0x401500])
	assert.Equal(t, "FuncB()", resolved[0x402010])
	assert.Equal(t, "main", resolved[0x403000])
	assert.Equal(t, "sin", resolved[0x7f0000002500])
	assert.NotContains(t, resolved, uint64(0x400500))
	assert.NotContains(t, resolved, uint64(0xdeadbeef0000))
}

func TestResolveBatchSimplify(t *testing.T) {
	r, _, _ := newTestResolver(t, Options{Simplify: true})
	resolved := r.ResolveBatch(map[uint64]struct{}{0x401500: {}})
	assert.Equal(t, "FuncA", resolved[0x401500])
}

func TestResolveBatchAnnotateLibname(t *testing.T) {
	r, _, _ := newTestResolver(t, Options{AnnotateLibname: true})
	resolved := r.ResolveBatch(map[uint64]struct{}{
		0x401500:       {},
		0x7f0000002500: {},
	})
	// O binário principal não recebe anotação, só as bibliotecas
	assert.Equal(t, "FuncA()", resolved[0x401500])
	assert.Equal(t, "sin [libm.so.6]", resolved[0x7f0000002500])
}

func TestExecutableOnly(t *testing.T) {
	r, _, _ := newTestResolver(t, Options{ExecutableOnly: true})
	require.Len(t, r.Objects(), 1)
	assert.True(t, r.Objects()[0].IsExecutable)

	resolved := r.ResolveBatch(map[uint64]struct{}{0x7f0000002500: {}})
	assert.Empty(t, resolved)
}

func TestAnnotate(t *testing.T) {
	r, _, _ := newTestResolver(t, Options{})

	stacks := []*profile.Stacktrace{
		{SampleCount: 3, PCs: []uint64{0x401500, 0x403000}},
		{SampleCount: 1, PCs: []uint64{0xdeadbeef0000, 0x403000}},
	}
	r.Annotate(stacks)

	assert.Equal(t, []string{"FuncA()", "main"}, stacks[0].Symbols)
	assert.Equal(t, []string{Unknown, "main"}, stacks[1].Symbols)
}
