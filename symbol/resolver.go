/*
 * gperf2flame - gperftools CPU profile to flamegraph converter
 * Copyright (c) 2026 Edilson Freitas
 * License: MIT
 */
package symbol

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/diillson/gperf2flame/profile"
	"github.com/diillson/gperf2flame/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controla como os símbolos são resolvidos e apresentados.
type Options struct {
	// ExecutableOnly resolve apenas o binário principal, ignorando as
	// bibliotecas dinâmicas mapeadas.
	ExecutableOnly bool
	// Simplify remove argumentos de template e de função dos nomes.
	Simplify bool
	// AnnotateLibname anexa " [lib.so]" aos símbolos de bibliotecas.
	AnnotateLibname bool

	// Caminhos das ferramentas binutils; vazios usam o PATH.
	NMPath      string
	ReadelfPath string
}

// MappedObject é um objeto executável mapeado no processo perfilado, com sua
// tabela de símbolos ordenada por endereço.
type MappedObject struct {
	StartAddress uint64
	EndAddress   uint64
	Offset       uint64
	Path         string
	IsExecutable bool

	symbols  []*Symbol
	addrs    []uint64
	startVMA uint64
}

// Resolver mapeia program counters para nomes de função consultando as
// tabelas de símbolos dos objetos mapeados.
type Resolver struct {
	objects  []*MappedObject
	executor utils.CommandExecutor
	logger   *zap.Logger
	opts     Options
}

var textSectionRe = regexp.MustCompile(`\.text\s+PROGBITS\s+([0-9a-f]+)\s+([0-9a-f]+)`)

// NewResolver interpreta a lista de objetos mapeados do perfil (formato de
// /proc/self/maps) e carrega as tabelas de símbolos dos objetos executáveis.
// O binário principal é identificado pelo basename e resolvido a partir de
// executablePath, que pode ser diferente do caminho gravado no perfil.
func NewResolver(ctx context.Context, executablePath, mappedObjects string, executor utils.CommandExecutor, logger *zap.Logger, opts Options) (*Resolver, error) {
	if opts.NMPath == "" {
		opts.NMPath = "nm"
	}
	if opts.ReadelfPath == "" {
		opts.ReadelfPath = "readelf"
	}

	r := &Resolver{
		executor: executor,
		logger:   logger,
		opts:     opts,
	}

	// Formato de cada linha: start-end perms offset dev inode caminho
	for _, line := range strings.Split(strings.TrimSpace(mappedObjects), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "build=") {
			continue
		}

		fields := strings.Fields(line)
		// Só interessam mapeamentos executáveis com um arquivo por trás
		if len(fields) != 6 || !strings.Contains(fields[1], "x") {
			continue
		}

		addrs := strings.SplitN(fields[0], "-", 2)
		if len(addrs) != 2 {
			continue
		}
		start, err := strconv.ParseUint(addrs[0], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(addrs[1], 16, 64)
		if err != nil {
			continue
		}
		offset, err := strconv.ParseUint(fields[2], 16, 64)
		if err != nil {
			continue
		}

		objPath := fields[5]
		isExecutable := filepath.Base(objPath) == filepath.Base(executablePath)
		if isExecutable {
			objPath = executablePath
		}
		// Só o binário principal, quando pedido
		if opts.ExecutableOnly && !isExecutable {
			continue
		}
		if info, err := os.Stat(objPath); err != nil || !info.Mode().IsRegular() {
			logger.Debug("Objeto mapeado inacessível, ignorando",
				zap.String("path", objPath))
			continue
		}

		r.objects = append(r.objects, &MappedObject{
			StartAddress: start,
			EndAddress:   end,
			Offset:       offset,
			Path:         objPath,
			IsExecutable: isExecutable,
		})
	}

	// Carrega as tabelas de símbolos em paralelo, uma goroutine por objeto
	g, gctx := errgroup.WithContext(ctx)
	for _, obj := range r.objects {
		obj := obj
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return r.loadObject(obj)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return r, nil
}

// Objects retorna os objetos mapeados considerados pelo resolvedor.
func (r *Resolver) Objects() []*MappedObject {
	return r.objects
}

// loadObject preenche a tabela de símbolos e o VMA inicial de um objeto.
func (r *Resolver) loadObject(obj *MappedObject) error {
	symbols, err := r.readSymbols(obj.Path)
	if err != nil {
		return fmt.Errorf("erro ao extrair símbolos de %s: %w", obj.Path, err)
	}
	obj.symbols = symbols
	obj.addrs = make([]uint64, len(symbols))
	for i, s := range symbols {
		obj.addrs[i] = s.Address
	}

	vma, err := r.textStartVMA(obj.Path)
	if err != nil {
		// Sem .text legível assumimos VMA zero, como em binários estáticos
		r.logger.Debug("Não foi possível determinar o VMA inicial do objeto",
			zap.String("path", obj.Path), zap.Error(err))
		vma = 0
	}
	obj.startVMA = vma

	r.logger.Debug("Tabela de símbolos carregada",
		zap.String("path", obj.Path),
		zap.Int("symbols", len(obj.symbols)))

	return nil
}

// readSymbols roda o nm sobre o objeto e retorna os símbolos definidos,
// ordenados por endereço. Para bibliotecas sem tabela estática, tenta de
// novo com -D (símbolos dinâmicos).
func (r *Resolver) readSymbols(path string) ([]*Symbol, error) {
	var out []byte
	var err error
	for _, extraArgs := range [][]string{nil, {"-D"}} {
		args := []string{"-C", "-n", "--defined-only", "--no-recurse-limit"}
		args = append(args, extraArgs...)
		args = append(args, path)
		out, err = r.executor.Output(r.opts.NMPath, args...)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(string(out)) != "" {
			break
		}
	}

	var symbols []*Symbol
	for _, line := range strings.Split(string(out), "\n") {
		addrStr, _, name, ok := splitSymbolLine(line)
		if !ok {
			continue
		}
		addr, err := strconv.ParseUint(addrStr, 16, 64)
		if err != nil {
			continue
		}
		symbols = append(symbols, &Symbol{Address: addr, Name: name})
	}

	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Address < symbols[j].Address })

	return symbols, nil
}

// splitSymbolLine separa uma linha do nm em endereço, tipo e nome. O nome é
// a terceira coluna até o fim da linha, já que símbolos C++ demanglados
// contêm espaços.
func splitSymbolLine(line string) (addr, typ, name string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return "", "", "", false
	}
	addr, typ = fields[0], fields[1]

	// Recorta o nome da linha original para preservar espaços internos
	rest := strings.TrimSpace(line)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, addr))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, typ))
	if rest == "" {
		return "", "", "", false
	}
	return addr, typ, rest, true
}

// textStartVMA usa o readelf para obter o endereço virtual inicial do objeto
// antes do link: endereço da seção .text menos seu offset no arquivo.
func (r *Resolver) textStartVMA(path string) (uint64, error) {
	out, err := r.executor.Output(r.opts.ReadelfPath, "-W", "-S", path)
	if err != nil {
		return 0, err
	}

	m := textSectionRe.FindStringSubmatch(string(out))
	if m == nil {
		return 0, fmt.Errorf("seção .text não encontrada em %s", path)
	}
	addr, err := strconv.ParseUint(m[1], 16, 64)
	if err != nil {
		return 0, err
	}
	off, err := strconv.ParseUint(m[2], 16, 64)
	if err != nil {
		return 0, err
	}

	return addr - off, nil
}

// ResolveBatch resolve um conjunto de PCs de uma vez. PCs fora de qualquer
// objeto ficam ausentes do mapa; o chamador usa Unknown para eles.
func (r *Resolver) ResolveBatch(pcs map[uint64]struct{}) map[uint64]string {
	result := make(map[uint64]string, len(pcs))
	for _, obj := range r.objects {
		for pc := range pcs {
			if pc < obj.StartAddress || pc >= obj.EndAddress {
				continue
			}
			// Endereço no espaço do objeto antes do link dinâmico
			addr := pc - obj.StartAddress + obj.Offset + obj.startVMA
			idx := sort.Search(len(obj.addrs), func(i int) bool { return obj.addrs[i] > addr }) - 1
			if idx < 0 || idx >= len(obj.symbols) {
				continue
			}
			sym := obj.symbols[idx]
			name := sym.Name
			if r.opts.Simplify {
				name = sym.Simplified()
			}
			if r.opts.AnnotateLibname && !obj.IsExecutable {
				name += fmt.Sprintf(" [%s]", filepath.Base(obj.Path))
			}
			result[pc] = name
		}
	}
	return result
}

// Annotate resolve todos os PCs do perfil de uma vez e preenche o campo
// Symbols de cada stacktrace, usando Unknown para endereços não resolvidos.
func (r *Resolver) Annotate(stacktraces []*profile.Stacktrace) {
	pcs := make(map[uint64]struct{})
	for _, st := range stacktraces {
		for _, pc := range st.PCs {
			pcs[pc] = struct{}{}
		}
	}

	resolved := r.ResolveBatch(pcs)
	for _, st := range stacktraces {
		st.Symbols = make([]string, len(st.PCs))
		for i, pc := range st.PCs {
			if name, ok := resolved[pc]; ok {
				st.Symbols[i] = name
			} else {
				st.Symbols[i] = Unknown
			}
		}
	}
}
