/*
 * gperf2flame - gperftools CPU profile to flamegraph converter
 * Copyright (c) 2026 Edilson Freitas
 * License: MIT
 */

// Package flamegraph colapsa os stacks de um perfil no formato "folded"
// (stack;stack;stack contagem) e gera as saídas de texto e SVG. O SVG é
// delegado ao flamegraph.pl, alimentado via stdin.
package flamegraph

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/diillson/gperf2flame/profile"
	"github.com/diillson/gperf2flame/symbol"
	"github.com/diillson/gperf2flame/utils"
)

// StackCount é um stack colapsado com seu peso acumulado.
type StackCount struct {
	Stack string
	Count uint64
}

// Data agrega os stacks colapsados de um perfil, prontos para serem
// escritos em texto ou desenhados pelo flamegraph.pl.
type Data struct {
	stacks map[string]uint64
	// countName é passado ao flamegraph.pl via --countname quando o peso
	// não é o número de amostras (ex: "us" para microssegundos).
	countName string
}

// Collapse agrega os stacktraces já anotados de um perfil. Com toMicroseconds
// o peso de cada stack vira amostras × período de amostragem em µs, em vez da
// contagem crua de amostras.
func Collapse(res *profile.Result, toMicroseconds bool) *Data {
	d := &Data{stacks: make(map[string]uint64)}
	if toMicroseconds {
		d.countName = "us"
	}
	periodMicros := uint64(res.SamplingPeriod.Microseconds())

	for _, st := range res.Stacktraces {
		if len(st.Symbols) == 0 {
			continue
		}

		// Inverte o stack do profiler para deixar a função mais externa
		// em primeiro lugar
		symbols := make([]string, len(st.Symbols))
		for i, s := range st.Symbols {
			symbols[len(st.Symbols)-1-i] = s
		}
		// Folhas não resolvidas só acrescentam ruído no gráfico
		for len(symbols) > 1 && symbols[len(symbols)-1] == symbol.Unknown {
			symbols = symbols[:len(symbols)-1]
		}

		weight := st.SampleCount
		if toMicroseconds {
			weight *= periodMicros
		}
		d.stacks[strings.Join(symbols, ";")] += weight
	}

	return d
}

// Len retorna o número de stacks distintos.
func (d *Data) Len() int {
	return len(d.stacks)
}

// Sorted retorna os stacks ordenados por peso decrescente (empates por nome,
// para saída determinística).
func (d *Data) Sorted() []StackCount {
	out := make([]StackCount, 0, len(d.stacks))
	for s, c := range d.stacks {
		out = append(out, StackCount{Stack: s, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Stack < out[j].Stack
	})
	return out
}

// Top retorna os n stacks de maior peso.
func (d *Data) Top(n int) []StackCount {
	sorted := d.Sorted()
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Folded serializa os stacks no formato folded aceito pelo flamegraph.pl.
func (d *Data) Folded() []byte {
	var buf bytes.Buffer
	for _, sc := range d.Sorted() {
		fmt.Fprintf(&buf, "%s %d\n", sc.Stack, sc.Count)
	}
	return buf.Bytes()
}

// WriteText escreve a saída folded em w.
func (d *Data) WriteText(w io.Writer) error {
	_, err := w.Write(d.Folded())
	return err
}

// WriteTextFile grava a saída folded em um arquivo.
func (d *Data) WriteTextFile(path string) error {
	if err := os.WriteFile(path, d.Folded(), 0644); err != nil {
		return fmt.Errorf("erro ao gravar a saída de texto: %w", err)
	}
	return nil
}

// WriteSVG roda o script do flamegraph (flamegraph.pl) com os stacks no
// stdin e grava o SVG resultante em path.
func (d *Data) WriteSVG(path, script string, executor utils.CommandExecutor, extraArgs ...string) error {
	args := make([]string, 0, len(extraArgs)+2)
	if d.countName != "" {
		args = append(args, "--countname", d.countName)
	}
	args = append(args, extraArgs...)

	svg, err := executor.OutputWithInput(d.Folded(), script, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar %s: %w", script, err)
	}
	if err := os.WriteFile(path, svg, 0644); err != nil {
		return fmt.Errorf("erro ao gravar o SVG: %w", err)
	}
	return nil
}
