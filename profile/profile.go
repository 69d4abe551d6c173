/*
 * gperf2flame - gperftools CPU profile to flamegraph converter
 * Copyright (c) 2026 Edilson Freitas
 * License: MIT
 */

// Package profile lê o resultado binário do CPU profiler do gperftools.
//
// O formato é uma sequência de slots de 64 bits little-endian: um cabeçalho
// de 5 slots (0, 3, 0, período de amostragem em µs, 0), seguido de registros
// (contagem de amostras, número de PCs, PCs...), um trailer (contagem 0 com
// exatamente 1 PC) e, por fim, o texto de /proc/self/maps do processo
// perfilado.
package profile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ErrTruncated indica que o arquivo terminou no meio de uma estrutura.
// Acontece quando o profiler ainda está escrevendo o resultado; o modo watch
// trata esse erro como temporário e tenta de novo.
var ErrTruncated = errors.New("perfil truncado ou incompleto")

// ErrInvalidHeader indica que o cabeçalho não corresponde ao formato do
// CPU profiler do gperftools.
var ErrInvalidHeader = errors.New("cabeçalho inválido, este arquivo não é um resultado válido do profiler")

// maxPCsPerRecord limita o número de PCs aceito por registro. Stacks reais
// têm dezenas de frames; um valor gigante aqui significa arquivo corrompido,
// não um call stack profundo.
const maxPCsPerRecord = 1 << 16

// Stacktrace é um registro do profiler: quantas amostras caíram neste call
// stack e os program counters do stack, do frame mais interno para o mais
// externo. Symbols é preenchido depois, pelo resolvedor de símbolos.
type Stacktrace struct {
	SampleCount uint64
	PCs         []uint64
	Symbols     []string
}

// Result é o conteúdo completo de um resultado do profiler.
type Result struct {
	SamplingPeriod time.Duration
	MappedObjects  string
	Stacktraces    []*Stacktrace
}

// TotalSamples soma as amostras de todos os stacks.
func (r *Result) TotalSamples() uint64 {
	var total uint64
	for _, st := range r.Stacktraces {
		total += st.SampleCount
	}
	return total
}

// Parse lê um resultado do profiler a partir de r.
func Parse(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)

	header, err := readSlots(br, 5)
	if err != nil {
		return nil, err
	}
	headerCount, headerSlots, version, periodMicros, padding := header[0], header[1], header[2], header[3], header[4]
	if headerCount != 0 || headerSlots != 3 || version != 0 || padding != 0 {
		return nil, ErrInvalidHeader
	}

	result := &Result{
		SamplingPeriod: time.Duration(periodMicros) * time.Microsecond,
	}

	// Registros até o trailer (contagem de amostras zero)
	for {
		rec, err := readSlots(br, 2)
		if err != nil {
			return nil, err
		}
		sampleCount, numPCs := rec[0], rec[1]

		if sampleCount == 0 {
			if numPCs != 1 {
				return nil, fmt.Errorf("trailer inválido: esperado 1 PC, lido %d: %w", numPCs, ErrTruncated)
			}
			if _, err := readSlots(br, 1); err != nil {
				return nil, err
			}
			break
		}

		if numPCs == 0 || numPCs > maxPCsPerRecord {
			return nil, fmt.Errorf("registro inválido com %d PCs", numPCs)
		}
		pcs, err := readSlots(br, int(numPCs))
		if err != nil {
			return nil, err
		}
		result.Stacktraces = append(result.Stacktraces, &Stacktrace{
			SampleCount: sampleCount,
			PCs:         pcs,
		})
	}

	// O resto do arquivo é o texto de /proc/self/maps
	maps, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler a lista de objetos mapeados: %w", err)
	}
	result.MappedObjects = string(maps)

	return result, nil
}

// ParseFile abre e lê um resultado do profiler do disco.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir o perfil: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return Parse(f)
}

// readSlots lê n slots de 64 bits little-endian. EOF no meio de uma leitura
// vira ErrTruncated.
func readSlots(r io.Reader, n int) ([]uint64, error) {
	buf := make([]byte, 8*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, fmt.Errorf("erro ao ler slots do perfil: %w", err)
	}

	slots := make([]uint64, n)
	for i := range slots {
		slots[i] = binary.LittleEndian.Uint64(buf[8*i:])
	}
	return slots, nil
}
