/*
 * gperf2flame - gperftools CPU profile to flamegraph converter
 * Copyright (c) 2026 Edilson Freitas
 * License: MIT
 */

// Package symbol resolve program counters de um perfil para nomes de função,
// usando as tabelas de símbolos extraídas com nm e readelf dos objetos
// mapeados pelo processo perfilado.
package symbol

import "strings"

// Unknown é o nome usado para PCs que não caem em nenhum símbolo conhecido.
const Unknown = "???"

// Symbol representa um único símbolo (função) de um objeto, com seu endereço
// virtual antes do link dinâmico.
type Symbol struct {
	Address uint64
	Name    string

	simplified string
}

// Simplified retorna o nome do símbolo sem argumentos de template e de
// função. O resultado é memoizado, já que o mesmo símbolo costuma aparecer
// em muitos stacks.
func (s *Symbol) Simplified() string {
	if s.simplified == "" {
		s.simplified = simplifySymbol(s.Name)
	}
	return s.simplified
}

// removeMatchingBrackets remove trechos entre pares balanceados de
// delimitadores, incluindo os próprios delimitadores.
func removeMatchingBrackets(s string, begin, end rune) string {
	var b strings.Builder
	depth := 0
	for _, c := range s {
		if c == begin {
			depth++
			continue
		}
		if c == end {
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func simplifySymbol(s string) string {
	s = removeMatchingBrackets(s, '(', ')')
	s = removeMatchingBrackets(s, '[', ']')
	s = removeMatchingBrackets(s, '<', '>')
	s = strings.Trim(s, ":")
	return s
}
