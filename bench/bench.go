// Package bench contém as cargas sintéticas de CPU usadas para exercitar o
// profiler. Os corpos dos loops são o próprio workload: qualquer dependência
// ou I/O aqui distorceria o perfil que o pacote existe para produzir.
package bench

// LoopCount é o número de iterações usado pelos binários. Com 10^10 iterações
// cada função roda por alguns segundos em hardware comum, tempo suficiente
// para um profiler de amostragem coletar stacks estáveis.
const LoopCount uint64 = 10_000_000_000

// FuncA acumula somando 1 por iteração. O resultado final é sempre igual a n;
// os binários descartam o retorno, ele existe para tornar a propriedade
// verificável em teste.
func FuncA(n uint64) uint64 {
	var addNum uint64
	for i := uint64(0); i < n; i++ {
		addNum += 1
	}
	return addNum
}

// FuncB acumula com um branch por iteração: índices pares somam 2, ímpares
// subtraem 1. O underflow em aritmética sem sinal é bem definido e inofensivo.
// O condicional por iteração é proposital, para gerar um perfil de
// branch-prediction distinguível do de FuncA.
func FuncB(n uint64) uint64 {
	var res uint64
	for i := uint64(0); i < n; i++ {
		if i%2 == 0 {
			res += 2
		} else {
			res -= 1
		}
	}
	return res
}
