// gperftest é o workload sintético apontado para o profiler externo.
// Sem argumentos, sem variáveis de ambiente, sem saída: o processo só roda
// FuncA e depois FuncB, estritamente em sequência, e termina com código 0.
// Qualquer instrumentação aqui apareceria no perfil, por isso este binário
// não usa o logger nem a configuração do restante do projeto.
package main

import "github.com/diillson/gperf2flame/bench"

func main() {
	bench.FuncA(bench.LoopCount)
	bench.FuncB(bench.LoopCount)
}
