package config

import "time"

// Valores padrão para configuração da aplicação
const (
	// Ferramentas externas
	DefaultFlamegraphScript = "flamegraph.pl"
	DefaultNMPath           = "nm"
	DefaultReadelfPath      = "readelf"

	// Retry da leitura do perfil (o profiler pode estar escrevendo o arquivo)
	DefaultMaxRetries     = 5
	DefaultInitialBackoff = 200 * time.Millisecond

	// Modo watch
	DefaultWatchDebounce = 500 * time.Millisecond
	DefaultMetricsPort   = 0 // 0 desliga o endpoint de métricas

	// Logging
	DefaultLogFile    = "gperf2flame.log"
	DefaultMaxLogSize = 10 // Megabytes

	// Diretório de configuração do usuário (~/.gperf2flame)
	ConfigDirName   = ".gperf2flame"
	PresetsFileName = "presets.yaml"
)
