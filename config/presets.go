package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Preset é um conjunto nomeado de opções de conversão, definido pelo usuário
// em ~/.gperf2flame/presets.yaml e selecionado com --preset. Flags explícitas
// na linha de comando têm prioridade sobre o preset.
type Preset struct {
	SimplifySymbol  bool     `yaml:"simplify_symbol"`
	ExecutableOnly  bool     `yaml:"executable_only"`
	AnnotateLibname bool     `yaml:"annotate_libname"`
	ToMicroseconds  bool     `yaml:"to_microseconds"`
	SVGOutput       string   `yaml:"svg_output"`
	TextOutput      string   `yaml:"text_output"`
	FlamegraphArgs  []string `yaml:"flamegraph_args"`
}

type presetsFile struct {
	Presets map[string]*Preset `yaml:"presets"`
}

// LoadPresets carrega os presets do diretório de configuração do usuário.
// Ausência do arquivo não é erro: retorna um mapa vazio.
func LoadPresets(logger *zap.Logger) (map[string]*Preset, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("não foi possível obter o diretório home: %w", err)
	}
	return LoadPresetsFrom(filepath.Join(home, ConfigDirName, PresetsFileName), logger)
}

// LoadPresetsFrom carrega os presets de um caminho específico.
func LoadPresetsFrom(path string, logger *zap.Logger) (map[string]*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Arquivo de presets não encontrado", zap.String("path", path))
			return map[string]*Preset{}, nil
		}
		return nil, fmt.Errorf("erro ao ler o arquivo de presets: %w", err)
	}

	var pf presetsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("erro ao interpretar %s: %w", path, err)
	}
	if pf.Presets == nil {
		pf.Presets = map[string]*Preset{}
	}

	logger.Debug("Presets carregados",
		zap.String("path", path),
		zap.Int("count", len(pf.Presets)))

	return pf.Presets, nil
}
