package version

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

var (
	// Essas variáveis serão preenchidas durante a compilação via ldflags
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"

	// URL para verificar a versão mais recente (GitHub API)
	LatestVersionURL = "https://api.github.com/repos/diillson/gperf2flame/releases/latest"
)

// VersionInfo retorna informações estruturadas sobre a versão atual
type VersionInfo struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// GetCurrentVersion retorna as informações de versão atuais
func GetCurrentVersion() VersionInfo {
	return VersionInfo{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}

// CheckLatestVersion verifica a versão mais recente disponível no GitHub
// Retorna a versão mais recente e um booleano indicando se há uma atualização disponível
func CheckLatestVersion() (string, bool, error) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest("GET", LatestVersionURL, nil)
	if err != nil {
		return "", false, err
	}

	// Adicionar User-Agent para evitar problemas com a API do GitHub
	req.Header.Set("User-Agent", "gperf2flame-Version-Checker")

	resp, err := client.Do(req)
	if err != nil {
		return "", false, err
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Erro ao fechar response body: %v\n", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("erro ao verificar versão: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, err
	}

	var releaseInfo struct {
		TagName string `json:"tag_name"`
	}

	if err := json.Unmarshal(body, &releaseInfo); err != nil {
		return "", false, err
	}

	// Remover 'v' do início da tag, se houver
	latestVersion := strings.TrimPrefix(releaseInfo.TagName, "v")

	// Versões de desenvolvimento sempre sugerem atualização
	if Version == "dev" || Version == "unknown" {
		return latestVersion, true, nil
	}

	return latestVersion, needsUpdate(Version, latestVersion), nil
}

// splitPreRelease separa "1.2.3-beta" em base "1.2.3" e sufixo "beta".
func splitPreRelease(version string) (string, string) {
	if i := strings.Index(version, "-"); i >= 0 {
		return version[:i], version[i+1:]
	}
	return version, ""
}

// vcsSuffixRe reconhece sufixos do git describe ("5-g1b6ecaa", "5-g1b6ecaa-dirty",
// "dirty"), que marcam builds locais de uma tag e não são pré-releases.
var vcsSuffixRe = regexp.MustCompile(`^([0-9]+-g[0-9a-f]+(-dirty)?|dirty)$`)

// parseParts extrai os três componentes semânticos (major.minor.patch),
// tratando componentes ausentes ou não numéricos como 0.
func parseParts(version string) [3]int {
	var out [3]int
	for i, p := range strings.SplitN(version, ".", 3) {
		if i >= 3 {
			break
		}
		if v, err := strconv.Atoi(p); err == nil {
			out[i] = v
		}
	}
	return out
}

// needsUpdate verifica semanticamente se a versão atual precisa ser atualizada
// comparando componente a componente (major.minor.patch) e, em caso de empate,
// os sufixos de pré-release.
func needsUpdate(currentVersion, latestVersion string) bool {
	// Tratar casos de versão vazia
	if currentVersion == "" {
		return true
	}
	// Builds de desenvolvimento não comparam semanticamente
	if currentVersion == "dev" || currentVersion == "unknown" {
		return false
	}

	cur := strings.TrimPrefix(currentVersion, "v")
	lat := strings.TrimPrefix(latestVersion, "v")

	curBase, curPre := splitPreRelease(cur)
	latBase, latPre := splitPreRelease(lat)

	// Pseudo-versões (0.0.0-data-hash) são builds de desenvolvimento
	if curBase == "0.0.0" && curPre != "" {
		return false
	}
	// Um build sujo de uma tag ("1.9.0-5-g1b6ecaa") compara como a própria tag
	if vcsSuffixRe.MatchString(curPre) {
		curPre = ""
	}

	curParts := parseParts(curBase)
	latParts := parseParts(latBase)
	for i := 0; i < 3; i++ {
		if latParts[i] > curParts[i] {
			return true // Versão mais recente é maior
		}
		if curParts[i] > latParts[i] {
			return false // Versão atual é maior
		}
	}

	// Bases iguais: decide pelos sufixos de pré-release
	switch {
	case curPre == "":
		// Estável nunca "atualiza" para um pre-release da mesma base
		return false
	case latPre == "":
		// Pre-release sobe para a versão estável
		return true
	default:
		return latPre > curPre
	}
}

// FormatVersionInfo retorna uma string formatada com as informações de versão
func FormatVersionInfo(info VersionInfo, includeLatest bool) string {
	var result strings.Builder

	// Obter informações de build de forma mais robusta
	version, commitHash, buildDate := GetBuildInfo()

	result.WriteString(fmt.Sprintf("📊 gperf2flame Versão: %s\n", version))
	result.WriteString(fmt.Sprintf("📌 Commit: %s\n", commitHash))

	if buildDate == "unknown" {
		// Se ainda não temos a data de build, usar a data de modificação do executável
		if execPath, err := os.Executable(); err == nil {
			if info, err := os.Stat(execPath); err == nil {
				modTime := info.ModTime()
				buildDate = fmt.Sprintf("%s (aproximado pela data do binário)",
					modTime.Format("2006-01-02 15:04:05"))
			}
		}
	}

	result.WriteString(fmt.Sprintf("🕒 Build: %s\n", buildDate))

	if includeLatest {
		latestVersion, hasUpdate, err := CheckLatestVersion()
		if err == nil {
			if hasUpdate {
				result.WriteString(fmt.Sprintf("\n🔔 Atualização disponível! Versão mais recente: %s\n", latestVersion))
				result.WriteString("   Execute 'go install github.com/diillson/gperf2flame@latest' para atualizar.\n")
			} else {
				result.WriteString("\n✅ Você está usando a versão mais recente.\n")
			}
		} else {
			result.WriteString(fmt.Sprintf("\n⚠️ Não foi possível verificar atualizações: %s\n", err.Error()))
		}
	}

	return result.String()
}

// GetBuildInfo obtém informações de build de forma mais robusta
func GetBuildInfo() (string, string, string) {
	version := Version
	commitHash := CommitHash
	buildDate := BuildDate

	// Se estamos usando valores padrão, tentar obter do build info
	if version == "dev" || commitHash == "unknown" || buildDate == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			// Procurar por informações do VCS nas configurações do build
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if commitHash == "unknown" && len(setting.Value) >= 8 {
						commitHash = setting.Value[:8] // Pegar apenas os primeiros 8 caracteres
					}
				case "vcs.time":
					if buildDate == "unknown" {
						// Converter para formato mais amigável
						if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
							buildDate = t.Format("2006-01-02 15:04:05")
						} else {
							buildDate = setting.Value
						}
					}
				}
			}

			// Se ainda não temos versão mas temos o módulo, usar isso
			if version == "dev" && info.Main.Version != "" {
				version = info.Main.Version
			}
		}
	}

	return version, commitHash, buildDate
}
