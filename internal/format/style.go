package format

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// styleFS holds the built-in clang-format styles used when a project has
// no configuration of its own.
//
//go:embed styles/*.yml
var styleFS embed.FS

var styleFiles = map[syntax.Language]string{
	syntax.LangC:   "styles/c.yml",
	syntax.LangCXX: "styles/cxx.yml",
}

// configNames returns the configuration file names tried in each
// directory, most specific first.
func configNames(lang syntax.Language) []string {
	switch lang {
	case syntax.LangC:
		return []string{".clang-format-c", ".clang-format"}
	case syntax.LangCXX:
		return []string{".clang-format-cxx", ".clang-format"}
	}
	return []string{".clang-format"}
}

// FindConfig walks up from dir and returns the first clang-format
// configuration for lang, or "" when there is none.
func FindConfig(dir string, lang syntax.Language) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range configNames(lang) {
			candidate := filepath.Join(abs, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}
		abs = parent
	}
}

// Style returns the --style argument for a file: the nearest project
// configuration, or the built-in style for lang inlined as YAML.
func Style(path string, lang syntax.Language) (string, error) {
	if cfg := FindConfig(filepath.Dir(path), lang); cfg != "" {
		return "file:" + cfg, nil
	}
	return DefaultStyle(lang)
}

var defaultStyles sync.Map // syntax.Language -> string

// DefaultStyle returns the built-in style for lang as a single-line YAML
// flow mapping, the form clang-format accepts inline.
func DefaultStyle(lang syntax.Language) (string, error) {
	if s, ok := defaultStyles.Load(lang); ok {
		return s.(string), nil
	}
	name, ok := styleFiles[lang]
	if !ok {
		return "", fmt.Errorf("no built-in style for %s", lang)
	}
	data, err := styleFS.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read built-in style: %w", err)
	}
	s, err := inlineStyle(data)
	if err != nil {
		return "", fmt.Errorf("built-in style %s: %w", name, err)
	}
	defaultStyles.Store(lang, s)
	return s, nil
}

// inlineStyle re-encodes a YAML document in flow style on one line.
func inlineStyle(data []byte) (string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return "", fmt.Errorf("style is not a mapping")
	}
	root := doc.Content[0]
	setFlow(root)

	out, err := yaml.Marshal(root)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(string(out)), " "), nil
}

func setFlow(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = yaml.FlowStyle
	}
	for _, c := range n.Content {
		setFlow(c)
	}
}
