package syntax

import (
	"path/filepath"
	"sort"
)

// Language identifies which grammar and rule set apply to a file.
type Language string

const (
	LangC   Language = "c"
	LangCXX Language = "cxx"
)

// extToLanguage maps file extensions to Language. .cpp and .hpp are
// checked as C++ even though the extension itself is a violation.
var extToLanguage = map[string]Language{
	".c":   LangC,
	".h":   LangC,
	".cc":  LangCXX,
	".hh":  LangCXX,
	".hxx": LangCXX,
	".cpp": LangCXX,
	".hpp": LangCXX,
}

// FromPath resolves the language of path from its extension. ok is false
// for files that are not checked at all.
func FromPath(path string) (lang Language, ok bool) {
	lang, ok = extToLanguage[filepath.Ext(path)]
	return lang, ok
}

// Supported reports whether path has a checked extension.
func Supported(path string) bool {
	_, ok := FromPath(path)
	return ok
}

// Extensions returns every checked extension in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(extToLanguage))
	for ext := range extToLanguage {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (l Language) String() string {
	switch l {
	case LangC:
		return "C"
	case LangCXX:
		return "C++"
	default:
		return string(l)
	}
}
