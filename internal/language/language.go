package language

import (
	"path/filepath"
	"strings"

	scanerrors "github.com/scanmill/scanmill/pkg/shared/errors"
)

// Language identifies an analysis language understood by the engine. The
// string value is passed verbatim to "database create --language".
type Language string

const (
	Java       Language = "java"
	Python     Language = "python"
	JavaScript Language = "javascript"
	Cpp        Language = "cpp"
	CSharp     Language = "csharp"
	Go         Language = "go"
	Ruby       Language = "ruby"
)

// extToLanguage maps file extensions to engine languages. Extensions absent
// from the map never contribute to detection.
var extToLanguage = map[string]Language{
	".java": Java,
	".py":   Python,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".ts":   JavaScript,
	".tsx":  JavaScript,
	".c":    Cpp,
	".cc":   Cpp,
	".cpp":  Cpp,
	".h":    Cpp,
	".cs":   CSharp,
	".go":   Go,
	".rb":   Ruby,
}

// compiled marks languages whose databases the engine can only extract from a
// built project.
var compiled = map[Language]bool{
	Java:   true,
	Cpp:    true,
	CSharp: true,
	Go:     true,
}

// IsCompiled reports whether database extraction for the language requires
// the project to be built first.
func (l Language) IsCompiled() bool {
	return compiled[l]
}

// String returns the engine name of the language.
func (l Language) String() string {
	return string(l)
}

// Supported returns all languages the detector can classify.
func Supported() []Language {
	return []Language{Java, Python, JavaScript, Cpp, CSharp, Go, Ruby}
}

// DetectFromList picks the dominant language of a file listing by counting
// mapped extensions. Ties on the count are broken in favor of the language
// that appears first in the listing. An empty histogram is a terminal
// unsupported-input failure.
func DetectFromList(paths []string) (Language, error) {
	counts := make(map[Language]int)
	firstSeen := make(map[Language]int)

	for i, path := range paths {
		lang, ok := FromExtension(path)
		if !ok {
			continue
		}
		if _, seen := firstSeen[lang]; !seen {
			firstSeen[lang] = i
		}
		counts[lang]++
	}

	if len(counts) == 0 {
		return "", scanerrors.New(scanerrors.KindUnsupportedInput, "no supported language detected in the provided sources")
	}

	var best Language
	for lang, count := range counts {
		switch {
		case best == "":
			best = lang
		case count > counts[best]:
			best = lang
		case count == counts[best] && firstSeen[lang] < firstSeen[best]:
			best = lang
		}
	}
	return best, nil
}

// FromExtension classifies a single path by its extension. The match is
// case-insensitive.
func FromExtension(path string) (Language, bool) {
	lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// FilesFor filters a listing down to the paths whose extension maps to the
// given language, preserving order.
func FilesFor(paths []string, lang Language) []string {
	var matched []string
	for _, path := range paths {
		if candidate, ok := FromExtension(path); ok && candidate == lang {
			matched = append(matched, path)
		}
	}
	return matched
}
