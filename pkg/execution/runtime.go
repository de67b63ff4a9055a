package execution

import (
	"sort"
	"strings"

	"github.com/echosyntax/echosyntax/pkg/api"
)

// Runtime is a language toolchain on the execution service.
type Runtime struct {
	// Language is the canonical tag.
	Language string

	// ID is the Judge0 language_id.
	ID int
}

// Canonical tags.
const (
	LanguagePython = "python"
	LanguageNode   = "node"
	LanguageJava   = "java"
	LanguageCPP    = "c++"
	LanguageC      = "c"
)

var runtimes = map[string]Runtime{
	LanguagePython: {Language: LanguagePython, ID: 71},
	LanguageNode:   {Language: LanguageNode, ID: 63},
	LanguageJava:   {Language: LanguageJava, ID: 62},
	LanguageCPP:    {Language: LanguageCPP, ID: 54},
	LanguageC:      {Language: LanguageC, ID: 50},
}

// aliases maps the compiler names the web client sends to canonical tags.
var aliases = map[string]string{
	"cpython-3.10.6":       LanguagePython,
	"py":                   LanguagePython,
	"nodejs-16.14.0":       LanguageNode,
	"javascript":           LanguageNode,
	"js":                   LanguageNode,
	"openjdk-jdk-17.0.3+7": LanguageJava,
	"gcc-12.1.0":           LanguageCPP,
	"cpp":                  LanguageCPP,
	"gcc-12.1.0-c":         LanguageC,
}

// LookupRuntime resolves a compiler tag. Matching ignores case and
// surrounding space. An unknown tag yields an unrecognized_language_tag
// error.
func LookupRuntime(tag string) (Runtime, error) {
	key := strings.ToLower(strings.TrimSpace(tag))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	if rt, ok := runtimes[key]; ok {
		return rt, nil
	}
	return Runtime{}, api.NewUnrecognizedLanguageError(tag)
}

// Languages returns the canonical tags, sorted.
func Languages() []string {
	langs := make([]string, 0, len(runtimes))
	for lang := range runtimes {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
