// Package grammar maps files to tree-sitter grammars and parses them into
// syntax trees through a pluggable backend.
package grammar

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Language is a grammar identifier.
type Language string

const (
	Bash       Language = "bash"
	C          Language = "c"
	Cpp        Language = "cpp"
	CSS        Language = "css"
	Dockerfile Language = "dockerfile"
	Go         Language = "go"
	HCL        Language = "hcl"
	HTML       Language = "html"
	Java       Language = "java"
	JavaScript Language = "javascript"
	Lua        Language = "lua"
	PHP        Language = "php"
	Protobuf   Language = "protobuf"
	Python     Language = "python"
	Ruby       Language = "ruby"
	Rust       Language = "rust"
	TOML       Language = "toml"
	TSX        Language = "tsx"
	TypeScript Language = "typescript"
	YAML       Language = "yaml"
)

// ErrLanguageNotDetected is returned when neither a file's name nor its
// extension maps to a known grammar.
var ErrLanguageNotDetected = errors.New("language not detected")

// extToLanguage maps lower-cased file extensions to grammars.
var extToLanguage = map[string]Language{
	".go":    Go,
	".java":  Java,
	".js":    JavaScript,
	".mjs":   JavaScript,
	".cjs":   JavaScript,
	".jsx":   JavaScript,
	".ts":    TypeScript,
	".mts":   TypeScript,
	".tsx":   TSX,
	".rs":    Rust,
	".py":    Python,
	".pyi":   Python,
	".bzl":   Python,
	".star":  Python,
	".c":     C,
	".h":     C,
	".cpp":   Cpp,
	".cc":    Cpp,
	".cxx":   Cpp,
	".hpp":   Cpp,
	".hh":    Cpp,
	".php":   PHP,
	".rb":    Ruby,
	".sh":    Bash,
	".bash":  Bash,
	".css":   CSS,
	".html":  HTML,
	".htm":   HTML,
	".lua":   Lua,
	".yaml":  YAML,
	".yml":   YAML,
	".toml":  TOML,
	".proto": Protobuf,
	".hcl":   HCL,
	".tf":    HCL,
}

// nameToLanguage maps exact file names to grammars. It is consulted before
// the extension table so that e.g. BUILD.bazel is not treated as ".bazel".
// Bazel build files are Starlark, which the Python grammar parses.
var nameToLanguage = map[string]Language{
	"BUILD":           Python,
	"BUILD.bazel":     Python,
	"WORKSPACE":       Python,
	"WORKSPACE.bazel": Python,
	"MODULE.bazel":    Python,
	"Dockerfile":      Dockerfile,
	"Containerfile":   Dockerfile,
	"Gemfile":         Ruby,
	"Rakefile":        Ruby,
}

// Detect returns the grammar for path based on its file name or extension.
// Extension matching is case-insensitive; file name matching is exact.
func Detect(path string) (Language, error) {
	base := filepath.Base(path)
	if lang, ok := nameToLanguage[base]; ok {
		return lang, nil
	}
	if lang, ok := extToLanguage[strings.ToLower(filepath.Ext(base))]; ok {
		return lang, nil
	}
	return "", fmt.Errorf("%w for %s", ErrLanguageNotDetected, path)
}

// Rule is one entry of the detection table.
type Rule struct {
	Pattern  string
	Language Language
	ByName   bool
}

// Rules returns the detection table sorted by language, then pattern.
func Rules() []Rule {
	rules := make([]Rule, 0, len(extToLanguage)+len(nameToLanguage))
	for name, lang := range nameToLanguage {
		rules = append(rules, Rule{Pattern: name, Language: lang, ByName: true})
	}
	for ext, lang := range extToLanguage {
		rules = append(rules, Rule{Pattern: "*" + ext, Language: lang})
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Language != rules[j].Language {
			return rules[i].Language < rules[j].Language
		}
		return rules[i].Pattern < rules[j].Pattern
	})
	return rules
}

// AllLanguages returns every grammar known to the detection table.
func AllLanguages() []Language {
	return []Language{
		Bash, C, Cpp, CSS, Dockerfile, Go, HCL, HTML, Java, JavaScript,
		Lua, PHP, Protobuf, Python, Ruby, Rust, TOML, TSX, TypeScript, YAML,
	}
}
