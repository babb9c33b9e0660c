// Package imports extracts raw import statements from source files and
// classifies them as internal (project-local) or external (third-party).
//
// Extraction is a conservative lexical scan, not a parser: each trimmed line
// is matched against the language's statement-introducing keywords and
// call-like import expressions. Multi-line imports, aliasing, imports inside
// conditional branches, and comments or strings that merely resemble import
// syntax are out of scope; the resulting false positives and negatives are
// an accepted limitation of the approach.
package imports

import (
	"strings"

	"github.com/repolens/repolens/pkg/language"
)

// matcher describes one language's import surface forms.
type matcher struct {
	// prefixes are statement-introducing keywords matched at line start.
	prefixes []string

	// calls are call-like import expressions matched anywhere in the line.
	calls []string
}

// matchers registers the lexical import forms per language. Languages
// absent from this table yield an empty list for every file.
var matchers = map[language.Language]matcher{
	language.Python: {
		prefixes: []string{"import ", "from "},
	},
	language.Go: {
		prefixes: []string{"import "},
	},
	language.JavaScript: {
		prefixes: []string{"import "},
		calls:    []string{"require("},
	},
	language.TypeScript: {
		prefixes: []string{"import "},
		calls:    []string{"require("},
	},
	language.React: {
		prefixes: []string{"import "},
		calls:    []string{"require("},
	},
	language.Java: {
		prefixes: []string{"import "},
	},
	language.Ruby: {
		prefixes: []string{"require ", "require_relative ", "load "},
	},
	language.Rust: {
		prefixes: []string{"use ", "extern crate "},
	},
	language.PHP: {
		prefixes: []string{"use ", "require ", "require_once ", "include ", "include_once "},
		calls:    []string{"require(", "require_once(", "include(", "include_once("},
	},
}

// Supported reports whether an extractor is registered for lang.
func Supported(lang language.Language) bool {
	_, ok := matchers[lang]

	return ok
}

// Extract scans content line by line and returns every trimmed line whose
// shape matches lang's import forms, in source order. Languages without a
// registered extractor yield nil.
func Extract(lang language.Language, content string) []string {
	m, ok := matchers[lang]
	if !ok {
		return nil
	}

	var statements []string

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m.matches(trimmed) {
			statements = append(statements, trimmed)
		}
	}

	return statements
}

func (m matcher) matches(line string) bool {
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	for _, call := range m.calls {
		if strings.Contains(line, call) {
			return true
		}
	}

	return false
}
