// Package language classifies files into language tags by extension.
//
// The table is closed on purpose: downstream import extraction registers
// scanners per tag, and an open-ended detector would route files to scanners
// that were never written for them. Extensions missing from the table
// classify as Unknown.
package language

import (
	"path/filepath"
	"strings"
)

// Language is a classification tag for a file.
type Language string

// Unknown is the sentinel tag for extensions absent from the table.
const Unknown Language = "Unknown"

// Known language tags.
const (
	Python     Language = "Python"
	JavaScript Language = "JavaScript"
	TypeScript Language = "TypeScript"
	React      Language = "React"
	Java       Language = "Java"
	C          Language = "C"
	CPP        Language = "C++"
	CSharp     Language = "C#"
	Go         Language = "Go"
	Rust       Language = "Rust"
	Ruby       Language = "Ruby"
	PHP        Language = "PHP"
	Kotlin     Language = "Kotlin"
	Swift      Language = "Swift"
	Scala      Language = "Scala"
	Shell      Language = "Shell"
	HTML       Language = "HTML"
	CSS        Language = "CSS"
	Markdown   Language = "Markdown"
	JSON       Language = "JSON"
	YAML       Language = "YAML"
	TOML       Language = "TOML"
	XML        Language = "XML"
	SQL        Language = "SQL"
	Text       Language = "Text"
)

// extensions is the closed, lowercase extension table.
var extensions = map[string]Language{
	".py":    Python,
	".js":    JavaScript,
	".mjs":   JavaScript,
	".cjs":   JavaScript,
	".ts":    TypeScript,
	".jsx":   React,
	".tsx":   React,
	".java":  Java,
	".c":     C,
	".h":     C,
	".cpp":   CPP,
	".cc":    CPP,
	".hpp":   CPP,
	".cs":    CSharp,
	".go":    Go,
	".rs":    Rust,
	".rb":    Ruby,
	".php":   PHP,
	".kt":    Kotlin,
	".kts":   Kotlin,
	".swift": Swift,
	".scala": Scala,
	".sh":    Shell,
	".bash":  Shell,
	".html":  HTML,
	".htm":   HTML,
	".css":   CSS,
	".md":    Markdown,
	".json":  JSON,
	".yml":   YAML,
	".yaml":  YAML,
	".toml":  TOML,
	".xml":   XML,
	".sql":   SQL,
	".txt":   Text,
}

// Classify returns the language tag for the given file path based on its
// extension. The lookup is case-insensitive. Paths without a mapped
// extension return Unknown.
func Classify(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))

	lang, ok := extensions[ext]
	if !ok {
		return Unknown
	}

	return lang
}

// Known reports whether lang is a tag from the table rather than the
// Unknown sentinel.
func Known(lang Language) bool {
	return lang != Unknown && lang != ""
}
