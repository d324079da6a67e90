// Package langdetect classifies measured files by language.
// It uses go-enry to decide whether a file reported by a coverage
// provider is expected to be source code.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// langUnknown is returned when no language matches.
const langUnknown = "unknown"

// Language returns the lower-cased language name for path, judged by
// its file name and extension only. Returns "unknown" if nothing matches.
func Language(path string) string {
	lang := detect(path)
	if lang == "" {
		return langUnknown
	}
	return strings.ToLower(lang)
}

// IsSource reports whether path names a programming-language source file.
// Only the file's own name is consulted, so the directories it lives under
// (dist/, vendor/, node_modules/) never change the answer.
func IsSource(path string) bool {
	if path == "" {
		return false
	}

	lang := detect(path)
	if lang == "" {
		return false
	}
	return enry.GetLanguageType(lang) == enry.Programming
}

// detect tries the filename first, then the extension.
func detect(path string) string {
	base := filepath.Base(path)

	if lang, safe := enry.GetLanguageByFilename(base); safe && lang != "" {
		return lang
	}
	if lang, _ := enry.GetLanguageByExtension(base); lang != "" {
		return lang
	}
	return ""
}
