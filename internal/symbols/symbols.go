// Package symbols defines the §4.C symbol-extractor contract: an
// external collaborator invoked from metadata-editing commands to scan
// a source file for its top-level declared names. sysand owns only the
// contract, not a tokenizer implementation.
package symbols

import "io"

// Position is a 1-based line/column location within a source file.
type Position struct {
	Line   int
	Column int
}

// Symbol is one top-level declared name found in a source file.
type Symbol struct {
	Name      string
	ShortName string
	At        Position
}

// ExtractError reports a scan failure at a specific source location.
type ExtractError struct {
	At  Position
	Msg string
}

func (e *ExtractError) Error() string { return e.Msg }

// Extractor is the contract an external tokenizer implements: given a
// source byte stream and a language tag ("kerml" or "sysml"), produce
// the finite ordered sequence of top-level symbol names.
type Extractor interface {
	Extract(r io.Reader, language string) ([]Symbol, error)
}

// LanguageForExt maps a source file extension to the language tag
// Extract expects, or "" if the extension is not recognised.
func LanguageForExt(ext string) string {
	switch ext {
	case ".kerml":
		return "kerml"
	case ".sysml":
		return "sysml"
	default:
		return ""
	}
}
