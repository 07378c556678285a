package collector

import "strings"

// ValidationScope supplies the identifier rules the collector checks at
// each declaration site: reserved words, maximum length, and the API
// version gating version-specific rules (spec.md §4.3 step 2).
type ValidationScope interface {
	IsReservedWord(name string) bool
	MaxIdentifierLength() int
	APIVersion() int
}

var reservedWords = map[string]bool{
	"class": true, "interface": true, "enum": true, "trigger": true,
	"public": true, "private": true, "protected": true, "global": true,
	"static": true, "final": true, "abstract": true, "virtual": true,
	"override": true, "transient": true, "testmethod": true, "webservice": true,
	"void": true, "return": true, "new": true, "this": true, "super": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"try": true, "catch": true, "finally": true, "throw": true,
	"instanceof": true, "null": true, "true": true, "false": true,
	"extends": true, "implements": true, "insert": true, "update": true,
	"delete": true, "upsert": true, "merge": true, "undelete": true,
}

// DefaultValidationScope implements ValidationScope with the language's
// reserved-word set, a conservative identifier length cap, and a fixed API
// version. Callers needing version-gated validation construct their own
// with a different APIVersion.
type DefaultValidationScope struct {
	apiVersion int
}

// NewDefaultValidationScope returns a scope pinned to apiVersion.
func NewDefaultValidationScope(apiVersion int) *DefaultValidationScope {
	return &DefaultValidationScope{apiVersion: apiVersion}
}

func (s *DefaultValidationScope) IsReservedWord(name string) bool {
	return reservedWords[strings.ToLower(name)]
}

func (s *DefaultValidationScope) MaxIdentifierLength() int { return 255 }

func (s *DefaultValidationScope) APIVersion() int { return s.apiVersion }
