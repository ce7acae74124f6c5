// Package filter implements the pipeline's filter stage (stage 8): pure
// predicates over a permutation's resolved table, composed by the
// orchestrator per output before handing the surviving tokens to
// transforms and the renderer.
package filter

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dtcgo/tokenpipe/internal/tokens"
)

// Predicate reports whether a token should be kept. Filters never see or
// mutate other tokens — they're pure, order-independent functions of one
// token.
type Predicate func(*tokens.Token) bool

// Apply returns a new Table containing only the tokens every predicate
// accepts. The input table is left untouched.
func Apply(table tokens.Table, predicates ...Predicate) tokens.Table {
	out := make(tokens.Table)
	for name, tok := range table {
		keep := true
		for _, pred := range predicates {
			if !pred(tok) {
				keep = false
				break
			}
		}
		if keep {
			out[name] = tok
		}
	}
	return out
}

// ByType keeps tokens whose $type is one of types.
func ByType(types ...string) Predicate {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	return func(tok *tokens.Token) bool {
		return want[tok.Type]
	}
}

// ByPath compiles a doublestar glob pattern matched against the token's
// dot-path name with "." treated as the path separator (e.g.
// "color/brand/**" matches "color.brand.primary" once the name is
// slash-joined for matching purposes).
func ByPath(pattern string) (Predicate, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid path filter pattern %q", pattern)
	}
	return func(tok *tokens.Token) bool {
		slashName := toSlashPath(tok.Name)
		matched, _ := doublestar.Match(pattern, slashName)
		return matched
	}, nil
}

// IsAlias keeps tokens whose original value is still an unexpanded alias
// expression (it always is prior to stage 7, never after — this filter is
// meaningful downstream where OriginalValue survives as provenance).
func IsAlias() Predicate {
	return func(tok *tokens.Token) bool { return tok.IsAlias() }
}

// IsBase is the complement of IsAlias: tokens defined with a literal value
// rather than a reference to another token.
func IsBase() Predicate {
	return func(tok *tokens.Token) bool { return !tok.IsAlias() }
}

// figmaCompatibleTypes are the DTCG $type values that map onto one of
// Figma's four variable types (COLOR, FLOAT, STRING, BOOLEAN) without
// lossy conversion.
var figmaCompatibleTypes = map[string]bool{
	"color":      true,
	"dimension":  true,
	"number":     true,
	"fontWeight": true,
	"duration":   true,
	"string":     true,
	"boolean":    true,
}

// IsFigmaCompatible keeps tokens whose $type has a direct Figma Variables
// equivalent, for the isFigmaCompatible() filter backing the Figma
// Variables renderer.
func IsFigmaCompatible() Predicate {
	return func(tok *tokens.Token) bool { return figmaCompatibleTypes[tok.Type] }
}

func toSlashPath(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			out[i] = '/'
		} else {
			out[i] = name[i]
		}
	}
	return string(out)
}
