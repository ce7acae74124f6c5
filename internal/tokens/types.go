// Package tokens defines the resolved-token data model shared by every
// stage of the pipeline from the flattener onward.
package tokens

import (
	"regexp"
	"sort"

	"github.com/dtcgo/tokenpipe/internal/schema"
)

// aliasPattern matches a whole or embedded curly-brace alias expression.
var aliasPattern = regexp.MustCompile(`\{[^}]+\}`)

// Token is a single design token after flattening. Fields populated by
// earlier stages are preserved unchanged by later ones; see the stage
// comments below for who writes what.
type Token struct {
	// Name is the dot-joined path, e.g. "color.brand.primary". Set by the
	// flattener (Stage 6).
	Name string

	// Path is the ordered segment sequence, e.g. ["color","brand","primary"].
	// Set by the flattener; transforms must not change it.
	Path []string

	// Type is the token's $type, inherited from the nearest enclosing
	// group if not set locally. Set by the flattener; transforms must not
	// change it.
	Type string

	// Value is the token's $value. Starts as the raw (possibly aliased)
	// value after flattening; rewritten in place by the alias resolver
	// (Stage 7) and may be rewritten again by transforms (Stage 9).
	Value any

	// OriginalValue is $value exactly as it stood before alias expansion.
	// Preserved through every later stage for filters/bundlers that need
	// to tell an alias from a base value.
	OriginalValue any

	Description string
	Deprecated  bool
	// DeprecationMessage holds the string form of $deprecated when it
	// carries a message rather than a bare boolean.
	DeprecationMessage string
	Extensions         map[string]any

	// SourceSet/SourceModifier record provenance: which resolutionOrder
	// entry most recently set this leaf during the Stage 3 merge. At most
	// one of the two is non-empty. They are ordinary exported fields:
	// filter predicates and transforms see them, and nothing strips them
	// before rendering; the CSS and Tailwind renderers read SourceModifier.
	SourceSet      string
	SourceModifier string // "modifier:context" (colon-separated, not hyphenated), e.g. "theme:dark"

	// SchemaVersion is carried through for components that still need to
	// distinguish draft-era string colors from 2025.10 structured values.
	SchemaVersion schema.SchemaVersion
}

// Clone returns a copy safe for filter/transform pipelines that must not
// mutate a shared permutation's table (Stages 8-9 "produce a new table per
// output").
func (t *Token) Clone() *Token {
	clone := *t
	if t.Path != nil {
		clone.Path = append([]string(nil), t.Path...)
	}
	if t.Extensions != nil {
		clone.Extensions = make(map[string]any, len(t.Extensions))
		for k, v := range t.Extensions {
			clone.Extensions[k] = v
		}
	}
	return &clone
}

// IsAlias reports whether OriginalValue still looks like an unexpanded
// alias expression. Backs the isAlias()/isBase() built-in filters.
func (t *Token) IsAlias() bool {
	s, ok := t.OriginalValue.(string)
	if !ok {
		return false
	}
	return aliasPattern.MatchString(s)
}

// Table is the resolved tokens table for one permutation: a map keyed by
// dot-path name. Immutable after Stage 7; filters/transforms build a new
// Table rather than mutate this one in place.
type Table map[string]*Token

// Clone returns a deep-enough copy of the table, cloning every token so the
// copy can be filtered/transformed independently of the original.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for name, tok := range t {
		out[name] = tok.Clone()
	}
	return out
}

// Names returns the table's keys in sorted order. Per the data model's
// determinism invariant, nothing output-relevant may depend on map
// iteration order without first calling this.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
