// Package transform implements the pipeline's transform stage (stage 9):
// per-token rewrites applied after filtering and before rendering — name
// casing, color-space conversion, and unit conversion.
package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/dtcgo/tokenpipe/internal/color"
	"github.com/dtcgo/tokenpipe/internal/parser/common"
	"github.com/dtcgo/tokenpipe/internal/tokens"
)

// Transform rewrites one token's Name and/or Value in place. Transforms
// run in the order given against an already-cloned, already-filtered
// table; they never need to defend against mutating a table another
// output still holds, since Apply clones first.
type Transform func(tok *tokens.Token) error

// Apply clones table (so the caller's copy is untouched — each output
// runs its own transform chain independently) and runs every transform
// against each surviving token in order.
func Apply(table tokens.Table, transforms ...Transform) (tokens.Table, error) {
	out := table.Clone()
	for _, tok := range out {
		for _, tr := range transforms {
			if err := tr(tok); err != nil {
				return nil, fmt.Errorf("transform failed for token %q: %w", tok.Name, err)
			}
		}
	}
	return out, nil
}

// NamingStyle selects one of strcase's case conventions for the Name
// transform.
type NamingStyle string

const (
	KebabCase      NamingStyle = "kebab"
	CamelCase      NamingStyle = "camel"
	PascalCase     NamingStyle = "pascal"
	SnakeCase      NamingStyle = "snake"
	ScreamingSnake NamingStyle = "screaming-snake"
)

// Name rewrites a token's Name by casing each dot-path segment with style
// and rejoining with separator (e.g. style=kebab, separator="-" turns
// "color.brandPrimary" into "color-brand-primary").
func Name(style NamingStyle, separator string) Transform {
	return func(tok *tokens.Token) error {
		segments := make([]string, len(tok.Path))
		for i, s := range tok.Path {
			segments[i] = caseSegment(s, style)
		}
		if len(segments) == 0 {
			segments = []string{caseSegment(tok.Name, style)}
		}
		tok.Name = strings.Join(segments, separator)
		return nil
	}
}

func caseSegment(s string, style NamingStyle) string {
	switch style {
	case KebabCase:
		return strcase.ToKebab(s)
	case CamelCase:
		return strcase.ToLowerCamel(s)
	case PascalCase:
		return strcase.ToCamel(s)
	case SnakeCase:
		return strcase.ToSnake(s)
	case ScreamingSnake:
		return strcase.ToScreamingSnake(s)
	default:
		return s
	}
}

// ColorToCSS rewrites color-typed tokens from a DTCG color value (a draft
// string or a 2025.10 structured object) into a plain CSS color string,
// so renderers that emit CSS custom properties never have to understand
// the structured color format themselves.
func ColorToCSS() Transform {
	return func(tok *tokens.Token) error {
		if tok.Type != "color" {
			return nil
		}
		parsed, err := common.ParseColorValue(tok.Value, tok.SchemaVersion)
		if err != nil {
			// Value may already have been simplified by an earlier
			// transform or isn't a recognized color shape; leave as-is
			// rather than fail the whole output over one token.
			return nil
		}
		tok.Value = color.ToCSS(parsed)
		return nil
	}
}

// pxPerRem is the browser default root font size used to convert between
// "px" and "rem" dimension tokens.
const pxPerRem = 16.0

// DimensionUnit selects the output unit for the ConvertDimensionUnit
// transform.
type DimensionUnit string

const (
	UnitPx  DimensionUnit = "px"
	UnitRem DimensionUnit = "rem"
)

// ConvertDimensionUnit rewrites dimension-typed token values between "px"
// and "rem", using pxPerRem as the conversion base. Tokens already in the
// target unit, or not of type "dimension", are left untouched.
func ConvertDimensionUnit(to DimensionUnit) Transform {
	return func(tok *tokens.Token) error {
		if tok.Type != "dimension" {
			return nil
		}
		str, ok := tok.Value.(string)
		if !ok {
			return nil
		}

		amount, unit, ok := splitDimension(str)
		if !ok || unit == string(to) {
			return nil
		}

		switch {
		case unit == string(UnitPx) && to == UnitRem:
			tok.Value = formatDimension(amount/pxPerRem, UnitRem)
		case unit == string(UnitRem) && to == UnitPx:
			tok.Value = formatDimension(amount*pxPerRem, UnitPx)
		}
		return nil
	}
}

func splitDimension(s string) (amount float64, unit string, ok bool) {
	for _, u := range []string{"px", "rem", "em", "%"} {
		if strings.HasSuffix(s, u) {
			numPart := strings.TrimSuffix(s, u)
			n, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, "", false
			}
			return n, u, true
		}
	}
	return 0, "", false
}

func formatDimension(amount float64, unit DimensionUnit) string {
	return strconv.FormatFloat(amount, 'g', -1, 64) + string(unit)
}
