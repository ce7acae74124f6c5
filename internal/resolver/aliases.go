package resolver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dtcgo/tokenpipe/internal/diag"
	"github.com/dtcgo/tokenpipe/internal/parser/common"
	"github.com/dtcgo/tokenpipe/internal/schema"
	"github.com/dtcgo/tokenpipe/internal/tokens"
)

// DefaultMaxDepth bounds alias chains when ResolveAliases is called with
// maxDepth <= 0.
const DefaultMaxDepth = 10

// wholeAliasPattern matches a value that is entirely one curly-brace
// reference, e.g. "{color.brand.primary}". A reference embedded in a
// longer string (interpolation) is not an alias under this pipeline and is
// left untouched.
var wholeAliasPattern = regexp.MustCompile(`^\{([^}]+)\}$`)

// ResolveAliases expands every token's curly-brace and $ref alias in table
// in place, following chains up to maxDepth levels of indirection
// (DefaultMaxDepth if maxDepth <= 0). Property-level references inside
// composite values (typography, shadow, gradient, ...) are resolved
// per-property without flattening the surrounding object; array elements
// are resolved per-element without flattening the array.
//
// Tokens are visited in sorted-name order but each one's dependencies are
// resolved on demand and memoized, so declaration order within the table
// never affects the result.
func ResolveAliases(table tokens.Table, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	resolved := make(map[string]bool, len(table))
	resolving := make(map[string]bool)
	var stack []string
	names := table.Names()

	var resolve func(name string, depth int) error
	resolve = func(name string, depth int) error {
		if resolved[name] {
			return nil
		}
		if resolving[name] {
			cycleStart := indexOf(stack, name)
			chain := append(append([]string(nil), stack[cycleStart:]...), name)
			return schema.NewCircularReferenceError("", chain)
		}
		if depth > maxDepth {
			return fmt.Errorf("token %q: alias chain exceeds maximum depth (%d)", name, maxDepth)
		}

		tok, ok := table[name]
		if !ok {
			return schema.NewTokenReferenceError("", name, diag.Suggest(name, names, 3))
		}

		resolving[name] = true
		stack = append(stack, name)

		val, err := resolveValue(tok.OriginalValue, table, names, depth, resolve)

		stack = stack[:len(stack)-1]
		delete(resolving, name)

		if err != nil {
			return err
		}

		tok.Value = val
		resolved[name] = true
		return nil
	}

	for _, name := range names {
		if err := resolve(name, 0); err != nil {
			return err
		}
	}
	return nil
}

func resolveValue(value any, table tokens.Table, names []string, depth int, resolve func(string, int) error) (any, error) {
	switch v := value.(type) {
	case string:
		if match := wholeAliasPattern.FindStringSubmatch(v); match != nil {
			return resolveRef(match[1], table, names, depth, resolve)
		}
		return v, nil

	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			return resolvePointerRef(strings.TrimPrefix(ref, "#/"), table, names, depth, resolve)
		}

		out := make(map[string]any, len(v))
		for key, child := range v {
			resolvedChild, err := resolveValue(child, table, names, depth, resolve)
			if err != nil {
				return nil, err
			}
			out[key] = resolvedChild
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			resolvedChild, err := resolveValue(child, table, names, depth, resolve)
			if err != nil {
				return nil, err
			}
			out[i] = resolvedChild
		}
		return out, nil

	default:
		return v, nil
	}
}

func resolveRef(path string, table tokens.Table, names []string, depth int, resolve func(string, int) error) (any, error) {
	if err := resolve(path, depth+1); err != nil {
		return nil, err
	}
	refTok, ok := table[path]
	if !ok {
		return nil, schema.NewTokenReferenceError("", path, diag.Suggest(path, names, 3))
	}
	return refTok.Value, nil
}

// resolvePointerRef resolves a $ref JSON Pointer, which may name either a
// whole token ("#/color/brand") or a property inside one ("#/base/blue/
// $value/components/0"). The pointer's segments are not a table key as-is
// — only some prefix of them is, joined with dots — so the longest
// matching prefix is found first, the named token is resolved like any
// other reference, and any remaining segments are walked into its already-
// resolved value ("$value" is a structural segment and skipped, since
// table values hold $value's content directly).
func resolvePointerRef(pointer string, table tokens.Table, names []string, depth int, resolve func(string, int) error) (any, error) {
	segments := strings.Split(pointer, "/")

	for i := len(segments); i > 0; i-- {
		tokenName := common.ConvertJSONPointerToTokenPath(strings.Join(segments[:i], "/"))
		if _, ok := table[tokenName]; !ok {
			continue
		}

		if err := resolve(tokenName, depth+1); err != nil {
			return nil, err
		}

		remaining := segments[i:]
		if len(remaining) > 0 && remaining[0] == "$value" {
			remaining = remaining[1:]
		}
		return indexIntoValue(tokenName, table[tokenName].Value, remaining)
	}

	tokenPath := common.ConvertJSONPointerToTokenPath(pointer)
	return nil, schema.NewTokenReferenceError("", tokenPath, diag.Suggest(tokenPath, names, 3))
}

// indexIntoValue walks a resolved token value by a sequence of property-
// path segments: object keys for map values, numeric indices for arrays.
func indexIntoValue(tokenName string, value any, segments []string) (any, error) {
	for _, seg := range segments {
		switch v := value.(type) {
		case map[string]any:
			child, ok := v[seg]
			if !ok {
				return nil, fmt.Errorf("token %q: property path segment %q not found", tokenName, seg)
			}
			value = child

		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, fmt.Errorf("token %q: property path segment %q is not a valid array index", tokenName, seg)
			}
			value = v[idx]

		default:
			return nil, fmt.Errorf("token %q: property path segment %q cannot index into %T", tokenName, seg, value)
		}
	}
	return value, nil
}

func indexOf(haystack []string, needle string) int {
	for i, s := range haystack {
		if s == needle {
			return i
		}
	}
	return 0
}
