// Package flatten implements the pipeline's token parser: it walks a
// merged permutation tree and produces a flat, dot-path-keyed tokens.Table,
// inheriting $type from the nearest enclosing group and recording each
// leaf's provenance from the resolution engine's merge.
//
// Generalizes the teacher's group-walking token extraction from
// hyphen-joined names to true dot paths and from a string-only token
// value to the Value/OriginalValue pairing the alias resolver needs.
package flatten

import (
	"sort"
	"strings"

	"github.com/dtcgo/tokenpipe/internal/parser/common"
	"github.com/dtcgo/tokenpipe/internal/schema"
	"github.com/dtcgo/tokenpipe/internal/tokens"
)

// draftGroupMarkers are the group-marker key names the draft schema used
// before 2025.10 standardized on "$root"; both conventions let a group
// path double as a token (e.g. color.brand both a group of shades and a
// default color), so the flattener recognizes either depending on version.
var draftGroupMarkers = []string{"_", "@", "DEFAULT"}

// Flatten walks tree and returns the resolved tokens.Table for one
// permutation. provenance maps a token's dot-path to the set or
// "modifier:context" label that most recently wrote it, as produced by
// mergeengine.Merge; version is stamped onto every token for components
// downstream that still need to distinguish draft string colors from
// 2025.10 structured values.
func Flatten(tree map[string]any, provenance map[string]string, version schema.SchemaVersion) tokens.Table {
	table := make(tokens.Table)
	walk(tree, nil, "", version, provenance, table)
	return table
}

func walk(node map[string]any, path []string, inheritedType string, version schema.SchemaVersion, provenance map[string]string, table tokens.Table) {
	for _, key := range sortedKeys(node) {
		child, ok := node[key].(map[string]any)
		if !ok {
			continue
		}

		if common.IsRootToken(key, version, draftGroupMarkers) {
			if _, hasValue := child["$value"]; hasValue {
				rootPath := common.GenerateRootTokenPath(path, key, version)
				tok := buildToken(child, rootPath, inheritedType, version)
				name := strings.Join(rootPath, ".")
				table[name] = tok
				stampProvenance(tok, provenance[name])
			}
			continue
		}

		if strings.HasPrefix(key, "$") {
			continue
		}

		childPath := append(append([]string(nil), path...), key)

		if _, hasValue := child["$value"]; hasValue {
			tok := buildToken(child, childPath, inheritedType, version)
			table[tok.Name] = tok
			stampProvenance(tok, provenance[tok.Name])
			continue
		}

		groupType := inheritedType
		if t, ok := child["$type"].(string); ok {
			groupType = t
		}

		walk(child, childPath, groupType, version, provenance, table)
	}
}

func buildToken(data map[string]any, path []string, inheritedType string, version schema.SchemaVersion) *tokens.Token {
	name := strings.Join(path, ".")
	value := data["$value"]

	tok := &tokens.Token{
		Name:          name,
		Path:          path,
		Type:          inheritedType,
		Value:         value,
		OriginalValue: value,
		SchemaVersion: version,
	}

	if t, ok := data["$type"].(string); ok {
		tok.Type = t
	}
	if desc, ok := data["$description"].(string); ok {
		tok.Description = desc
	}
	if dep, ok := data["$deprecated"].(bool); ok {
		tok.Deprecated = dep
	} else if msg, ok := data["$deprecated"].(string); ok {
		tok.Deprecated = true
		tok.DeprecationMessage = msg
	}
	if ext, ok := data["$extensions"].(map[string]any); ok {
		tok.Extensions = ext
	}

	return tok
}

func stampProvenance(tok *tokens.Token, label string) {
	if label == "" {
		return
	}
	if strings.Contains(label, ":") {
		tok.SourceModifier = label
	} else {
		tok.SourceSet = label
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
