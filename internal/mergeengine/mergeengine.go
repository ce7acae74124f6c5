// Package mergeengine implements the pipeline's resolution engine: it
// enumerates every permutation of a resolver document's modifiers in
// declared dimension order, then deep-merges each permutation's sources
// with last-wins semantics, stamping which set or modifier context most
// recently touched each token leaf.
package mergeengine

import (
	"strings"

	"github.com/dtcgo/tokenpipe/internal/docload"
)

// Permutation is one combination of modifier context selections. Values
// maps modifier name to the selected context name; Key joins those
// selections in resolutionOrder position and identifies the permutation
// across the rest of the pipeline (registry keys, output file names).
type Permutation struct {
	Values map[string]string
	Key    string
}

// Enumerate returns every permutation of doc's modifiers as a Cartesian
// product of their contexts: modifiers taken in resolutionOrder position,
// each modifier's contexts in declaration order. Sets never vary and so
// don't multiply the permutation count — they're folded into every
// permutation's merge instead. A document with no modifiers yields a
// single "default" permutation.
func Enumerate(doc *docload.Document) []Permutation {
	names := doc.ModifierNames()
	if len(names) == 0 {
		return []Permutation{{Values: map[string]string{}, Key: "default"}}
	}

	var perms []Permutation
	selection := make(map[string]string, len(names))

	var build func(idx int)
	build = func(idx int) {
		if idx == len(names) {
			values := make(map[string]string, len(selection))
			for k, v := range selection {
				values[k] = v
			}
			perms = append(perms, Permutation{Values: values, Key: keyFor(names, values)})
			return
		}
		modifierName := names[idx]
		modifier, _ := doc.Modifier(modifierName)
		for _, ctx := range modifier.ContextNames() {
			selection[modifierName] = strings.ToLower(ctx)
			build(idx + 1)
		}
	}
	build(0)
	return perms
}

// keyFor joins a permutation's selected context names in dimension order.
// names and values are already normalized to lower-case by ModifierNames
// and Enumerate respectively; ToLower here is defensive, not load-bearing.
func keyFor(names []string, values map[string]string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = strings.ToLower(values[n])
	}
	return strings.Join(parts, "-")
}

// Loader resolves a token document path to its (already $ref-dereferenced)
// tree. Satisfied by *refresolve.Cache; kept as an interface here so the
// merge engine doesn't need to import refresolve just to call one method.
type Loader interface {
	Resolve(path string) (map[string]any, error)
}

// Result is one permutation's merged document tree, plus the provenance
// of every token leaf: which set or "modifier:context" last wrote it.
type Result struct {
	Tree       map[string]any
	Provenance map[string]string // dot-path -> source label
}

// Merge resolves and deep-merges every source doc's resolutionOrder
// contributes for one permutation, set sources first within each dimension
// position, modifier sources drawn from the permutation's selected
// context. Later sources win leaf-for-leaf; group nodes merge recursively.
func Merge(doc *docload.Document, perm Permutation, loader Loader) (*Result, error) {
	result := &Result{Tree: make(map[string]any), Provenance: make(map[string]string)}

	for _, dim := range doc.ResolutionOrder {
		if set, ok := setByName(doc, dim); ok {
			for _, path := range resolvePaths(doc, set.Values) {
				tree, err := loader.Resolve(path)
				if err != nil {
					return nil, err
				}
				deepMerge(result.Tree, tree, result.Provenance, dim, nil)
			}
			continue
		}

		// perm.Values is keyed by the normalized (lower-case) modifier name
		// doc.ModifierNames produces; dim is resolutionOrder's own casing,
		// which may differ, so normalize before the lookup (spec §3/§4.1).
		ctxName := perm.Values[strings.ToLower(dim)]
		sources, err := doc.ContextSources(dim, ctxName)
		if err != nil {
			return nil, err
		}
		label := strings.ToLower(dim) + ":" + ctxName
		for _, path := range sources {
			tree, err := loader.Resolve(path)
			if err != nil {
				return nil, err
			}
			deepMerge(result.Tree, tree, result.Provenance, label, nil)
		}
	}

	return result, nil
}

func setByName(doc *docload.Document, name string) (docload.Set, bool) {
	for _, s := range doc.Sets {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return docload.Set{}, false
}

// resolvePaths resolves one set's source values against BaseDir, the same
// way ContextSources does for modifier sources.
func resolvePaths(doc *docload.Document, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, joinBase(doc.BaseDir, v))
	}
	return out
}

func joinBase(baseDir, p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	if baseDir == "" || baseDir == "." {
		return p
	}
	return strings.TrimSuffix(baseDir, "/") + "/" + p
}

// isToken reports whether a tree node is a token leaf ($value present)
// rather than a group container.
func isToken(m map[string]any) bool {
	_, ok := m["$value"]
	return ok
}

func deepMerge(dst, src map[string]any, provenance map[string]string, label string, path []string) {
	for key, srcVal := range src {
		childPath := append(append([]string(nil), path...), key)

		srcMap, srcIsMap := srcVal.(map[string]any)
		if srcIsMap && !isToken(srcMap) {
			dstMap, dstIsMap := dst[key].(map[string]any)
			if !dstIsMap || isToken(dstMap) {
				dstMap = make(map[string]any)
				dst[key] = dstMap
			}
			deepMerge(dstMap, srcMap, provenance, label, childPath)
			continue
		}

		dst[key] = srcVal
		if srcIsMap {
			provenance[strings.Join(childPath, ".")] = label
		}
	}
}
