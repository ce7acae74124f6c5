package resolver

import (
	"fmt"
	"strings"

	"github.com/dtcgo/tokenpipe/internal/parser/common"
	"github.com/dtcgo/tokenpipe/internal/schema"
)

// ResolveTreeRefs is stage 5's reference pass: it replaces every "$ref"
// node in tree with a deep copy of the value its JSON Pointer names
// elsewhere in the same tree. Cross-file $refs are already materialized by
// stage 2's refresolve.Cache before a source document ever reaches the
// merge engine; what's left by the time merging (stage 3) and any
// preprocessor (stage 4) have run is, at most, a $ref one of those stages
// introduced pointing within the now-merged document — exactly what this
// pass re-resolves before the flattener (stage 6) walks the tree.
func ResolveTreeRefs(tree map[string]any, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return resolveTreeRefsNode(tree, tree, maxDepth, 0, nil)
}

func resolveTreeRefsNode(node, root map[string]any, maxDepth, depth int, stack []string) error {
	for key, val := range node {
		resolved, err := resolveTreeRefsValue(val, root, maxDepth, depth, stack)
		if err != nil {
			return err
		}
		node[key] = resolved
	}
	return nil
}

func resolveTreeRefsValue(val any, root map[string]any, maxDepth, depth int, stack []string) (any, error) {
	switch v := val.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			return followTreeRef(ref, root, maxDepth, depth, stack)
		}
		if err := resolveTreeRefsNode(v, root, maxDepth, depth, stack); err != nil {
			return nil, err
		}
		return v, nil

	case []any:
		for i, elem := range v {
			resolved, err := resolveTreeRefsValue(elem, root, maxDepth, depth, stack)
			if err != nil {
				return nil, err
			}
			v[i] = resolved
		}
		return v, nil

	default:
		return v, nil
	}
}

func followTreeRef(ref string, root map[string]any, maxDepth, depth int, stack []string) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("$ref chain exceeds maximum depth (%d)", maxDepth)
	}

	pointer := strings.TrimPrefix(ref, "#/")
	for _, seen := range stack {
		if seen == pointer {
			chain := append(append([]string(nil), stack...), pointer)
			return nil, schema.NewCircularReferenceError("", chain)
		}
	}

	value, ok := lookupPointer(root, pointer)
	if !ok {
		tokenPath := common.ConvertJSONPointerToTokenPath(pointer)
		return nil, schema.NewTokenReferenceError("", tokenPath, nil)
	}

	resolved := cloneValue(value)
	next, err := resolveTreeRefsValue(resolved, root, maxDepth, depth+1, append(append([]string(nil), stack...), pointer))
	if err != nil {
		return nil, err
	}
	return next, nil
}

// lookupPointer walks root by pointer's "/"-separated segments, descending
// into nested maps one key at a time.
func lookupPointer(root map[string]any, pointer string) (any, bool) {
	var cur any = root
	for _, seg := range strings.Split(pointer, "/") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
