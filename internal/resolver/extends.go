package resolver

import (
	"strings"

	"github.com/dtcgo/tokenpipe/internal/parser/common"
	"github.com/dtcgo/tokenpipe/internal/schema"
)

// ResolveExtends merges $extends group inheritance into tree in place,
// 2025.10's supplement to the draft schema's lack of any group-reuse
// mechanism. A group carrying "$extends": "#/path/to/parent" inherits
// every field and child the parent has that the child doesn't already
// define itself; the child always wins on conflicts. Parents are applied
// before children that extend them, however many levels deep the
// inheritance chain runs.
func ResolveExtends(tree map[string]any) error {
	groups := make(map[string]map[string]any)
	extendsOf := make(map[string]string)
	collectGroups(tree, nil, groups, extendsOf)

	if len(extendsOf) == 0 {
		return nil
	}

	graph := NewGraph()
	for child, parent := range extendsOf {
		graph.AddEdge(child, parent)
	}
	if graph.HasCycle() {
		return schema.NewCircularReferenceError("", graph.FindCycle())
	}
	order, err := graph.TopologicalSort()
	if err != nil {
		return err
	}

	for _, path := range order {
		parentPath, ok := extendsOf[path]
		if !ok {
			continue
		}
		child := groups[path]
		parent := groups[parentPath]
		if child == nil || parent == nil {
			continue
		}
		mergeExtend(child, parent)
		delete(child, "$extends")
	}

	return nil
}

func collectGroups(node map[string]any, path []string, groups map[string]map[string]any, extendsOf map[string]string) {
	name := strings.Join(path, ".")
	if name != "" {
		groups[name] = node
	}
	if ext, ok := node["$extends"].(string); ok {
		extendsOf[name] = common.ConvertJSONPointerToTokenPath(strings.TrimPrefix(ext, "#/"))
	}

	for key, val := range node {
		if strings.HasPrefix(key, "$") {
			continue
		}
		child, ok := val.(map[string]any)
		if !ok {
			continue
		}
		collectGroups(child, append(append([]string(nil), path...), key), groups, extendsOf)
	}
}

// mergeExtend copies parent's fields and children into child wherever
// child doesn't already define them.
func mergeExtend(child, parent map[string]any) {
	for key, val := range parent {
		if key == "$extends" {
			continue
		}
		if _, exists := child[key]; exists {
			continue
		}
		child[key] = cloneValue(val)
	}
}

func cloneValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, c := range vv {
			out[k] = cloneValue(c)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, c := range vv {
			out[i] = cloneValue(c)
		}
		return out
	default:
		return v
	}
}
