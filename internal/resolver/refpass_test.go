package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtcgo/tokenpipe/internal/resolver"
)

func TestResolveTreeRefs_ReplacesRefWithTargetSubtree(t *testing.T) {
	tree := map[string]any{
		"color": map[string]any{
			"brand": map[string]any{"$type": "color", "$value": "#FF0000"},
		},
		"border": map[string]any{
			"focus": map[string]any{"$ref": "#/color/brand"},
		},
	}

	require.NoError(t, resolver.ResolveTreeRefs(tree, 0))

	focus := tree["border"].(map[string]any)["focus"].(map[string]any)
	assert.Equal(t, "#FF0000", focus["$value"])
	assert.Equal(t, "color", focus["$type"])
}

func TestResolveTreeRefs_ResolvesRefsInsideArrays(t *testing.T) {
	tree := map[string]any{
		"shadow": map[string]any{
			"base": map[string]any{"$type": "shadow", "$value": map[string]any{"blur": 2}},
		},
		"shadow2": map[string]any{
			"layered": map[string]any{
				"$type":  "shadow",
				"$value": []any{map[string]any{"$ref": "#/shadow/base/$value"}},
			},
		},
	}

	require.NoError(t, resolver.ResolveTreeRefs(tree, 0))

	layered := tree["shadow2"].(map[string]any)["layered"].(map[string]any)
	value := layered["$value"].([]any)
	require.Len(t, value, 1)
	assert.Equal(t, 2, value[0].(map[string]any)["blur"])
}

func TestResolveTreeRefs_DetectsCycle(t *testing.T) {
	tree := map[string]any{
		"a": map[string]any{"$ref": "#/b"},
		"b": map[string]any{"$ref": "#/a"},
	}

	err := resolver.ResolveTreeRefs(tree, 0)
	assert.Error(t, err)
}

func TestResolveTreeRefs_UnknownPointerErrors(t *testing.T) {
	tree := map[string]any{
		"border": map[string]any{"focus": map[string]any{"$ref": "#/color/missing"}},
	}

	err := resolver.ResolveTreeRefs(tree, 0)
	assert.Error(t, err)
}

func TestResolveTreeRefs_NoRefsIsNoop(t *testing.T) {
	tree := map[string]any{
		"color": map[string]any{"brand": map[string]any{"$type": "color", "$value": "#FF0000"}},
	}

	require.NoError(t, resolver.ResolveTreeRefs(tree, 0))
	assert.Equal(t, "#FF0000", tree["color"].(map[string]any)["brand"].(map[string]any)["$value"])
}
