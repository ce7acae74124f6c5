package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtcgo/tokenpipe/internal/resolver"
)

func TestResolveExtends_InheritsUnoverriddenFields(t *testing.T) {
	tree := map[string]any{
		"color": map[string]any{
			"base": map[string]any{
				"light": map[string]any{"$type": "color", "$value": "#FFFFFF"},
				"dark":  map[string]any{"$type": "color", "$value": "#000000"},
			},
			"dark": map[string]any{
				"$extends": "#/color/base",
				"dark":     map[string]any{"$type": "color", "$value": "#111111"},
			},
		},
	}

	require.NoError(t, resolver.ResolveExtends(tree))

	color := tree["color"].(map[string]any)
	darkGroup := color["dark"].(map[string]any)
	_, hasExtends := darkGroup["$extends"]
	assert.False(t, hasExtends, "$extends is consumed after merge")

	inheritedLight := darkGroup["light"].(map[string]any)
	assert.Equal(t, "#FFFFFF", inheritedLight["$value"], "inherited from parent")

	overriddenDark := darkGroup["dark"].(map[string]any)
	assert.Equal(t, "#111111", overriddenDark["$value"], "child override wins over parent")
}

func TestResolveExtends_DetectsCycle(t *testing.T) {
	tree := map[string]any{
		"a": map[string]any{"$extends": "#/b"},
		"b": map[string]any{"$extends": "#/a"},
	}

	err := resolver.ResolveExtends(tree)
	assert.Error(t, err)
}

func TestResolveExtends_NoExtendsIsNoop(t *testing.T) {
	tree := map[string]any{
		"color": map[string]any{"brand": map[string]any{"$value": "#123456"}},
	}
	require.NoError(t, resolver.ResolveExtends(tree))
	color := tree["color"].(map[string]any)
	assert.Equal(t, "#123456", color["brand"].(map[string]any)["$value"])
}
