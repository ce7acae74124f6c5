package render_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtcgo/tokenpipe/internal/render"
	"github.com/dtcgo/tokenpipe/internal/tokens"
)

func samplePerms() []render.Permutation {
	return []render.Permutation{
		{
			Key:    "light",
			Values: map[string]string{"theme": "light"},
			Table: tokens.Table{
				"color.brand": {Name: "color.brand", Type: "color", Value: "#FFFFFF"},
				"size.gap":    {Name: "size.gap", Type: "dimension", Value: "4px"},
			},
		},
		{
			Key:    "dark",
			Values: map[string]string{"theme": "dark"},
			Table: tokens.Table{
				"color.brand": {Name: "color.brand", Type: "color", Value: "#000000", SourceModifier: "theme:dark"},
				"size.gap":    {Name: "size.gap", Type: "dimension", Value: "4px"},
			},
		},
	}
}

// samplePermsTwoModifiers adds a "density" modifier alongside "theme" so
// multi-dimension deviations (both modifiers away from their defaults) can
// be exercised alongside single-dimension ones.
func samplePermsTwoModifiers() []render.Permutation {
	return []render.Permutation{
		{
			Key:    "light-regular",
			Values: map[string]string{"theme": "light", "density": "regular"},
			Table: tokens.Table{
				"color.brand": {Name: "color.brand", Type: "color", Value: "#FFFFFF"},
				"size.gap":    {Name: "size.gap", Type: "dimension", Value: "4px"},
			},
		},
		{
			Key:    "dark-compact",
			Values: map[string]string{"theme": "dark", "density": "compact"},
			Table: tokens.Table{
				"color.brand": {Name: "color.brand", Type: "color", Value: "#000000", SourceModifier: "theme:dark"},
				"size.gap":    {Name: "size.gap", Type: "dimension", Value: "2px", SourceModifier: "density:compact"},
			},
		},
	}
}

func TestCSS_BaseAndOverride(t *testing.T) {
	outputs, err := render.CSS("light", nil)(samplePerms())
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	css := string(outputs[0].Contents)
	assert.Contains(t, css, ":root {")
	assert.Contains(t, css, "--color-brand: #FFFFFF;")
	assert.Contains(t, css, `[data-theme="dark"] {`)
	assert.Contains(t, css, "--color-brand: #000000;")
	assert.NotContains(t, css, `[data-theme="light"]`)
	override := css[strings.Index(css, `[data-theme="dark"]`):]
	assert.NotContains(t, override, "--size-gap", "unchanged tokens must not appear in override blocks")
}

func TestCSS_MultiDimensionDeviationSkipped(t *testing.T) {
	perms := samplePermsTwoModifiers()
	outputs, err := render.CSS("light-regular", nil)(perms)
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	css := string(outputs[0].Contents)
	assert.NotContains(t, css, "dark-compact", "a permutation deviating in both theme and density must not get an override block")
	assert.NotContains(t, css, `[data-theme="dark"]`)
}

func TestCSS_CustomSelector(t *testing.T) {
	selector := func(modifier, context string, isBase bool, allInputs map[string]string) string {
		return fmt.Sprintf(".%s-%s", modifier, context)
	}
	outputs, err := render.CSS("light", selector)(samplePerms())
	require.NoError(t, err)

	css := string(outputs[0].Contents)
	assert.Contains(t, css, ".theme-dark {")
}

func TestJSON_KeyedByPermutation(t *testing.T) {
	outputs, err := render.JSON("tokens.json")(samplePerms())
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "tokens.json", outputs[0].Path)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(outputs[0].Contents, &decoded))

	tokensByPerm := decoded["tokens"].(map[string]any)
	light := tokensByPerm["light"].(map[string]any)
	assert.Equal(t, "#FFFFFF", light["color.brand"])
}

func TestJS_WrapsAsESModuleDefault(t *testing.T) {
	outputs, err := render.JS("tokens.js")(samplePerms())
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.True(t, strings.HasPrefix(string(outputs[0].Contents), "export default "))
}

func TestTailwind_ThemeAndLayerBase(t *testing.T) {
	outputs, err := render.Tailwind("light")(samplePerms())
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	css := string(outputs[0].Contents)
	assert.Contains(t, css, "@theme {")
	assert.Contains(t, css, "@layer base {")
	assert.Contains(t, css, `[data-theme="dark"] {`)
}

func TestCSS_UnknownBaseKeyAmongMultiplePermutationsErrors(t *testing.T) {
	_, err := render.CSS("sepia", nil)(samplePerms())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sepia")
}

func TestFigma_SkipsTokensMissingFromAnyMode(t *testing.T) {
	perms := samplePerms()
	perms[1].Table = tokens.Table{
		"color.brand": perms[1].Table["color.brand"],
	}

	outputs, err := render.Figma("Tokens")(perms)
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(outputs[0].Contents, &decoded))
	vars := decoded["Tokens"]["variables"].(map[string]any)
	assert.Contains(t, vars, "color.brand")
	assert.NotContains(t, vars, "size.gap")
}
