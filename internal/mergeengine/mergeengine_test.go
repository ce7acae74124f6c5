package mergeengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtcgo/tokenpipe/internal/docload"
	"github.com/dtcgo/tokenpipe/internal/mergeengine"
)

type fakeLoader map[string]map[string]any

func (f fakeLoader) Resolve(path string) (map[string]any, error) {
	doc, ok := f[path]
	if !ok {
		return nil, assert.AnError
	}
	return doc, nil
}

func testDoc(t *testing.T) *docload.Document {
	t.Helper()
	content := `{
		"sets": [{"name": "core", "values": ["core.json"]}],
		"modifiers": [
			{
				"name": "theme",
				"default": "light",
				"contexts": [
					{"name": "light", "values": ["light.json"]},
					{"name": "dark", "values": ["dark.json"]}
				]
			}
		],
		"resolutionOrder": ["core", "theme"]
	}`
	doc, err := docload.Load("resolver.json", func(string) ([]byte, error) { return []byte(content), nil })
	require.NoError(t, err)
	return doc
}

func TestEnumerate(t *testing.T) {
	perms := mergeengine.Enumerate(testDoc(t))
	require.Len(t, perms, 2)

	keys := []string{perms[0].Key, perms[1].Key}
	assert.ElementsMatch(t, []string{"light", "dark"}, keys)
}

func TestEnumerate_NoModifiers(t *testing.T) {
	content := `{"sets": [{"name": "core", "values": ["core.json"]}], "modifiers": [], "resolutionOrder": ["core"]}`
	doc, err := docload.Load("resolver.json", func(string) ([]byte, error) { return []byte(content), nil })
	require.NoError(t, err)

	perms := mergeengine.Enumerate(doc)
	require.Len(t, perms, 1)
	assert.Equal(t, "default", perms[0].Key)
}

func TestMerge_LastWinsAndProvenance(t *testing.T) {
	doc := testDoc(t)
	loader := fakeLoader{
		"core.json": map[string]any{
			"color": map[string]any{
				"brand":    map[string]any{"$type": "color", "$value": "#111111"},
				"fallback": map[string]any{"$type": "color", "$value": "#222222"},
			},
		},
		"dark.json": map[string]any{
			"color": map[string]any{
				"brand": map[string]any{"$type": "color", "$value": "#FFFFFF"},
			},
		},
	}

	perm := mergeengine.Permutation{Values: map[string]string{"theme": "dark"}, Key: "dark"}
	result, err := mergeengine.Merge(doc, perm, loader)
	require.NoError(t, err)

	color := result.Tree["color"].(map[string]any)
	brand := color["brand"].(map[string]any)
	assert.Equal(t, "#FFFFFF", brand["$value"], "dark context should win over core set")

	fallback := color["fallback"].(map[string]any)
	assert.Equal(t, "#222222", fallback["$value"], "core value survives when no override exists")

	assert.Equal(t, "theme:dark", result.Provenance["color.brand"])
	assert.Equal(t, "core", result.Provenance["color.fallback"])
}

func TestMerge_CaseInsensitiveResolutionOrderAndSetNames(t *testing.T) {
	content := `{
		"sets": [{"name": "Core", "values": ["core.json"]}],
		"modifiers": [
			{
				"name": "Theme",
				"default": "Light",
				"contexts": [
					{"name": "Light", "values": ["light.json"]},
					{"name": "Dark", "values": ["dark.json"]}
				]
			}
		],
		"resolutionOrder": ["CORE", "THEME"]
	}`
	doc, err := docload.Load("resolver.json", func(string) ([]byte, error) { return []byte(content), nil })
	require.NoError(t, err)

	perms := mergeengine.Enumerate(doc)
	require.Len(t, perms, 2)
	keys := []string{perms[0].Key, perms[1].Key}
	assert.ElementsMatch(t, []string{"light", "dark"}, keys, "permutation keys are normalized to lower-case regardless of declared casing")

	loader := fakeLoader{
		"core.json": map[string]any{"color": map[string]any{"brand": map[string]any{"$type": "color", "$value": "#111111"}}},
		"dark.json": map[string]any{"color": map[string]any{"brand": map[string]any{"$type": "color", "$value": "#FFFFFF"}}},
	}

	var dark mergeengine.Permutation
	for _, p := range perms {
		if p.Key == "dark" {
			dark = p
		}
	}
	require.NotEmpty(t, dark.Key)

	result, err := mergeengine.Merge(doc, dark, loader)
	require.NoError(t, err)
	brand := result.Tree["color"].(map[string]any)["brand"].(map[string]any)
	assert.Equal(t, "#FFFFFF", brand["$value"])
	assert.Equal(t, "theme:dark", result.Provenance["color.brand"], "provenance label is lower-cased regardless of resolutionOrder casing")
}
