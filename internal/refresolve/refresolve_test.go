package refresolve_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtcgo/tokenpipe/internal/refresolve"
)

func filesReader(files map[string]string, reads *int32) refresolve.ReadFileFunc {
	return func(path string) ([]byte, error) {
		if reads != nil {
			atomic.AddInt32(reads, 1)
		}
		content, ok := files[path]
		if !ok {
			return nil, assert.AnError
		}
		return []byte(content), nil
	}
}

func TestResolve_ExternalRef(t *testing.T) {
	files := map[string]string{
		"tokens/base.json": `{"color": {"brand": {"$type": "color", "$value": "#FF0000"}}}`,
		"tokens/theme.json": `{
			"semantic": {
				"primary": {"$ref": "base.json#/color/brand"}
			}
		}`,
	}

	cache := refresolve.NewCache(filesReader(files, nil))
	doc, err := cache.Resolve("tokens/theme.json")
	require.NoError(t, err)

	semantic := doc["semantic"].(map[string]any)
	primary := semantic["primary"].(map[string]any)
	assert.Equal(t, "color", primary["$type"])
	assert.Equal(t, "#FF0000", primary["$value"])
}

func TestResolve_InternalRefLeftAlone(t *testing.T) {
	files := map[string]string{
		"tokens.json": `{
			"color": {
				"brand": {"$type": "color", "$value": "#FF0000"},
				"primary": {"$ref": "#/color/brand"}
			}
		}`,
	}

	cache := refresolve.NewCache(filesReader(files, nil))
	doc, err := cache.Resolve("tokens.json")
	require.NoError(t, err)

	color := doc["color"].(map[string]any)
	primary := color["primary"].(map[string]any)
	assert.Equal(t, "#/color/brand", primary["$ref"])
}

func TestResolve_CircularReference(t *testing.T) {
	files := map[string]string{
		"a.json": `{"link": {"$ref": "b.json#/link"}}`,
		"b.json": `{"link": {"$ref": "a.json#/link"}}`,
	}

	cache := refresolve.NewCache(filesReader(files, nil))
	_, err := cache.Resolve("a.json")
	assert.Error(t, err)
}

func TestResolve_SharedFileReadOnce(t *testing.T) {
	var reads int32
	files := map[string]string{
		"shared.json": `{"color": {"brand": {"$type": "color", "$value": "#00FF00"}}}`,
		"a.json":      `{"x": {"$ref": "shared.json#/color/brand"}}`,
		"b.json":      `{"y": {"$ref": "shared.json#/color/brand"}}`,
	}

	cache := refresolve.NewCache(filesReader(files, &reads))

	var wg sync.WaitGroup
	for _, path := range []string{"a.json", "b.json", "a.json", "b.json"} {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			_, err := cache.Resolve(p)
			assert.NoError(t, err)
		}(path)
	}
	wg.Wait()

	// shared.json is read at most once per distinct path despite four
	// concurrent resolutions across two documents that both reference it.
	assert.LessOrEqual(t, atomic.LoadInt32(&reads), int32(3))
}
