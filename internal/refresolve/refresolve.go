// Package refresolve implements the pipeline's cross-file reference
// resolver: dereferencing $ref fields that point at other token documents
// and inlining the referenced subtree, before permutation merging begins.
//
// Loaded documents are cached and de-duplicated with singleflight so that
// many permutation tasks referencing the same shared file only read and
// parse it once, the way internal/repomap's file cache does in the crush
// codebase this is grounded on.
package refresolve

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/dtcgo/tokenpipe/internal/collections"
	"github.com/dtcgo/tokenpipe/internal/schema"
)

// maxDepth bounds $ref chains across files; exceeding it almost always
// means a cycle that HasCycle-style detection on the visited set missed
// because it spans more hops than any real resolver document should need.
const maxDepth = 32

// ReadFileFunc abstracts file I/O so the cache can be tested without a
// filesystem and reused against any VFS the orchestrator is given.
type ReadFileFunc func(path string) ([]byte, error)

// Cache loads and parses token documents once per path and resolves
// external $ref fields against them. Safe for concurrent use by one
// goroutine per permutation.
type Cache struct {
	readFile ReadFileFunc
	group    singleflight.Group

	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewCache creates a Cache backed by readFile.
func NewCache(readFile ReadFileFunc) *Cache {
	return &Cache{readFile: readFile, docs: make(map[string]map[string]any)}
}

// Resolve returns path's document tree with every external $ref
// ("other.json#/a/b", or a bare "other.json") dereferenced and inlined.
// Internal refs ("#/a/b", same document) are left untouched — those are
// token aliases, expanded later by the alias resolver against the merged,
// flattened table rather than the raw tree.
func (c *Cache) Resolve(path string) (map[string]any, error) {
	visited := collections.NewSet[string](path)
	return c.resolve(path, visited, 0)
}

func (c *Cache) resolve(path string, visited collections.Set[string], depth int) (map[string]any, error) {
	if depth > maxDepth {
		return nil, schema.NewFileOperationError("resolve", path, fmt.Errorf("maximum $ref depth (%d) exceeded", maxDepth))
	}
	doc, err := c.load(path)
	if err != nil {
		return nil, err
	}
	resolved, err := c.walk(path, doc, visited, depth)
	if err != nil {
		return nil, err
	}
	out, _ := resolved.(map[string]any)
	return out, nil
}

// load fetches path's parsed document, sharing in-flight parses across
// concurrent callers so a file referenced by several permutations is read
// exactly once.
func (c *Cache) load(path string) (map[string]any, error) {
	c.mu.RLock()
	doc, ok := c.docs[path]
	c.mu.RUnlock()
	if ok {
		return doc, nil
	}

	v, err, _ := c.group.Do(path, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.docs[path]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}
		data, err := c.readFile(path)
		if err != nil {
			return nil, schema.NewFileOperationError("read", path, err)
		}
		parsed, err := parseDocument(path, data)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.docs[path] = parsed
		c.mu.Unlock()
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

func parseDocument(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

func (c *Cache) walk(path string, node any, visited collections.Set[string], depth int) (any, error) {
	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			target, pointer, external := splitRef(ref)
			if !external {
				return v, nil
			}

			targetPath := filepath.Join(filepath.Dir(path), target)
			if visited.Has(targetPath) {
				chain := append(visited.Members(), targetPath)
				return nil, schema.NewCircularReferenceError(path, chain)
			}
			next := collections.NewSet[string](visited.Members()...)
			next.Add(targetPath)

			targetDoc, err := c.resolve(targetPath, next, depth+1)
			if err != nil {
				return nil, err
			}
			sub, err := lookupPointer(targetDoc, pointer)
			if err != nil {
				return nil, schema.NewTokenReferenceError(path, ref, nil)
			}
			return sub, nil
		}

		out := make(map[string]any, len(v))
		for key, child := range v {
			resolvedChild, err := c.walk(path, child, visited, depth)
			if err != nil {
				return nil, err
			}
			out[key] = resolvedChild
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			resolvedChild, err := c.walk(path, child, visited, depth)
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

// splitRef splits a $ref value into its file part and JSON Pointer part.
// external is true for a ref naming another file ("a.json#/b/c", or bare
// "a.json"); false for a same-document pointer ("#/b/c").
func splitRef(ref string) (target, pointer string, external bool) {
	if strings.HasPrefix(ref, "#") {
		return "", strings.TrimPrefix(ref, "#/"), false
	}
	parts := strings.SplitN(ref, "#", 2)
	target = parts[0]
	if len(parts) == 2 {
		pointer = strings.TrimPrefix(parts[1], "/")
	}
	return target, pointer, true
}

func lookupPointer(doc map[string]any, pointer string) (any, error) {
	if pointer == "" {
		return doc, nil
	}
	var cur any = doc
	for _, segment := range strings.Split(pointer, "/") {
		segment = unescapePointerSegment(segment)
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cannot descend into non-object at %q", segment)
		}
		next, ok := m[segment]
		if !ok {
			return nil, fmt.Errorf("no such path segment %q", segment)
		}
		cur = next
	}
	return cur, nil
}

func unescapePointerSegment(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	s = strings.ReplaceAll(s, "~0", "~")
	return s
}
