// Package preprocess implements the pipeline's optional preprocessor stage
// (stage 4): user-supplied passes over one permutation's raw merged
// document tree, run after the resolution engine's merge and before the
// reference pass and flattener see the tree.
package preprocess

import "fmt"

// Preprocessor rewrites a permutation's merged document tree in place (or
// returns a replacement tree) before flattening. A preprocessor may add,
// remove, or rewrite nodes — including introducing new "$ref"/"$extends"
// entries, since stage 5's reference pass and $extends resolution both run
// after every configured preprocessor.
type Preprocessor func(tree map[string]any) (map[string]any, error)

// Apply threads tree through every preprocessor in order, each one
// receiving the previous one's output.
func Apply(tree map[string]any, preprocessors ...Preprocessor) (map[string]any, error) {
	out := tree
	for i, p := range preprocessors {
		next, err := p(out)
		if err != nil {
			return nil, fmt.Errorf("preprocessor %d: %w", i, err)
		}
		out = next
	}
	return out, nil
}

// StripExtensionKey removes one "$extensions" entry (by key) from every
// group and token in the tree — for dropping vendor-specific metadata a
// build doesn't want carried into its outputs.
func StripExtensionKey(key string) Preprocessor {
	return func(tree map[string]any) (map[string]any, error) {
		stripExtensionKey(tree, key)
		return tree, nil
	}
}

func stripExtensionKey(node map[string]any, key string) {
	if ext, ok := node["$extensions"].(map[string]any); ok {
		delete(ext, key)
		if len(ext) == 0 {
			delete(node, "$extensions")
		}
	}
	for k, v := range node {
		if child, ok := v.(map[string]any); ok && k != "$extensions" {
			stripExtensionKey(child, key)
		}
	}
}

// InjectDescription sets a default "$description" on every token lacking
// one, taken from fallback called with the token's path; an empty string
// from fallback leaves that token without a description — e.g. backfilling
// generated documentation for tokens a design tool exported without
// descriptions.
func InjectDescription(fallback func(path []string) string) Preprocessor {
	return func(tree map[string]any) (map[string]any, error) {
		injectDescription(tree, nil, fallback)
		return tree, nil
	}
}

func injectDescription(node map[string]any, path []string, fallback func([]string) string) {
	if _, isToken := node["$value"]; isToken {
		if _, ok := node["$description"]; !ok {
			if desc := fallback(path); desc != "" {
				node["$description"] = desc
			}
		}
		return
	}
	for key, v := range node {
		if len(key) > 0 && key[0] == '$' {
			continue
		}
		if child, ok := v.(map[string]any); ok {
			injectDescription(child, append(append([]string(nil), path...), key), fallback)
		}
	}
}
