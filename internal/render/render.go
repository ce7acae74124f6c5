// Package render implements the pipeline's renderer stage (stage 10):
// turning a permutation's filtered, transformed token table into output
// file contents. Each Renderer is a pure function of one or more
// permutation tables; the orchestrator decides which permutations feed
// which renderer and where the result is written.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dtcgo/tokenpipe/internal/schema"
	"github.com/dtcgo/tokenpipe/internal/tokens"
)

// Output is one rendered file: its path relative to the configured
// output directory, and its contents.
type Output struct {
	Path     string
	Contents []byte
}

// Permutation pairs a resolved, filtered, transformed table with the
// dimension values that produced it, so renderers that care about
// context (CSS selectors, keyed JSON bundles) can label their output.
type Permutation struct {
	Key    string
	Values map[string]string
	Table  tokens.Table
}

// Renderer turns one or more permutations into output files. Renderers
// never mutate the tables they're given.
type Renderer func(perms []Permutation) ([]Output, error)

func sortedNames(table tokens.Table) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cssVarName(name string) string {
	return "--" + strings.ReplaceAll(name, ".", "-")
}

func formatCSSValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Selector builds the attribute selector a cascade bundler emits for one
// single-dimension deviation from base. modifier and context are the
// deviating dimension's name and the permutation's selected value for it;
// isBase and allInputs are passed through unused by the default selector
// but let a caller-supplied one vary the attribute per build (spec §4.7).
type Selector func(modifier, context string, isBase bool, allInputs map[string]string) string

func defaultSelector(modifier, context string, isBase bool, allInputs map[string]string) string {
	return fmt.Sprintf("[data-%s=%q]", modifier, context)
}

// singleDimensionDeviation reports the one modifier where perm's inputs
// differ from base's, and whether perm deviates from base in exactly that
// one dimension. A permutation deviating in more than one dimension is not
// reported (ok is false): cascade mode only emits single-dimension
// overrides, since a compound selector for every subset of deviating
// modifiers would produce selector conflicts (spec §4.7).
func singleDimensionDeviation(base, perm Permutation) (modifier, context string, ok bool) {
	for name, value := range perm.Values {
		if base.Values[name] == value {
			continue
		}
		if modifier != "" {
			return "", "", false
		}
		modifier, context = name, value
	}
	if modifier == "" {
		return "", "", false
	}
	return modifier, context, true
}

// provenanceOverride returns the tokens in table stamped with the given
// "modifier:context" source label — the set a cascade override block must
// emit, per spec §4.7 ("the tokens whose _sourceModifier matches the
// deviating modifier-context"), rather than every value that happens to
// differ from base.
func provenanceOverride(table tokens.Table, label string) tokens.Table {
	out := make(tokens.Table)
	for name, tok := range table {
		if tok.SourceModifier == label {
			out[name] = tok
		}
	}
	return out
}

// CSS renders one :root block holding base's tokens plus, for every
// permutation that deviates from base in exactly one modifier dimension, an
// override block containing only that dimension's tokens (selector built by
// selector, or the default [data-modifier="context"] attribute form if nil).
// Multi-dimension deviations are skipped (spec §4.7). base is matched by key
// against baseKey (typically the "default" permutation produced when a
// document declares no modifiers, or the first permutation in resolution
// order).
func CSS(baseKey string, selector Selector) Renderer {
	if selector == nil {
		selector = defaultSelector
	}
	return func(perms []Permutation) ([]Output, error) {
		if len(perms) == 0 {
			return nil, nil
		}

		base, err := resolveBase("css", perms, baseKey)
		if err != nil {
			return nil, err
		}

		var sb strings.Builder
		sb.WriteString(":root {\n")
		for _, name := range sortedNames(base.Table) {
			tok := base.Table[name]
			sb.WriteString(fmt.Sprintf("  %s: %s;\n", cssVarName(name), formatCSSValue(tok.Value)))
		}
		sb.WriteString("}\n")

		for _, perm := range perms {
			if perm.Key == base.Key {
				continue
			}
			modifier, context, ok := singleDimensionDeviation(*base, perm)
			if !ok {
				continue
			}
			diff := provenanceOverride(perm.Table, modifier+":"+context)
			if len(diff) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("\n%s {\n", selector(modifier, context, false, perm.Values)))
			names := make([]string, 0, len(diff))
			for name := range diff {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				sb.WriteString(fmt.Sprintf("  %s: %s;\n", cssVarName(name), formatCSSValue(diff[name].Value)))
			}
			sb.WriteString("}\n")
		}

		return []Output{{Path: "tokens.css", Contents: []byte(sb.String())}}, nil
	}
}

func findPermutation(perms []Permutation, key string) *Permutation {
	for i := range perms {
		if perms[i].Key == key {
			return &perms[i]
		}
	}
	return nil
}

// resolveBase picks the permutation a diff-based renderer treats as its
// unmodified baseline. A single-permutation build has no ambiguity and
// falls back to it regardless of baseKey; otherwise baseKey must name an
// existing permutation, since there's no other way to tell which block
// the renderer should emit unconditionally versus as an override.
func resolveBase(output string, perms []Permutation, baseKey string) (*Permutation, error) {
	if len(perms) == 1 {
		return &perms[0], nil
	}
	base := findPermutation(perms, baseKey)
	if base == nil {
		return nil, schema.NewBasePermutationError(output, fmt.Sprintf("no permutation named %q among %d candidates", baseKey, len(perms)))
	}
	return base, nil
}

// jsonBundle is the shape written by JSON and matches the shape
// stringified by JS, keyed by permutation so a single file can carry
// every resolved context (rather than one file per permutation).
type jsonBundle struct {
	Meta   bundleMeta                `json:"_meta"`
	Tokens map[string]map[string]any `json:"tokens"`
}

type bundleMeta struct {
	Permutations []string `json:"permutations"`
}

func buildBundle(perms []Permutation) jsonBundle {
	bundle := jsonBundle{Tokens: make(map[string]map[string]any, len(perms))}
	keys := make([]string, 0, len(perms))
	for _, perm := range perms {
		keys = append(keys, perm.Key)
	}
	sort.Strings(keys)
	bundle.Meta.Permutations = keys

	for _, perm := range perms {
		flat := make(map[string]any, len(perm.Table))
		for _, name := range sortedNames(perm.Table) {
			flat[name] = perm.Table[name].Value
		}
		bundle.Tokens[perm.Key] = flat
	}
	return bundle
}

// JSON renders a single tokens.json keyed by permutation, each value a
// flat dot-path -> resolved-value object.
func JSON(path string) Renderer {
	return func(perms []Permutation) ([]Output, error) {
		bundle := buildBundle(perms)
		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("render json bundle: %w", err)
		}
		return []Output{{Path: path, Contents: data}}, nil
	}
}

// JS renders the same keyed bundle as JSON, wrapped as an ES module
// default export, for build tooling that wants to import tokens
// directly rather than fetch-and-parse JSON.
func JS(path string) Renderer {
	return func(perms []Permutation) ([]Output, error) {
		bundle := buildBundle(perms)
		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("render js bundle: %w", err)
		}
		var sb strings.Builder
		sb.WriteString("export default ")
		sb.Write(data)
		sb.WriteString(";\n")
		return []Output{{Path: path, Contents: []byte(sb.String())}}, nil
	}
}

// Tailwind renders a Tailwind 4 @theme block from base's tokens plus an
// @layer base block holding each other permutation's overrides, in the
// style of a single generated theme.css: @theme carries the design
// token -> CSS variable contract, @layer base carries the
// context-specific values.
func Tailwind(baseKey string) Renderer {
	return func(perms []Permutation) ([]Output, error) {
		if len(perms) == 0 {
			return nil, nil
		}
		base, err := resolveBase("tailwind", perms, baseKey)
		if err != nil {
			return nil, err
		}

		var sb strings.Builder
		sb.WriteString("@import \"tailwindcss\";\n\n")
		sb.WriteString("@theme {\n")
		for _, name := range sortedNames(base.Table) {
			tok := base.Table[name]
			sb.WriteString(fmt.Sprintf("  %s: %s;\n", cssVarName(name), formatCSSValue(tok.Value)))
		}
		sb.WriteString("}\n")

		overrides := make([]Permutation, 0, len(perms))
		for _, perm := range perms {
			if perm.Key != base.Key {
				overrides = append(overrides, perm)
			}
		}
		if len(overrides) == 0 {
			return []Output{{Path: "theme.css", Contents: []byte(sb.String())}}, nil
		}

		sort.Slice(overrides, func(i, j int) bool { return overrides[i].Key < overrides[j].Key })
		sb.WriteString("\n@layer base {\n")
		for _, perm := range overrides {
			modifier, context, ok := singleDimensionDeviation(*base, perm)
			if !ok {
				continue
			}
			diff := provenanceOverride(perm.Table, modifier+":"+context)
			if len(diff) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s {\n", defaultSelector(modifier, context, false, perm.Values)))
			names := make([]string, 0, len(diff))
			for name := range diff {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				sb.WriteString(fmt.Sprintf("    %s: %s;\n", cssVarName(name), formatCSSValue(diff[name].Value)))
			}
			sb.WriteString("  }\n")
		}
		sb.WriteString("}\n")

		return []Output{{Path: "theme.css", Contents: []byte(sb.String())}}, nil
	}
}
