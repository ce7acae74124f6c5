// Package docload implements the pipeline's first stage: loading and
// normalizing a resolver document into the sets/modifiers/resolutionOrder
// model the rest of the pipeline enumerates permutations from.
package docload

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dtcgo/tokenpipe/internal/schema"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Context is one named value a modifier can take, pointing at the token
// document(s) to layer in when that value is selected.
type Context struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// Modifier is one resolution dimension, e.g. "theme" with contexts
// "light"/"dark". Default names the context applied when a permutation
// doesn't explicitly vary this dimension.
type Modifier struct {
	Name     string    `json:"name" yaml:"name"`
	Default  string    `json:"default" yaml:"default"`
	Contexts []Context `json:"contexts" yaml:"contexts"`
}

// ContextNames returns this modifier's context names in declaration order.
func (m Modifier) ContextNames() []string {
	names := make([]string, len(m.Contexts))
	for i, c := range m.Contexts {
		names[i] = c.Name
	}
	return names
}

// Context looks up a named context, reporting whether it exists. Modifier
// and context names are compared case-insensitively throughout the
// pipeline (spec §3/§4.1), so a document whose resolutionOrder or supplied
// inputs differ in casing from the declared contexts still matches.
func (m Modifier) Context(name string) (Context, bool) {
	for _, c := range m.Contexts {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Context{}, false
}

// Set is an always-applied group of token documents, merged before any
// modifier context, in resolutionOrder position.
type Set struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// Document is a normalized resolver document: the base directory every
// relative source path is resolved against, the declared sets and
// modifiers, and the dimension order permutations are enumerated in.
type Document struct {
	Name            string     `json:"name" yaml:"name"`
	Description     string     `json:"description" yaml:"description"`
	BaseDir         string     `json:"-" yaml:"-"`
	Sets            []Set      `json:"sets" yaml:"sets"`
	Modifiers       []Modifier `json:"modifiers" yaml:"modifiers"`
	ResolutionOrder []string   `json:"resolutionOrder" yaml:"resolutionOrder"`
}

type rawDocument struct {
	Name            string     `json:"name" yaml:"name"`
	Description     string     `json:"description" yaml:"description"`
	Sets            []Set      `json:"sets" yaml:"sets"`
	Modifiers       []Modifier `json:"modifiers" yaml:"modifiers"`
	ResolutionOrder []string   `json:"resolutionOrder" yaml:"resolutionOrder"`
}

// Load reads and normalizes a resolver document from disk. YAML is used for
// ".yaml"/".yml" paths, JSONC (JSON with comments) otherwise.
func Load(path string, readFile func(string) ([]byte, error)) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, schema.NewFileOperationError("read", path, err)
	}

	baseDir := filepath.Dir(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return parseYAML(data, baseDir)
	}
	return parseJSON(data, baseDir)
}

func parseJSON(data []byte, baseDir string) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse resolver document: %w", err)
	}
	return normalize(raw, baseDir)
}

func parseYAML(data []byte, baseDir string) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse resolver document: %w", err)
	}
	return normalize(raw, baseDir)
}

func normalize(raw rawDocument, baseDir string) (*Document, error) {
	doc := &Document{
		Name:            raw.Name,
		Description:     raw.Description,
		BaseDir:         baseDir,
		Sets:            raw.Sets,
		Modifiers:       raw.Modifiers,
		ResolutionOrder: raw.ResolutionOrder,
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// validate checks that resolutionOrder names exactly the declared sets and
// modifiers, each modifier's default names a declared context, and every
// dimension name is unique across sets and modifiers. Dimension names are
// compared case-insensitively (spec §3/§4.1): "Theme" and "theme" collide
// as duplicates and either casing satisfies a resolutionOrder entry.
func (d *Document) validate() error {
	dimensionNames := make(map[string]bool)
	for _, s := range d.Sets {
		key := strings.ToLower(s.Name)
		if dimensionNames[key] {
			return schema.NewConfigurationError("resolver document", fmt.Sprintf("duplicate dimension name %q", s.Name))
		}
		dimensionNames[key] = true
	}
	for _, m := range d.Modifiers {
		key := strings.ToLower(m.Name)
		if dimensionNames[key] {
			return schema.NewConfigurationError("resolver document", fmt.Sprintf("duplicate dimension name %q", m.Name))
		}
		dimensionNames[key] = true

		if m.Default != "" {
			if _, ok := m.Context(m.Default); !ok {
				return schema.NewModifierError(m.Name, m.Default, m.ContextNames())
			}
		}
	}

	seen := make(map[string]bool, len(d.ResolutionOrder))
	for _, name := range d.ResolutionOrder {
		key := strings.ToLower(name)
		if !dimensionNames[key] {
			return schema.NewConfigurationError("resolver document", fmt.Sprintf("resolutionOrder references unknown dimension %q", name))
		}
		if seen[key] {
			return schema.NewConfigurationError("resolver document", fmt.Sprintf("resolutionOrder lists %q more than once", name))
		}
		seen[key] = true
	}
	if len(d.ResolutionOrder) != len(dimensionNames) {
		return schema.NewConfigurationError("resolver document", "resolutionOrder must name every set and modifier exactly once")
	}

	return nil
}

// ModifierNames returns the document's modifier names, normalized to
// lower-case (spec §4.1's permutation labels use the normalized form), in
// resolutionOrder position (sets are not included — they never vary across
// permutations).
func (d *Document) ModifierNames() []string {
	names := make([]string, 0, len(d.Modifiers))
	for _, dim := range d.ResolutionOrder {
		if m := d.modifierByName(dim); m != nil {
			names = append(names, strings.ToLower(m.Name))
		}
	}
	return names
}

func (d *Document) modifierByName(name string) *Modifier {
	for i := range d.Modifiers {
		if strings.EqualFold(d.Modifiers[i].Name, name) {
			return &d.Modifiers[i]
		}
	}
	return nil
}

// Modifier looks up a declared modifier by name.
func (d *Document) Modifier(name string) (Modifier, bool) {
	m := d.modifierByName(name)
	if m == nil {
		return Modifier{}, false
	}
	return *m, true
}

// SetSources returns every source path contributed by the document's sets,
// in declaration order, resolved against BaseDir.
func (d *Document) SetSources() []string {
	var out []string
	for _, s := range d.Sets {
		for _, v := range s.Values {
			out = append(out, d.resolvePath(v))
		}
	}
	return out
}

func (d *Document) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.BaseDir, p)
}

// ContextSources resolves a modifier context's source paths against BaseDir.
func (d *Document) ContextSources(modifierName, contextName string) ([]string, error) {
	m := d.modifierByName(modifierName)
	if m == nil {
		return nil, schema.NewModifierError(modifierName, "", d.ModifierNames())
	}
	c, ok := m.Context(contextName)
	if !ok {
		return nil, schema.NewModifierError(modifierName, contextName, m.ContextNames())
	}
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		out[i] = d.resolvePath(v)
	}
	return out, nil
}
