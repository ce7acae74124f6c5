// Package orchestrator wires every pipeline stage together: it loads a
// resolver document, enumerates permutations, resolves and merges each
// one in parallel, then drives the configured outputs' filter, transform,
// and render steps.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dtcgo/tokenpipe/internal/diag"
	"github.com/dtcgo/tokenpipe/internal/docload"
	"github.com/dtcgo/tokenpipe/internal/filter"
	"github.com/dtcgo/tokenpipe/internal/flatten"
	"github.com/dtcgo/tokenpipe/internal/log"
	"github.com/dtcgo/tokenpipe/internal/mergeengine"
	"github.com/dtcgo/tokenpipe/internal/preprocess"
	"github.com/dtcgo/tokenpipe/internal/refresolve"
	"github.com/dtcgo/tokenpipe/internal/render"
	"github.com/dtcgo/tokenpipe/internal/resolver"
	"github.com/dtcgo/tokenpipe/internal/schema"
	"github.com/dtcgo/tokenpipe/internal/tokens"
	"github.com/dtcgo/tokenpipe/internal/transform"
)

const defaultMaxAliasDepth = 10

// Output describes one rendered artifact: the predicates and transforms
// that narrow and rewrite a permutation's table before handing it to a
// Renderer. Renderers that need a base permutation (CSS, Tailwind) take
// it as a constructor argument when the Renderer is built.
type Output struct {
	Name       string
	Predicates []filter.Predicate
	Transforms []transform.Transform
	Render     render.Renderer
}

// Config is everything Build needs: where the resolver document lives,
// how to read files (tests substitute an in-memory reader), the schema
// version stamped onto every flattened token, and the outputs to produce.
type Config struct {
	ResolverDocumentPath string
	ReadFile             func(string) ([]byte, error)

	// SchemaVersion pins every permutation's tokens to one DTCG generation
	// (draft string colors vs. 2025.10 structured values). Left at its zero
	// value (schema.Unknown), each permutation's merged tree is inspected
	// with schema.DetectVersionWithValidation instead, the same detector
	// the teacher runs over a loaded token document, falling back to
	// schema.Draft when detection is inconclusive.
	SchemaVersion schema.SchemaVersion
	Outputs       []Output
	MaxAliasDepth int

	// Preprocessors run against every permutation's raw merged document
	// tree (stage 4), in order, before $extends/$ref re-resolution and
	// flattening see it.
	Preprocessors []preprocess.Preprocessor

	// Validation controls how a permutation's alias-resolution failure is
	// handled (spec.md §6/§7): the default (zero Hook) mode "error" aborts
	// the permutation; "warn" downgrades to a diagnostic delivered through
	// OnWarning and the permutation's table is kept pre-resolution, with
	// every token's Value reset to its raw OriginalValue (aliases left as
	// their raw reference strings); "off" does the same silently.
	Validation diag.Hook
}

// Result is the outcome of one Build: every output's rendered files,
// keyed by output name, plus the errors of outputs that failed without
// stopping the other outputs. Permutation failures are not collected
// here: the first permutation that fails ends Build with that error and
// no Result.
type Result struct {
	Files  map[string][]render.Output
	Errors []error
}

// permResult is one permutation's fully resolved table, carried from the
// parallel resolve phase into the sequential render phase.
type permResult struct {
	perm  mergeengine.Permutation
	table tokens.Table
}

// Build runs the whole pipeline: load the resolver document, resolve and
// merge every permutation concurrently (bounded by twice GOMAXPROCS, the way
// compozy's ref resolver sizes its errgroup), expand $extends and alias
// references per permutation, then run every configured output's
// filter/transform/render chain across the full permutation set.
func Build(ctx context.Context, cfg Config) (*Result, error) {
	doc, err := docload.Load(cfg.ResolverDocumentPath, cfg.ReadFile)
	if err != nil {
		return nil, fmt.Errorf("load resolver document: %w", err)
	}

	perms := mergeengine.Enumerate(doc)
	maxDepth := cfg.MaxAliasDepth
	if maxDepth == 0 {
		maxDepth = defaultMaxAliasDepth
	}

	cache := refresolve.NewCache(cfg.ReadFile)
	registry := tokens.NewRegistry()

	results := make([]permResult, len(perms))
	g, gctx := errgroup.WithContext(ctx)
	limit := runtime.GOMAXPROCS(0) * 2
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, perm := range perms {
		i, perm := i, perm
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			log.Debug("permutation %q: merge+flatten+resolve starting", perm.Key)
			table, err := resolvePermutation(doc, perm, cache, cfg.SchemaVersion, maxDepth, cfg.Validation, cfg.Preprocessors)
			if err != nil {
				return fmt.Errorf("permutation %q: %w", perm.Key, err)
			}
			if err := registry.Set(perm.Key, table); err != nil {
				return fmt.Errorf("permutation %q: %w", perm.Key, err)
			}
			log.Debug("permutation %q: resolved %d tokens", perm.Key, len(table))
			results[i] = permResult{perm: perm, table: table}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Files: make(map[string][]render.Output, len(cfg.Outputs))}
	for _, output := range cfg.Outputs {
		files, err := runOutput(output, results)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("output %q: %w", output.Name, err))
			continue
		}
		result.Files[output.Name] = files
		log.Info("output %q: wrote %d file(s)", output.Name, len(files))
	}

	for _, perm := range perms {
		registry.Release(perm.Key)
	}

	return result, nil
}

// resolvePermutation runs stages 3-7 for one permutation: merge its
// sources, run any configured preprocessors over the raw merged tree,
// expand $extends, re-resolve any $refs merging/preprocessing introduced,
// flatten to a table, then expand aliases. Every failure through stage 5
// always aborts the permutation (spec.md §7: "Errors from Stages 2-5 ...
// abort that permutation only"); an alias resolution failure is a Stage 7
// error and is handled through the validation hook instead, since it's the
// one failure spec.md singles out as recoverable ("a recoverable
// reference-resolution failure is downgraded to a warning when ... mode is
// warn").
func resolvePermutation(doc *docload.Document, perm mergeengine.Permutation, cache *refresolve.Cache, version schema.SchemaVersion, maxDepth int, validation diag.Hook, preprocessors []preprocess.Preprocessor) (tokens.Table, error) {
	merged, err := mergeengine.Merge(doc, perm, cache)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	tree, err := preprocess.Apply(merged.Tree, preprocessors...)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	merged.Tree = tree

	if err := resolver.ResolveExtends(merged.Tree); err != nil {
		return nil, fmt.Errorf("resolve $extends: %w", err)
	}

	if err := resolver.ResolveTreeRefs(merged.Tree, maxDepth); err != nil {
		return nil, fmt.Errorf("reference pass: %w", err)
	}

	effectiveVersion := version
	if effectiveVersion == schema.Unknown {
		detected, err := detectTreeVersion(perm.Key, merged.Tree)
		if err != nil {
			return nil, fmt.Errorf("schema version detection: %w", err)
		}
		effectiveVersion = detected
	}

	table := flatten.Flatten(merged.Tree, merged.Provenance, effectiveVersion)

	if err := resolver.ResolveAliases(table, maxDepth); err != nil {
		d := diag.Diagnostic{
			Message:    err.Error(),
			SourcePath: perm.Key,
			Kind:       "reference-resolution",
		}
		if validation.Handle(d) {
			return nil, fmt.Errorf("resolve aliases: %w", err)
		}
		for _, tok := range table {
			tok.Value = tok.OriginalValue
		}
	}

	return table, nil
}

// detectTreeVersion runs the schema package's duck-typing detector against
// one permutation's merged document tree (re-serialized to JSON, the shape
// DetectVersionWithValidation expects) when the build's Config didn't pin a
// SchemaVersion. Detection failures fall back to Draft rather than aborting
// the build; a genuine mixed-schema inconsistency is returned as an error
// since it means the merged sources disagree about which DTCG generation
// they follow.
func detectTreeVersion(permKey string, tree map[string]any) (schema.SchemaVersion, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return schema.Draft, nil
	}

	version, err := schema.DetectVersionWithValidation(permKey, data, nil)
	if err != nil {
		return version, err
	}
	if version == schema.Unknown {
		return schema.Draft, nil
	}
	return version, nil
}

// runOutput applies one output's filter/transform chain to every
// permutation's table, then hands the resulting set to its Renderer.
func runOutput(output Output, results []permResult) ([]render.Output, error) {
	perms := make([]render.Permutation, 0, len(results))
	for _, r := range results {
		table := filter.Apply(r.table, output.Predicates...)

		table, err := transform.Apply(table, output.Transforms...)
		if err != nil {
			return nil, err
		}

		perms = append(perms, render.Permutation{
			Key:    r.perm.Key,
			Values: r.perm.Values,
			Table:  table,
		})
	}

	if output.Render == nil {
		return nil, fmt.Errorf("output has no renderer configured")
	}
	return output.Render(perms)
}
