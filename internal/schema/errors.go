package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for error type checking
var (
	// ErrSchemaDetectionFailed indicates schema version could not be determined
	ErrSchemaDetectionFailed = errors.New("schema version detection failed")

	// ErrInvalidSchema indicates the schema is not valid or recognized
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrMixedSchemaFeatures indicates file contains features from multiple schema versions
	ErrMixedSchemaFeatures = errors.New("mixed schema features")

	// ErrConflictingRootTokens indicates both $root and groupMarkers are present
	ErrConflictingRootTokens = errors.New("conflicting root tokens")

	// ErrInvalidColorFormat indicates color value format doesn't match schema version
	ErrInvalidColorFormat = errors.New("invalid color format for schema")

	// ErrCircularReference indicates a circular reference was detected
	ErrCircularReference = errors.New("circular reference detected")

	// ErrTokenReference indicates a $ref or alias could not be resolved
	ErrTokenReference = errors.New("unresolved token reference")

	// ErrModifier indicates an unknown modifier name or context value
	ErrModifier = errors.New("unknown modifier or context")

	// ErrValidation indicates a resolver/token document failed validation
	ErrValidation = errors.New("validation failed")

	// ErrFileOperation indicates an I/O failure while dereferencing a $ref
	ErrFileOperation = errors.New("file operation failed")

	// ErrConfiguration indicates a malformed plugin or missing required option
	ErrConfiguration = errors.New("invalid configuration")

	// ErrBasePermutation indicates a cascade bundler could not identify the
	// base permutation
	ErrBasePermutation = errors.New("base permutation not found")
)

// SchemaDetectionError represents failure to detect schema version
type SchemaDetectionError struct {
	FilePath string
	Reason   string
}

func (e *SchemaDetectionError) Error() string {
	return fmt.Sprintf("failed to detect schema version for %s: %s\nSuggestion: Add explicit $schema field to the file", e.FilePath, e.Reason)
}

func (e *SchemaDetectionError) Unwrap() error {
	return ErrSchemaDetectionFailed
}

// NewSchemaDetectionError creates a new schema detection error
func NewSchemaDetectionError(filePath, reason string) error {
	return &SchemaDetectionError{
		FilePath: filePath,
		Reason:   reason,
	}
}

// InvalidSchemaError represents an invalid or unrecognized schema
type InvalidSchemaError struct {
	FilePath      string
	SchemaVersion string
	Reason        string
}

func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid schema %s in %s: %s", e.SchemaVersion, e.FilePath, e.Reason)
}

func (e *InvalidSchemaError) Unwrap() error {
	return ErrInvalidSchema
}

// NewInvalidSchemaError creates a new invalid schema error
func NewInvalidSchemaError(filePath, schemaVersion, reason string) error {
	return &InvalidSchemaError{
		FilePath:      filePath,
		SchemaVersion: schemaVersion,
		Reason:        reason,
	}
}

// MixedSchemaFeaturesError represents file containing features from multiple schemas
type MixedSchemaFeaturesError struct {
	FilePath            string
	DeclaredSchema      string
	ConflictingFeatures []string
}

func (e *MixedSchemaFeaturesError) Error() string {
	features := strings.Join(e.ConflictingFeatures, ", ")
	return fmt.Sprintf("file %s declares schema '%s' but contains features from other schema versions: %s\nSuggestion: Remove incompatible features or update $schema field",
		e.FilePath, e.DeclaredSchema, features)
}

func (e *MixedSchemaFeaturesError) Unwrap() error {
	return ErrMixedSchemaFeatures
}

// NewMixedSchemaFeaturesError creates a new mixed schema features error
func NewMixedSchemaFeaturesError(filePath, declaredSchema string, conflictingFeatures []string) error {
	return &MixedSchemaFeaturesError{
		FilePath:            filePath,
		DeclaredSchema:      declaredSchema,
		ConflictingFeatures: conflictingFeatures,
	}
}

// ConflictingRootTokensError represents both $root and groupMarkers present
type ConflictingRootTokensError struct {
	FilePath      string
	GroupPath     string
	RootTokenName string
	MarkerName    string
}

func (e *ConflictingRootTokensError) Error() string {
	return fmt.Sprintf("file %s has conflicting root tokens in group '%s': both '%s' and '%s' found\nSuggestion: Use only $root for 2025.10+ schemas, or only groupMarkers for draft schemas",
		e.FilePath, e.GroupPath, e.RootTokenName, e.MarkerName)
}

func (e *ConflictingRootTokensError) Unwrap() error {
	return ErrConflictingRootTokens
}

// NewConflictingRootTokensError creates a new conflicting root tokens error
func NewConflictingRootTokensError(filePath, groupPath, rootTokenName, markerName string) error {
	return &ConflictingRootTokensError{
		FilePath:      filePath,
		GroupPath:     groupPath,
		RootTokenName: rootTokenName,
		MarkerName:    markerName,
	}
}

// InvalidColorFormatError represents color value format mismatch
type InvalidColorFormatError struct {
	FilePath       string
	TokenPath      string
	SchemaVersion  string
	FoundFormat    string
	ExpectedFormat string
}

func (e *InvalidColorFormatError) Error() string {
	return fmt.Sprintf("invalid color format for token '%s' in %s: schema '%s' expects %s, but found %s\nSuggestion: Convert color value to match schema version, or update $schema field",
		e.TokenPath, e.FilePath, e.SchemaVersion, e.ExpectedFormat, e.FoundFormat)
}

func (e *InvalidColorFormatError) Unwrap() error {
	return ErrInvalidColorFormat
}

// NewInvalidColorFormatError creates a new invalid color format error
func NewInvalidColorFormatError(filePath, tokenPath, schemaVersion, foundFormat, expectedFormat string) error {
	return &InvalidColorFormatError{
		FilePath:       filePath,
		TokenPath:      tokenPath,
		SchemaVersion:  schemaVersion,
		FoundFormat:    foundFormat,
		ExpectedFormat: expectedFormat,
	}
}

// CircularReferenceError represents a circular reference
type CircularReferenceError struct {
	FilePath       string
	ReferenceChain []string
}

func (e *CircularReferenceError) Error() string {
	chain := strings.Join(e.ReferenceChain, " → ")
	return fmt.Sprintf("circular reference detected in %s: %s\nSuggestion: Break the circular dependency chain",
		e.FilePath, chain)
}

func (e *CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}

// NewCircularReferenceError creates a new circular reference error
func NewCircularReferenceError(filePath string, chain []string) error {
	return &CircularReferenceError{
		FilePath:       filePath,
		ReferenceChain: chain,
	}
}

// TokenReferenceError represents a $ref or alias pointing at something that
// does not exist. Carries closest-match suggestions per spec §7.
type TokenReferenceError struct {
	SourcePath  string // file path or JSON-Pointer of the referencing token
	Reference   string // the unresolved reference string/URI
	Suggestions []string
}

func (e *TokenReferenceError) Error() string {
	msg := fmt.Sprintf("unresolved reference %q", e.Reference)
	if e.SourcePath != "" {
		msg = fmt.Sprintf("%s (at %s)", msg, e.SourcePath)
	}
	if len(e.Suggestions) > 0 {
		msg += "\nDid you mean: " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

func (e *TokenReferenceError) Unwrap() error {
	return ErrTokenReference
}

// NewTokenReferenceError creates a new token reference error.
func NewTokenReferenceError(sourcePath, reference string, suggestions []string) error {
	return &TokenReferenceError{
		SourcePath:  sourcePath,
		Reference:   reference,
		Suggestions: suggestions,
	}
}

// ModifierError represents an unknown modifier name, or a context value
// outside a modifier's declared domain.
type ModifierError struct {
	Modifier  string
	Context   string // empty when the modifier name itself is unknown
	Available []string
}

func (e *ModifierError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("unknown modifier %q: available modifiers are %s",
			e.Modifier, strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("modifier %q has no context %q: available contexts are %s",
		e.Modifier, e.Context, strings.Join(e.Available, ", "))
}

func (e *ModifierError) Unwrap() error {
	return ErrModifier
}

// NewModifierError creates a new modifier/context error.
func NewModifierError(modifier, context string, available []string) error {
	return &ModifierError{Modifier: modifier, Context: context, Available: available}
}

// ValidationError represents one or more schema validation failures
// surfaced through the orchestrator's validation hook.
type ValidationError struct {
	FilePath string
	Issues   []string // one message per failing JSON-Pointer path
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a new validation error.
func NewValidationError(filePath string, issues []string) error {
	return &ValidationError{FilePath: filePath, Issues: issues}
}

// FileOperationError represents an I/O failure while dereferencing a $ref.
type FileOperationError struct {
	Op    string // "read", "stat", ...
	Path  string
	Cause error
}

func (e *FileOperationError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *FileOperationError) Unwrap() error {
	return ErrFileOperation
}

// NewFileOperationError creates a new file operation error.
func NewFileOperationError(op, path string, cause error) error {
	return &FileOperationError{Op: op, Path: path, Cause: cause}
}

// ConfigurationError represents a malformed plugin or a missing required
// build option.
type ConfigurationError struct {
	Component string // e.g. "output \"css\"", "transform \"kebab\""
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(component, reason string) error {
	return &ConfigurationError{Component: component, Reason: reason}
}

// BasePermutationError represents a cascade bundler's failure to identify
// the base permutation in its permutation set.
type BasePermutationError struct {
	Output string
	Reason string
}

func (e *BasePermutationError) Error() string {
	return fmt.Sprintf("output %q: could not identify base permutation: %s", e.Output, e.Reason)
}

func (e *BasePermutationError) Unwrap() error {
	return ErrBasePermutation
}

// NewBasePermutationError creates a new base permutation error.
func NewBasePermutationError(output, reason string) error {
	return &BasePermutationError{Output: output, Reason: reason}
}
