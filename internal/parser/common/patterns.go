package common

import "regexp"

// Shared regex patterns for token references in JSON and YAML source text

// CurlyBraceReferenceRegexp matches curly brace token references: {token.reference.path}
var CurlyBraceReferenceRegexp = regexp.MustCompile(`\{([^}]+)\}`)

// JSONPointerReferenceRegexp matches JSON Pointer references, in JSON
// ("$ref": "#/path/to/token") or YAML ($ref: '#/path/to/token') form
var JSONPointerReferenceRegexp = regexp.MustCompile(`["']?\$ref["']?\s*:\s*["'](#[^"']+)["']`)

// RootKeywordRegexp matches the $root keyword, quoted or unquoted, as a key
var RootKeywordRegexp = regexp.MustCompile(`["']?\$root["']?\s*:`)

// SchemaFieldRegexp matches the $schema field with its value, in JSON or YAML form
// Anchored to the start of a line to avoid false positives from schema versions appearing elsewhere
var SchemaFieldRegexp = regexp.MustCompile(`(?m)^\s*["']?\$schema["']?\s*:\s*["']([^"']+)["']`)
