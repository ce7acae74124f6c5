// Package schema provides design-token schema version detection and the
// typed error taxonomy shared across the resolution and transformation
// pipeline.
package schema

import "strings"

// SchemaVersion identifies which DTCG schema generation a document follows.
type SchemaVersion int

const (
	// Unknown means the version could not be determined.
	Unknown SchemaVersion = iota
	// Draft is the pre-2025.10 community draft (string colors, curly-brace
	// aliases only, no $ref/$extends/resolutionOrder).
	Draft
	// V2025_10 is the stable 2025.10 generation this pipeline targets.
	V2025_10
)

func (v SchemaVersion) String() string {
	switch v {
	case Draft:
		return "draft"
	case V2025_10:
		return "2025.10"
	default:
		return "unknown"
	}
}

// URL returns the canonical $schema URL for this version, or "" for Unknown.
func (v SchemaVersion) URL() string {
	switch v {
	case Draft:
		return "https://www.designtokens.org/schemas/draft.json"
	case V2025_10:
		return "https://www.designtokens.org/schemas/2025.10.json"
	default:
		return ""
	}
}

// FromString maps a bare version token (as it would appear in a resolver
// document's "version" field) to a SchemaVersion.
func FromString(s string) (SchemaVersion, error) {
	switch strings.TrimSpace(s) {
	case "2025.10":
		return V2025_10, nil
	case "draft":
		return Draft, nil
	default:
		return Unknown, NewInvalidSchemaError("", s, "unrecognized version string")
	}
}

// FromURL maps a "$schema" URL to a SchemaVersion.
func FromURL(url string) (SchemaVersion, error) {
	switch url {
	case Draft.URL():
		return Draft, nil
	case V2025_10.URL():
		return V2025_10, nil
	default:
		return Unknown, NewInvalidSchemaError("", url, "unrecognized $schema URL")
	}
}
