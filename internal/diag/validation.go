package diag

import "fmt"

// Mode selects how the pipeline reacts to a recoverable diagnostic
// (spec.md §6 "Environment / config"): abort the affected unit of work,
// downgrade to a warning and continue, or drop it entirely.
type Mode string

const (
	ModeError Mode = "error"
	ModeWarn  Mode = "warn"
	ModeOff   Mode = "off"
)

// Diagnostic is one recoverable problem surfaced through the validation
// hook rather than returned as a hard error: an unresolved reference, a
// schema inconsistency, anything the configured Mode can downgrade.
type Diagnostic struct {
	Message     string
	SourcePath  string
	Suggestions []string
	Kind        string
}

func (d Diagnostic) String() string {
	if d.SourcePath == "" {
		return d.Message
	}
	return fmt.Sprintf("%s (%s)", d.Message, d.SourcePath)
}

// Hook is the fixed validation policy object passed into the
// orchestrator: Mode decides whether a Diagnostic aborts its unit of
// work, and OnWarning receives every diagnostic Mode downgrades to a
// warning (spec.md: "Warnings ... are emitted through the configured
// onWarning sink").
type Hook struct {
	Mode      Mode
	OnWarning func(Diagnostic)
}

// DefaultHook treats every diagnostic as fatal and discards warnings,
// matching spec.md's default failure policy when no validation config is
// supplied.
func DefaultHook() Hook {
	return Hook{Mode: ModeError}
}

// Handle applies the hook's Mode to one diagnostic, reporting whether the
// caller should abort the unit of work it's validating. Mode "off" never
// aborts and never calls OnWarning; mode "warn" never aborts but reports
// through OnWarning; mode "error" (the default for a zero Hook) aborts.
func (h Hook) Handle(d Diagnostic) (abort bool) {
	switch h.Mode {
	case ModeOff:
		return false
	case ModeWarn:
		if h.OnWarning != nil {
			h.OnWarning(d)
		}
		return false
	default:
		return true
	}
}
