// Package lint implements the documentation-quality checks for a vault of
// Markdown posts: front-matter schema validation, body structure checks,
// code-block language validation, and shell-transcript consistency.
package lint

import (
	"fmt"
	"sort"
)

// Severity is the weight of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Diagnostic represents a single lint finding.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Path     string
	Line     int // 1-based; 0 when the finding has no useful position
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s [%s] %s", d.Path, d.Line, d.Severity, d.RuleID, d.Message)
	}
	return fmt.Sprintf("%s: %s [%s] %s", d.Path, d.Severity, d.RuleID, d.Message)
}

// Sort orders diagnostics by path, then line, then rule ID.
func Sort(diags []Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Path != diags[j].Path {
			return diags[i].Path < diags[j].Path
		}
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].RuleID < diags[j].RuleID
	})
}

// HasErrors reports whether any diagnostic has Error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
