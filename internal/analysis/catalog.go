// Package analysis builds the code-quality analysis prompts served over MCP.
//
// The package holds a fixed catalog of quality dimensions and a pure prompt
// builder that composes the catalog, the submitted code, and the response
// format instructions into a single text block. No parsing or execution of
// the submitted code happens here; the resulting prompt is handed to the
// calling AI assistant, which performs the actual judgment.
package analysis

import (
	"fmt"
	"strings"
)

// Dimension is a single code-quality dimension: a stable name used as a
// focus-area key, a human-readable description, and the checkpoints the
// analyzing assistant is asked to look for.
type Dimension struct {
	Name        string
	Description string
	Checkpoints []string
}

// dimensions is the full catalog in presentation order. It is defined once
// and never mutated after process start.
var dimensions = []Dimension{
	{
		Name:        "complexity",
		Description: "Unnecessary Complexity",
		Checkpoints: []string{
			"Overly complex algorithms or functions",
			"Unnecessary abstraction layers",
			"Convoluted control flow",
			"Functions/methods that are too long or have too many parameters",
			"Nesting levels that are too deep",
		},
	},
	{
		Name:        "abstraction",
		Description: "Poor Abstractions",
		Checkpoints: []string{
			"Inappropriate use of design patterns",
			"Missing abstractions where needed",
			"Leaky abstractions that expose implementation details",
			"Overly generic abstractions that add complexity",
			"Unclear separation of concerns",
		},
	},
	{
		Name:        "deletion",
		Description: "Unintended Code Deletion",
		Checkpoints: []string{
			"Critical functionality removed without replacement",
			"Incomplete removal of deprecated code",
			"Breaking changes to public APIs",
			"Removed error handling or validation",
			"Missing edge case handling present in original code",
		},
	},
	{
		Name:        "hallucination",
		Description: "Hallucinated Components",
		Checkpoints: []string{
			"References to non-existent functions, classes, or modules",
			"Assumptions about available libraries or APIs",
			"Inconsistent or impossible behavior expectations",
			"References to frameworks or patterns not used in the project",
			"Creation of interfaces that don't align with the codebase",
		},
	},
	{
		Name:        "style",
		Description: "Style Inconsistencies",
		Checkpoints: []string{
			"Deviation from project coding standards",
			"Inconsistent naming conventions",
			"Inconsistent formatting or indentation",
			"Inconsistent comment styles or documentation",
			"Mixing of different programming paradigms",
		},
	},
	{
		Name:        "security",
		Description: "Security Vulnerabilities",
		Checkpoints: []string{
			"Injection vulnerabilities (SQL, Command, etc.)",
			"Insecure data handling or storage",
			"Authentication or authorization flaws",
			"Exposure of sensitive information",
			"Unsafe dependencies or API usage",
		},
	},
	{
		Name:        "performance",
		Description: "Performance Issues",
		Checkpoints: []string{
			"Inefficient algorithms or data structures",
			"Unnecessary computations or operations",
			"Resource leaks (memory, file handles, etc.)",
			"Excessive network or disk operations",
			"Blocking operations in asynchronous code",
		},
	},
	{
		Name:        "duplication",
		Description: "Code Duplication",
		Checkpoints: []string{
			"Repeated logic or functionality",
			"Copy-pasted code with minor variations",
			"Duplicate functionality across different modules",
			"Redundant validation or error handling",
			"Parallel hierarchies or structures",
		},
	},
	{
		Name:        "error_handling",
		Description: "Incomplete Error Handling",
		Checkpoints: []string{
			"Missing try-catch blocks for risky operations",
			"Overly broad exception handling",
			"Swallowed exceptions without proper logging",
			"Unclear error messages or codes",
			"Inconsistent error recovery strategies",
		},
	},
	{
		Name:        "testing",
		Description: "Test Coverage Gaps",
		Checkpoints: []string{
			"Missing unit tests for critical functionality",
			"Uncovered edge cases or error paths",
			"Brittle tests that make inappropriate assumptions",
			"Missing integration or system tests",
			"Tests that don't verify actual requirements",
		},
	},
}

// dimensionIndex maps dimension names to catalog entries for focus-area
// lookups.
var dimensionIndex = func() map[string]*Dimension {
	idx := make(map[string]*Dimension, len(dimensions))
	for i := range dimensions {
		idx[dimensions[i].Name] = &dimensions[i]
	}
	return idx
}()

// Dimensions returns the full catalog in presentation order. The returned
// slice is a copy; callers may not mutate the catalog.
func Dimensions() []Dimension {
	out := make([]Dimension, len(dimensions))
	copy(out, dimensions)
	return out
}

// DimensionNames returns the names of all catalog dimensions in
// presentation order.
func DimensionNames() []string {
	names := make([]string, len(dimensions))
	for i, d := range dimensions {
		names[i] = d.Name
	}
	return names
}

// LookupDimension returns the catalog entry for the given name.
func LookupDimension(name string) (Dimension, error) {
	d, ok := dimensionIndex[name]
	if !ok {
		return Dimension{}, fmt.Errorf("%w: %q", ErrUnknownDimension, name)
	}
	return *d, nil
}

// section renders a dimension the way it appears in the prompt: bold title
// followed by its checkpoints as a bullet list.
func (d Dimension) section() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", d.Description)
	for _, cp := range d.Checkpoints {
		fmt.Fprintf(&b, "- %s\n", cp)
	}
	return b.String()
}
