package analysis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCode is returned when a request carries no code to analyze.
	ErrEmptyCode = errors.New("code must not be empty")

	// ErrUnknownDimension is returned when a focus area does not name a
	// catalog dimension. Wrapped errors carry the offending name.
	ErrUnknownDimension = errors.New("unknown quality dimension")
)

// Request carries the inputs for one prompt build. Code is required;
// everything else is optional.
type Request struct {
	// Code is the code to analyze.
	Code string

	// OriginalCode, when set, is the pre-edit version of the code. The
	// prompt then asks the assistant to compare the two and watch for
	// regressions.
	OriginalCode string

	// Language is the programming language of the code, used to tag the
	// fenced code blocks. May be empty.
	Language string

	// FocusAreas restricts the analysis to the named dimensions. Empty
	// means the full catalog.
	FocusAreas []string
}

// basePrompt is the overall prompt skeleton. Placeholders, in order:
// language, code, diff section, dimension sections.
const basePrompt = `
# Code Quality Analysis

You are performing a comprehensive code quality analysis on the provided code.
Your task is to identify potential quality issues across multiple dimensions and provide
constructive feedback to improve the code.

## Code to Analyze

` + "```%s\n%s\n```" + `

%s
## Analysis Dimensions

Analyze the code for the following quality dimensions:
%s
## Instructions

1. For each applicable dimension, identify specific issues in the code
2. Provide a severity level for each issue (Critical, High, Medium, Low)
3. Explain why each issue is problematic, with reference to specific line numbers
4. Suggest concrete improvements to address each issue
5. If no issues are found in a dimension, explicitly state that

## Response Format

Organize your analysis by dimension as follows:

### [Dimension Name]

**Issues Found**: [Yes/No]

[If issues are found, list each one as follows]

- **Issue**: [Brief description]
- **Severity**: [Critical/High/Medium/Low]
- **Location**: [Line number(s)]
- **Explanation**: [Why this is a problem]
- **Recommendation**: [Specific improvement suggestion]

## Final Summary

After analyzing all dimensions, provide a concise summary of:
1. The most critical issues to address
2. Overall code quality assessment
3. Key recommendations for improvement
`

// comparisonSection is emitted when the request carries the pre-edit code.
// Placeholders: language, original code.
const comparisonSection = `## Original Code (for comparison)

` + "```%s\n%s\n```" + `

When analyzing, pay particular attention to changes between the original and new code.
Identify any regressions, unintended modifications, or improvements.

`

// BuildPrompt composes the full analysis prompt for the request. It is a
// pure function: identical requests always produce identical text.
//
// An empty focus-area list selects the complete catalog. A focus area that
// does not name a catalog dimension fails the whole build with
// ErrUnknownDimension; a partial prompt is never produced.
func BuildPrompt(req Request) (string, error) {
	if strings.TrimSpace(req.Code) == "" {
		return "", ErrEmptyCode
	}

	selected, err := selectDimensions(req.FocusAreas)
	if err != nil {
		return "", err
	}

	var sections strings.Builder
	for _, d := range selected {
		sections.WriteString(d.section())
		sections.WriteString("\n")
	}

	diff := ""
	if req.OriginalCode != "" {
		diff = fmt.Sprintf(comparisonSection, req.Language, req.OriginalCode)
	}

	return fmt.Sprintf(basePrompt, req.Language, req.Code, diff, sections.String()), nil
}

// selectDimensions resolves the focus areas against the catalog, keeping
// the caller's order. Empty input yields the full catalog.
func selectDimensions(focusAreas []string) ([]Dimension, error) {
	if len(focusAreas) == 0 {
		return Dimensions(), nil
	}

	selected := make([]Dimension, 0, len(focusAreas))
	for _, name := range focusAreas {
		d, err := LookupDimension(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, d)
	}
	return selected, nil
}
