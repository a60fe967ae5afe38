// =============================================================================
// CSV to Inventory Converter - Header Check
// =============================================================================
//
// This module inspects the header row before any data is processed and
// reports problems a user would want to know about up front:
//   - A canonical field has no matching column at all (every row will be
//     rejected for ip, or rendered with an empty value for address/key)
//   - Two columns normalize to the same name (the later column wins)
//
// The check never blocks processing; row-level decisions stay with the
// normalizer. Findings are reported through the converter's logger.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/csv-to-inventory/internal/normalizer"
)

// =============================================================================
// FINDING TYPES
// =============================================================================

// Finding severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding is a single header problem.
type Finding struct {
	// Severity is "error" when every row will be rejected, else "warning".
	Severity string

	// Field is the canonical field concerned, if any.
	Field string

	// Message is a human-readable description.
	Message string
}

// String formats the finding for logs.
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(f.Severity), f.Message)
}

// =============================================================================
// HEADER CHECK
// =============================================================================

// CheckHeaders reports missing canonical columns and duplicate names.
//
// PARAMETERS:
//   - headers: The header row as read from the source.
//
// RETURNS:
//   - The findings in a stable order: missing fields in schema order, then
//     duplicates in header order.
func CheckHeaders(headers []string) []Finding {
	var findings []Finding

	present := make(map[string]string, len(headers))
	var duplicates []string
	for _, h := range headers {
		name := normalizer.NormalizeName(h)
		if first, seen := present[name]; seen {
			duplicates = append(duplicates, fmt.Sprintf("%q and %q", first, h))
			continue
		}
		present[name] = h
	}

	for _, field := range normalizer.Fields {
		aliases := normalizer.Aliases(field)

		matched := false
		for _, alias := range aliases {
			if _, ok := present[alias]; ok {
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		severity := SeverityWarning
		consequence := "the value will be empty on every host line"
		if field == normalizer.FieldIP {
			severity = SeverityError
			consequence = "every row will be rejected"
		}

		findings = append(findings, Finding{
			Severity: severity,
			Field:    field.String(),
			Message: fmt.Sprintf("no column for %s (expected one of %s); %s",
				field, strings.Join(aliases, ", "), consequence),
		})
	}

	for _, dup := range duplicates {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("columns %s have the same name; the later column wins", dup),
		})
	}

	return findings
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
