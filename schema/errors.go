package schema

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a single frontmatter problem.
type ErrorKind int

const (
	// MissingRequiredField means a required field is absent or not a string.
	MissingRequiredField ErrorKind = iota + 1
	// TypeCoercionFailure means a present optional field has the wrong type.
	TypeCoercionFailure
	// CrossFieldRuleViolation means neither date nor pubDate was provided.
	CrossFieldRuleViolation
)

func (k ErrorKind) String() string {
	switch k {
	case MissingRequiredField:
		return "missing_required_field"
	case TypeCoercionFailure:
		return "type_coercion_failure"
	case CrossFieldRuleViolation:
		return "cross_field_rule_violation"
	default:
		return fmt.Sprintf("error_kind(%d)", int(k))
	}
}

// FieldError describes one problem with one field (or, for cross-field
// rules, a group of fields).
type FieldError struct {
	Path    []string
	Kind    ErrorKind
	Message string
}

// Error renders nested paths dotted (tags.1) and cross-field groups comma
// separated (date, pubDate).
func (e FieldError) Error() string {
	sep := "."
	if e.Kind == CrossFieldRuleViolation {
		sep = ", "
	}
	return strings.Join(e.Path, sep) + ": " + e.Message
}

// ValidationError is returned by Validate and carries every problem found
// in a record, not only the first one.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return "invalid frontmatter: " + strings.Join(parts, "; ")
}

// Has reports whether any collected error is of the given kind.
func (e *ValidationError) Has(kind ErrorKind) bool {
	for _, fe := range e.Errors {
		if fe.Kind == kind {
			return true
		}
	}
	return false
}

// Fields returns the dotted paths of every offending field, in the order
// the errors were collected. Paths may repeat.
func (e *ValidationError) Fields() []string {
	var out []string
	for _, fe := range e.Errors {
		if fe.Kind == CrossFieldRuleViolation {
			out = append(out, fe.Path...)
			continue
		}
		out = append(out, strings.Join(fe.Path, "."))
	}
	return out
}
