package parser

import (
	"fmt"
	"strings"
)

// SchemaValidationError carries every structural violation found during
// Parse. Callers can distinguish it from dependency faults with errors.As.
type SchemaValidationError struct {
	Errors []string
}

func (e *SchemaValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "parser: schema validation failed"
	}
	return fmt.Sprintf("parser: schema validation failed: %s", strings.Join(e.Errors, "; "))
}

// CircularDependencyError reports a cycle in the field dependency graph.
// Cycle lists the field ids on the cycle, closing on the first entry.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	if e == nil || len(e.Cycle) == 0 {
		return "parser: circular field dependency"
	}
	return fmt.Sprintf("parser: circular field dependency: %s", strings.Join(e.Cycle, " -> "))
}

// FieldID returns one field id on the cycle.
func (e *CircularDependencyError) FieldID() string {
	if e == nil || len(e.Cycle) == 0 {
		return ""
	}
	return e.Cycle[0]
}
