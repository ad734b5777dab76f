package parser

import (
	"github.com/goliatone/go-formkit/pkg/schema"
)

// DependencyGraph maps a field id to the ordered, deduplicated list of field
// ids whose values it reads. Only fields with at least one dependency appear
// as keys.
type DependencyGraph map[string][]string

// ResolveDependencies derives the dependency graph of a structurally valid
// schema: for each field, the union of every field referenced by its
// conditional rule lists plus any dependencies declared on a dynamic option
// source. The graph must be acyclic; a cycle returns a
// *CircularDependencyError and no graph.
func ResolveDependencies(s *schema.FormSchema) (DependencyGraph, error) {
	graph := make(DependencyGraph)
	for _, field := range s.Fields {
		deps := fieldDependencies(field)
		if len(deps) > 0 {
			graph[field.ID] = deps
		}
	}

	if cycle := findCycle(graph); len(cycle) > 0 {
		return nil, &CircularDependencyError{Cycle: cycle}
	}
	return graph, nil
}

func fieldDependencies(field schema.Field) []string {
	var deps []string
	seen := make(map[string]struct{})

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		deps = append(deps, id)
	}

	for _, list := range field.Conditional.Lists() {
		for _, rule := range list.Rules {
			add(rule.Field)
		}
	}
	if field.OptionSource != nil {
		for _, id := range field.OptionSource.Dependencies {
			add(id)
		}
	}
	return deps
}

// findCycle runs a depth-first walk over the graph with a visited set and an
// on-stack set. A node re-encountered while on the stack closes a cycle; the
// returned slice lists the fields on that cycle starting and ending at the
// re-encountered node. An acyclic graph returns nil.
func findCycle(graph DependencyGraph) []string {
	visited := make(map[string]struct{}, len(graph))
	onStack := make(map[string]struct{}, len(graph))
	var stack []string

	var walk func(id string) []string
	walk = func(id string) []string {
		visited[id] = struct{}{}
		onStack[id] = struct{}{}
		stack = append(stack, id)

		for _, dep := range graph[id] {
			if _, ok := onStack[dep]; ok {
				return closeCycle(stack, dep)
			}
			if _, ok := visited[dep]; ok {
				continue
			}
			if cycle := walk(dep); cycle != nil {
				return cycle
			}
		}

		delete(onStack, id)
		stack = stack[:len(stack)-1]
		return nil
	}

	for id := range graph {
		if _, ok := visited[id]; ok {
			continue
		}
		if cycle := walk(id); cycle != nil {
			return cycle
		}
	}
	return nil
}

func closeCycle(stack []string, entry string) []string {
	start := 0
	for i, id := range stack {
		if id == entry {
			start = i
			break
		}
	}
	cycle := append([]string(nil), stack[start:]...)
	return append(cycle, entry)
}
