// Package conditional evaluates the declarative rules that control a field's
// visibility, enablement, and requiredness against live form values. The
// package is pure: it reads values, never mutates them, and leaves deciding
// when to re-evaluate to its callers.
package conditional

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Context carries the inputs rules are evaluated against. Values holds the
// form's current value map; Extras lets embedders inject out-of-band context
// such as user roles or feature flags, addressable with the "extras." prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// Evaluate applies one rule against the context and reports whether it holds.
func Evaluate(rule schema.ConditionalRule, ctx Context) (bool, error) {
	value, _ := lookup(ctx, rule.Field)

	switch rule.Operator {
	case schema.OpEquals:
		return looseEqual(value, rule.Value), nil
	case schema.OpNotEquals:
		return !looseEqual(value, rule.Value), nil
	case schema.OpContains:
		return contains(value, rule.Value), nil
	case schema.OpNotContains:
		return !contains(value, rule.Value), nil
	case schema.OpGreaterThan:
		return compare(value, rule.Value, func(a, b float64) bool { return a > b })
	case schema.OpLessThan:
		return compare(value, rule.Value, func(a, b float64) bool { return a < b })
	case schema.OpGreaterOrEqual:
		return compare(value, rule.Value, func(a, b float64) bool { return a >= b })
	case schema.OpLessOrEqual:
		return compare(value, rule.Value, func(a, b float64) bool { return a <= b })
	case schema.OpIn:
		return within(value, rule.Value), nil
	case schema.OpNotIn:
		return !within(value, rule.Value), nil
	case schema.OpIsEmpty:
		return isEmpty(value), nil
	case schema.OpIsNotEmpty:
		return !isEmpty(value), nil
	case schema.OpCustom:
		if rule.Predicate == nil {
			return false, fmt.Errorf("conditional: custom rule on %q has no predicate", rule.Field)
		}
		return rule.Predicate(value, ctx.Values), nil
	default:
		return false, fmt.Errorf("conditional: unsupported operator %q", rule.Operator)
	}
}

// EvaluateAll reports whether every rule in the list holds. An empty list is
// vacuously true.
func EvaluateAll(rules []schema.ConditionalRule, ctx Context) (bool, error) {
	for _, rule := range rules {
		ok, err := Evaluate(rule, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func compare(value, want any, cmp func(a, b float64) bool) (bool, error) {
	a, okA := coerceNumber(value)
	b, okB := coerceNumber(want)
	if !okA || !okB {
		return false, nil
	}
	return cmp(a, b), nil
}

// contains checks membership for list values and substring presence for
// strings.
func contains(value, needle any) bool {
	if list, ok := coerceList(value); ok {
		for _, item := range list {
			if looseEqual(item, needle) {
				return true
			}
		}
		return false
	}
	haystack := coerceString(value)
	if haystack == "" {
		return false
	}
	return strings.Contains(haystack, coerceString(needle))
}

// within checks that value appears in the rule's candidate list.
func within(value, candidates any) bool {
	list, ok := coerceList(candidates)
	if !ok {
		return looseEqual(value, candidates)
	}
	for _, item := range list {
		if looseEqual(value, item) {
			return true
		}
	}
	return false
}

const extrasPrefix = "extras."

func lookup(ctx Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	if strings.HasPrefix(strings.ToLower(key), extrasPrefix) {
		return lookupMap(ctx.Extras, key[len(extrasPrefix):])
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || strings.TrimSpace(path) == "" {
		return nil, false
	}
	path = strings.TrimSpace(path)

	// Prefer an exact match for dotted keys before path traversal.
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
