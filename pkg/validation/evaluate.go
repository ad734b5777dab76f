package validation

// Evaluate runs the full compiled rule set over a value map and returns the
// errors keyed by field id. Fields without violations are absent from the
// result. Custom and global validators run after the structural checks; their
// messages append to any already collected for the same field.
func (r Rules) Evaluate(values map[string]any) map[string][]string {
	errs := make(map[string][]string)
	for id, rule := range r.PerField {
		messages := rule.Validate(values[id])
		if rule.Custom != nil {
			messages = append(messages, rule.Custom(values[id], values)...)
		}
		if len(messages) > 0 {
			errs[id] = messages
		}
	}

	if r.Global != nil {
		for id, messages := range r.Global(values) {
			if len(messages) == 0 {
				continue
			}
			errs[id] = append(errs[id], messages...)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RequiredMet reports whether every required field holds a non-absent value.
// It is the lightweight pass the form controller uses to keep the submit
// affordance current without surfacing error text.
func (r Rules) RequiredMet(values map[string]any) bool {
	for id, rule := range r.PerField {
		if !rule.Required {
			continue
		}
		if absent(rule.Kind, values[id]) {
			return false
		}
	}
	return true
}
