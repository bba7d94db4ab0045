package lint

// Registry holds the set of rules an Analyzer runs.
type Registry struct {
	rules []RuleDef
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Defaults returns a registry populated with all built-in rules.
func Defaults() *Registry {
	r := NewRegistry()
	for _, def := range builtinRules() {
		r.Register(def)
	}
	return r
}

// Register adds a rule. A rule with a duplicate ID replaces the earlier one.
func (r *Registry) Register(def RuleDef) {
	for i, existing := range r.rules {
		if existing.ID == def.ID {
			r.rules[i] = def
			return
		}
	}
	r.rules = append(r.rules, def)
}

// Disable removes rules by ID. Unknown IDs are ignored.
func (r *Registry) Disable(ids ...string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := r.rules[:0]
	for _, def := range r.rules {
		if !drop[def.ID] {
			kept = append(kept, def)
		}
	}
	r.rules = kept
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []RuleDef {
	return r.rules
}
