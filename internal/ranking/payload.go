package ranking

import "slices"

// PriorityPayload is the wire form of a user's priorities.
type PriorityPayload struct {
	Sections []string            `json:"sections"`
	Values   map[string][]string `json:"values"`
}

// BuildPayload normalizes a category order and its selections into a
// payload. Categories without any non-blank selection are left out.
func BuildPayload(sectionOrder []string, selected map[string][]string) PriorityPayload {
	p := PriorityPayload{
		Sections: []string{},
		Values:   make(map[string][]string),
	}
	keys := make([]string, 0, len(selected))
	for k := range selected {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	byKey := make(map[string][]string, len(selected))
	for _, k := range keys {
		if n := Normalize(k); n != "" {
			byKey[n] = append(byKey[n], selected[k]...)
		}
	}
	for _, section := range sectionOrder {
		key := Normalize(section)
		if key == "" {
			continue
		}
		if _, dup := p.Values[key]; dup {
			continue
		}
		var items []string
		for _, v := range byKey[key] {
			if n := Normalize(v); n != "" {
				items = append(items, n)
			}
		}
		if len(items) > 0 {
			p.Sections = append(p.Sections, key)
			p.Values[key] = items
		}
	}
	return p
}

// Index builds the priority index described by the payload.
func (p PriorityPayload) Index(cfg IndexConfig) *PriorityIndex {
	return BuildIndex(p.Sections, p.Values, cfg)
}

// Empty reports whether the payload selects nothing.
func (p PriorityPayload) Empty() bool {
	for _, v := range p.Values {
		if len(v) > 0 {
			return false
		}
	}
	return true
}
