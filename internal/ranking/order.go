package ranking

// Order is a user-arranged priority list, such as the category order or the
// selected values inside one category.
type Order []string

// Move returns a copy of o with the element at from relocated to to, the
// same operation a drag-and-drop reorder performs. Out of range indexes
// return an unchanged copy.
func (o Order) Move(from, to int) Order {
	out := append(Order(nil), o...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	item := out[from]
	copy(out[from:], out[from+1:])
	out = out[:len(out)-1]
	out = append(out[:to], append(Order{item}, out[to:]...)...)
	return out
}

// Toggle adds value to the end of o when absent and removes it otherwise.
func (o Order) Toggle(value string) Order {
	n := Normalize(value)
	out := make(Order, 0, len(o)+1)
	found := false
	for _, v := range o {
		if Normalize(v) == n {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found && n != "" {
		out = append(out, value)
	}
	return out
}
