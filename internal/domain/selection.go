package domain

// Selection is an ordered set of customer names. It is always ordered by the
// option list it was built from, so equal sets compare equal.
type Selection []string

func NewSelection(options []string, picked ...string) Selection {
	wanted := make(map[string]struct{}, len(picked))
	for _, name := range picked {
		wanted[name] = struct{}{}
	}

	selection := make(Selection, 0, len(picked))
	for _, option := range options {
		if _, ok := wanted[option]; ok {
			selection = append(selection, option)
			delete(wanted, option)
		}
	}

	return selection
}

func (s Selection) Contains(name string) bool {
	for _, selected := range s {
		if selected == name {
			return true
		}
	}
	return false
}

// Toggle returns a new selection with name added or removed. The receiver is
// never modified.
func (s Selection) Toggle(options []string, name string) Selection {
	picked := make([]string, 0, len(s)+1)
	removed := false
	for _, selected := range s {
		if selected == name {
			removed = true
			continue
		}
		picked = append(picked, selected)
	}
	if !removed {
		picked = append(picked, name)
	}

	return NewSelection(options, picked...)
}

func (s Selection) Empty() bool {
	return len(s) == 0
}

func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
