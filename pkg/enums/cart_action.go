package enums

import "fmt"

// CartAction names the outcome of a quantity mutation on a cart line.
type CartAction string

const (
	CartActionAdded   CartAction = "added"
	CartActionUpdated CartAction = "updated"
	CartActionRemoved CartAction = "removed"
)

var validCartActions = []CartAction{
	CartActionAdded,
	CartActionUpdated,
	CartActionRemoved,
}

// String implements fmt.Stringer.
func (c CartAction) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartAction.
func (c CartAction) IsValid() bool {
	for _, candidate := range validCartActions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartAction converts raw input into a CartAction.
func ParseCartAction(value string) (CartAction, error) {
	for _, candidate := range validCartActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart action %q", value)
}
