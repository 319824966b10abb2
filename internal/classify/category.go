package classify

import (
	"fmt"
)

// Category is the discrete content label that selects a depth strategy.
type Category string

const (
	Faces           Category = "faces"
	People          Category = "people"
	CircularObjects Category = "circular_objects"
	Circuits        Category = "circuits"
	Trigonometry    Category = "trigonometry"
	General         Category = "general"
)

// Categories lists every category in decision-tree priority order.
func Categories() []Category {
	return []Category{Faces, People, CircularObjects, Circuits, Trigonometry, General}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// ParseCategory maps a category name to its Category.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}
