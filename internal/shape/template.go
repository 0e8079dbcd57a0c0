package shape

import (
	"fmt"
	"strings"
)

// Template selects the point-sampling recipe for the particle field.
type Template int

const (
	TemplateHeart Template = iota
	TemplateFlower
	TemplateSaturnRings
	TemplateFireworks
)

var templateNames = map[Template]string{
	TemplateHeart:       "heart",
	TemplateFlower:      "flower",
	TemplateSaturnRings: "saturn",
	TemplateFireworks:   "fireworks",
}

func (t Template) String() string {
	if name, ok := templateNames[t]; ok {
		return name
	}
	return fmt.Sprintf("template(%d)", int(t))
}

// Label is the display name used in menus.
func (t Template) Label() string {
	switch t {
	case TemplateHeart:
		return "Heart"
	case TemplateFlower:
		return "Flower"
	case TemplateSaturnRings:
		return "Saturn"
	case TemplateFireworks:
		return "Fireworks"
	default:
		return "?"
	}
}

// Valid reports whether t belongs to the closed template set.
func (t Template) Valid() bool {
	_, ok := templateNames[t]
	return ok
}

// Next returns the following template, wrapping around.
func (t Template) Next() Template {
	return Template((int(t) + 1) % len(templateNames))
}

// Templates lists every template in menu order.
func Templates() []Template {
	return []Template{TemplateHeart, TemplateFlower, TemplateSaturnRings, TemplateFireworks}
}

// ParseTemplate maps a case-insensitive name to a Template.
func ParseTemplate(s string) (Template, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heart":
		return TemplateHeart, nil
	case "flower":
		return TemplateFlower, nil
	case "saturn", "saturnrings", "saturn-rings", "rings":
		return TemplateSaturnRings, nil
	case "fireworks", "firework":
		return TemplateFireworks, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTemplate, s)
}
