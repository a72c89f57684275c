// Package classify maps component property names to CMS field descriptors.
//
// Classification is driven by the property name alone. A static table covers
// the names that show up across effect components; everything else falls back
// to a plain text field in the settings group.
package classify

// Kind is the semantic type of a CMS field.
type Kind string

const (
	KindText        Kind = "text"
	KindLongText    Kind = "long-text"
	KindNumber      Kind = "number"
	KindBoolean     Kind = "boolean"
	KindColorString Kind = "color-string"
)

// Kinds lists every Kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindText, KindLongText, KindNumber, KindBoolean, KindColorString}
}

// CMSType returns the schema type name the CMS uses for this kind.
func (k Kind) CMSType() string {
	switch k {
	case KindLongText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	default: // text, color-string
		return "string"
	}
}

// Group is the display group a field is shown under in the editor.
type Group string

const (
	GroupContent  Group = "content"
	GroupSettings Group = "settings"
	GroupStyle    Group = "style"
)

// Groups lists every Group in the order the editor shows them.
func Groups() []Group {
	return []Group{GroupContent, GroupSettings, GroupStyle}
}

// Constraints holds optional numeric bounds or enumerated options.
type Constraints struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// clone returns a deep copy; nil stays nil.
func (c *Constraints) clone() *Constraints {
	if c == nil {
		return nil
	}
	out := &Constraints{Options: append([]string(nil), c.Options...)}
	if c.Min != nil {
		lo := *c.Min
		out.Min = &lo
	}
	if c.Max != nil {
		hi := *c.Max
		out.Max = &hi
	}
	return out
}

// Descriptor is the classification result for one property name.
// Default, when set, matches Kind: float64 for numbers, bool for booleans,
// string otherwise.
type Descriptor struct {
	Kind        Kind         `json:"kind" yaml:"kind"`
	Group       Group        `json:"group" yaml:"group"`
	Default     any          `json:"default,omitempty" yaml:"default,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// Field is a classified property ready for emission.
type Field struct {
	Name       string     `json:"name" yaml:"name"`
	Label      string     `json:"label" yaml:"label"`
	Descriptor Descriptor `json:"descriptor" yaml:"descriptor"`
}
