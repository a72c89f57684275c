package classify

import (
	"strings"
)

// fallback is returned for every name missing from the table.
var fallback = Descriptor{Kind: KindText, Group: GroupSettings}

// excluded names are structural or presentation-only and never become CMS fields.
var excluded = map[string]bool{
	"children":  true,
	"className": true,
}

// table maps exact, case-sensitive property names to descriptors.
var table = map[string]Descriptor{
	// Content
	"title":       {Kind: KindText, Group: GroupContent},
	"heading":     {Kind: KindText, Group: GroupContent},
	"subtitle":    {Kind: KindText, Group: GroupContent},
	"description": {Kind: KindLongText, Group: GroupContent},
	"text":        {Kind: KindLongText, Group: GroupContent},

	// Numbers
	"intensity":       {Kind: KindNumber, Group: GroupSettings, Default: 5.0, Constraints: bounds(1, 10)},
	"speed":           {Kind: KindNumber, Group: GroupSettings, Default: 1.0},
	"duration":        {Kind: KindNumber, Group: GroupSettings, Default: 1000.0},
	"count":           {Kind: KindNumber, Group: GroupSettings, Default: 100.0},
	"particleDensity": {Kind: KindNumber, Group: GroupSettings, Default: 100.0},
	"particleCount":   {Kind: KindNumber, Group: GroupSettings, Default: 100.0},
	"minSize":         {Kind: KindNumber, Group: GroupSettings, Default: 0.4},
	"maxSize":         {Kind: KindNumber, Group: GroupSettings, Default: 1.0},

	// Colors
	"color":           {Kind: KindColorString, Group: GroupStyle, Default: "#00d71c"},
	"particleColor":   {Kind: KindColorString, Group: GroupStyle, Default: "#00d71c"},
	"backgroundColor": {Kind: KindColorString, Group: GroupStyle, Constraints: &Constraints{Options: []string{"transparent", "black", "white"}}},

	// Booleans
	"enabled":  {Kind: KindBoolean, Group: GroupSettings, Default: true},
	"autoPlay": {Kind: KindBoolean, Group: GroupSettings, Default: true},
	"loop":     {Kind: KindBoolean, Group: GroupSettings, Default: true},
}

func bounds(lo, hi float64) *Constraints {
	return &Constraints{Min: &lo, Max: &hi}
}

// Excluded reports whether name is never surfaced as a CMS field.
func Excluded(name string) bool {
	return excluded[name]
}

// Classify returns the descriptor for name. It never fails: names missing
// from the table get a text field in the settings group.
func Classify(name string) Descriptor {
	d, ok := table[name]
	if !ok {
		return fallback
	}
	d.Constraints = d.Constraints.clone()
	return d
}

// Fields classifies names in order, dropping excluded ones.
func Fields(names []string) []Field {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		if Excluded(name) {
			continue
		}
		fields = append(fields, Field{
			Name:       name,
			Label:      DeriveLabel(name),
			Descriptor: Classify(name),
		})
	}
	return fields
}

// Names returns names without the excluded ones, preserving order.
func Names(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !Excluded(name) {
			out = append(out, name)
		}
	}
	return out
}

// DeriveLabel turns a property name into a human label by upper-casing the
// first letter and putting a space before every later capital letter:
// "particleDensity" -> "Particle Density".
func DeriveLabel(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToUpper(name[:1]))
	for i := 1; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteByte(c)
	}
	return b.String()
}
