// Package component defines the identity of one integration run and the
// naming rules that derive every path and identifier from it.
package component

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultIcon is the lucide-react icon used when none is given.
	DefaultIcon = "Component"
	// DefaultCategory is the storage subfolder used when none is given.
	DefaultCategory = "animations"
)

var (
	kebabPattern      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	categoryPattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
)

// Config is the user-supplied identity for a scaffolding or integration run.
//
// Name is the only field used for control flow: it derives the pascal type
// name, the kebab file name and the CMS type identifier. DisplayName and
// Description only end up in generated labels.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Category    string `json:"category" yaml:"category"`
}

// UserInputError reports a missing or malformed argument.
type UserInputError struct {
	Field  string
	Reason string
}

func (e *UserInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Normalized returns a copy with the name kebab-cased and defaults applied.
func (c Config) Normalized() Config {
	c.Name = ToKebabCase(strings.TrimSpace(c.Name))
	c.Icon = strings.TrimSpace(c.Icon)
	if c.Icon == "" {
		c.Icon = DefaultIcon
	}
	c.Category = strings.TrimSpace(c.Category)
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	return c
}

// Validate checks the fields that end up in paths or identifiers.
// Call it on a normalized config.
func (c Config) Validate() error {
	if c.Name == "" {
		return &UserInputError{Field: "name", Reason: "must not be empty"}
	}
	if !kebabPattern.MatchString(c.Name) {
		return &UserInputError{Field: "name", Reason: fmt.Sprintf("%q is not a kebab-case identifier", c.Name)}
	}
	if !identifierPattern.MatchString(c.Icon) {
		return &UserInputError{Field: "icon", Reason: fmt.Sprintf("%q is not a valid icon identifier", c.Icon)}
	}
	if !categoryPattern.MatchString(c.Category) {
		return &UserInputError{Field: "category", Reason: fmt.Sprintf("%q is not a valid folder name", c.Category)}
	}
	return nil
}

// KebabName is the file-name form of Name, e.g. "sparkles".
func (c Config) KebabName() string {
	return ToKebabCase(c.Name)
}

// PascalName is the type-name form of Name, e.g. "Sparkles".
func (c Config) PascalName() string {
	return ToPascalCase(c.KebabName())
}

// SchemaType is the CMS object-type identifier, e.g. "aceternity-sparkles".
func (c Config) SchemaType(prefix string) string {
	if prefix == "" {
		return c.KebabName()
	}
	return prefix + "-" + c.KebabName()
}

// TypeName is the generated TypeScript type for the schema, e.g. "AceternitySparkles".
func (c Config) TypeName(prefix string) string {
	return ToPascalCase(prefix) + c.PascalName()
}
