package synth

import (
	"strconv"

	"github.com/gnana997/blocksmith/pkg/classify"
	"github.com/gnana997/blocksmith/pkg/component"
)

type schemaField struct {
	Name         string
	Title        string
	Type         string
	Group        string
	InitialValue string
	Options      []string
	Validation   string
}

type schemaData struct {
	nameData
	Fields []schemaField
}

// Schema renders the CMS object-type definition. Field order is the fixed
// title field, then fields in the given order, then colorVariant and
// padding. Classified fields named like a fixed field are not repeated.
func (s *Synthesizer) Schema(cfg component.Config, fields []classify.Field) (string, error) {
	data := schemaData{nameData: s.names(cfg)}

	for _, f := range fields {
		if fixedFields[f.Name] || classify.Excluded(f.Name) {
			continue
		}
		sf, err := toSchemaField(f)
		if err != nil {
			return "", err
		}
		data.Fields = append(data.Fields, sf)
	}

	return s.render("schema.ts.tmpl", data)
}

func toSchemaField(f classify.Field) (schemaField, error) {
	d := f.Descriptor
	sf := schemaField{
		Name:  f.Name,
		Title: f.Label,
		Type:  d.Kind.CMSType(),
		Group: string(d.Group),
	}
	if sf.Title == "" {
		sf.Title = classify.DeriveLabel(f.Name)
	}

	if d.Default != nil {
		v, err := jsValue(d.Default)
		if err != nil {
			return schemaField{}, err
		}
		sf.InitialValue = v
	}

	if c := d.Constraints; c != nil {
		sf.Options = c.Options
		if c.Min != nil {
			sf.Validation += ".min(" + formatNumber(*c.Min) + ")"
		}
		if c.Max != nil {
			sf.Validation += ".max(" + formatNumber(*c.Max) + ")"
		}
	}

	return sf, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
