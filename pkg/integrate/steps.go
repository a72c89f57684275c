package integrate

import (
	"fmt"
	"path"
	"strings"

	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/synth"
)

// Step is one manual follow-up the user still has to do.
type Step struct {
	Title   string   `json:"title" yaml:"title"`
	Details []string `json:"details" yaml:"details"`
}

const (
	schemaIndex   = "sanity/schemas/index.ts"
	blocksIndex   = "components/blocks/index.tsx"
	pageDocument  = "sanity/schemas/documents/page.ts"
	componentSite = "https://ui.aceternity.com/components"
)

// relImport turns a project path into an import specifier relative to dir,
// dropping the file extension.
func relImport(dir, file string) string {
	file = strings.TrimSuffix(file, path.Ext(file))
	if rest, ok := strings.CutPrefix(file, dir+"/"); ok {
		return "./" + rest
	}
	return "@/" + file
}

// schemaVar is the identifier the schema index imports the schema as,
// e.g. "aceternitySparkles".
func schemaVar(cfg component.Config, prefix string) string {
	name := cfg.TypeName(prefix)
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func (o *Orchestrator) registrationSteps(cfg component.Config, paths synth.Paths) []Step {
	prefix := o.project.TypePrefix
	schemaType := cfg.SchemaType(prefix)
	blockName := cfg.PascalName() + "Block"

	return []Step{
		{
			Title: "Register schema",
			Details: []string{
				"Add to: " + schemaIndex,
				fmt.Sprintf("Import: import %s from %q", schemaVar(cfg, prefix), relImport(path.Dir(schemaIndex), paths.Schema)),
				"Add it to the blocks array",
			},
		},
		{
			Title: "Register component",
			Details: []string{
				"Add to: " + blocksIndex,
				fmt.Sprintf("Import: import %s from %q", blockName, relImport(path.Dir(blocksIndex), paths.Block)),
				fmt.Sprintf("Add to the component map: %q: %s", schemaType, blockName),
			},
		},
		{
			Title: "Add to page blocks",
			Details: []string{
				"Edit: " + pageDocument,
				fmt.Sprintf("Add { type: %q } to the blocks array", schemaType),
			},
		},
		{
			Title:   "Generate types",
			Details: []string{"Run: npm run typegen"},
		},
		{
			Title: "Test in the Studio",
			Details: []string{
				"Open: " + o.project.StudioURL,
				fmt.Sprintf("Add a block and search for %q", cfg.DisplayName),
			},
		},
	}
}

func (o *Orchestrator) scaffoldSteps(cfg component.Config, paths synth.Paths) []Step {
	steps := []Step{
		{
			Title: "Add core component code",
			Details: []string{
				"Edit: " + paths.Core,
				"Copy from: " + componentSite,
				fmt.Sprintf("Or run: blocksmith fetch %s --category %s --force", cfg.KebabName(), cfg.Category),
			},
		},
		{
			Title:   "Customize schema fields",
			Details: []string{"Edit: " + paths.Schema},
		},
	}
	// Scaffolding leaves the page document alone; the page step comes after
	// the real component exists.
	for _, step := range o.registrationSteps(cfg, paths) {
		if step.Title == "Add to page blocks" {
			continue
		}
		steps = append(steps, step)
	}
	return steps
}
