package synth

import (
	"github.com/gnana997/blocksmith/pkg/classify"
	"github.com/gnana997/blocksmith/pkg/component"
)

type blockData struct {
	nameData
	Declared  []string
	Forwarded []string
}

// Block renders the wrapper component. It declares colorVariant, padding and
// every non-excluded property, and forwards each property except colorVariant
// and padding to the core component through stegaClean.
func (s *Synthesizer) Block(cfg component.Config, names []string) (string, error) {
	declared, forwarded := BlockProps(names)
	return s.render("block.tsx.tmpl", blockData{
		nameData:  s.names(cfg),
		Declared:  declared,
		Forwarded: forwarded,
	})
}

// BlockProps splits property names into the block's declared parameters and
// the subset forwarded to the core component.
func BlockProps(names []string) (declared, forwarded []string) {
	declared = []string{"colorVariant", "padding"}
	seen := map[string]bool{"colorVariant": true, "padding": true}

	for _, name := range classify.Names(names) {
		if seen[name] {
			continue
		}
		seen[name] = true
		declared = append(declared, name)
		forwarded = append(forwarded, name)
	}
	return declared, forwarded
}
