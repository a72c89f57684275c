package synth

import (
	"time"

	"github.com/gnana997/blocksmith/pkg/component"
)

// ScaffoldProperties is the property set assumed for a component whose
// source does not exist yet.
var ScaffoldProperties = []string{"intensity"}

// Paths are the project-relative locations of one component's files.
type Paths struct {
	Schema string `json:"schema" yaml:"schema"`
	Block  string `json:"block" yaml:"block"`
	Core   string `json:"core" yaml:"core"`
}

// Placeholder renders a stand-in core component that accepts the scaffold
// properties, so the scaffolded block compiles before real code arrives.
func (s *Synthesizer) Placeholder(cfg component.Config) (string, error) {
	return s.render("core.tsx.tmpl", s.names(cfg))
}

type readmeData struct {
	nameData
	Paths Paths
	Date  string
}

// ReadmeEntry renders the documentation snippet for a scaffolded component.
func (s *Synthesizer) ReadmeEntry(cfg component.Config, paths Paths, date time.Time) (string, error) {
	return s.render("readme.md.tmpl", readmeData{
		nameData: s.names(cfg),
		Paths:    paths,
		Date:     date.Format(time.DateOnly),
	})
}
