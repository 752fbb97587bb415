package contenttypes

import (
	"orkg/internal/graph"
	"orkg/internal/template"
	"orkg/internal/things"
)

// PaperContents are the things and contributions added to a paper in one go.
type PaperContents struct {
	Things        things.CreateThingsCommand      `json:"things"`
	Contributions []things.ContributionDefinition `json:"contributions"`
}

type CreatePaperContentsCommand struct {
	ContributorID    graph.ContributorID    `json:"contributor_id"`
	PaperID          graph.ThingID          `json:"paper_id"`
	ExtractionMethod graph.ExtractionMethod `json:"extraction_method,omitempty"`
	PaperContents
}

type CreatePaperCommand struct {
	ContributorID    graph.ContributorID    `json:"contributor_id"`
	Title            string                 `json:"title"`
	ResearchField    graph.ThingID          `json:"research_field"`
	Identifiers      map[string][]string    `json:"identifiers,omitempty"`
	Authors          []graph.ThingID        `json:"authors,omitempty"`
	SDGs             []graph.ThingID        `json:"sdgs,omitempty"`
	ExtractionMethod graph.ExtractionMethod `json:"extraction_method,omitempty"`
	Contents         *PaperContents         `json:"contents,omitempty"`
}

// UpdatePaperCommand leaves every nil field unchanged.
type UpdatePaperCommand struct {
	ContributorID graph.ContributorID `json:"contributor_id"`
	PaperID       graph.ThingID       `json:"paper_id"`
	Title         *string             `json:"title,omitempty"`
	ResearchField *graph.ThingID      `json:"research_field,omitempty"`
	Identifiers   map[string][]string `json:"identifiers,omitempty"`
	Authors       []graph.ThingID     `json:"authors,omitempty"`
	SDGs          []graph.ThingID     `json:"sdgs,omitempty"`
}

type CreateTemplateCommand struct {
	ContributorID graph.ContributorID  `json:"contributor_id"`
	Label         string               `json:"label"`
	Description   *string              `json:"description,omitempty"`
	TargetClass   graph.ThingID        `json:"target_class"`
	Properties    template.Definitions `json:"properties"`
}

// UpdateTemplateCommand leaves nil fields unchanged. An empty, non-nil
// Properties list removes every property; an empty Description removes it.
type UpdateTemplateCommand struct {
	ContributorID graph.ContributorID  `json:"contributor_id"`
	TemplateID    graph.ThingID        `json:"template_id"`
	Label         *string              `json:"label,omitempty"`
	Description   *string              `json:"description,omitempty"`
	Properties    template.Definitions `json:"properties"`
}

// ValidateInstanceCommand holds candidate objects of an instance keyed by
// predicate. Things may define temp ids used as objects.
type ValidateInstanceCommand struct {
	TemplateID graph.ThingID                     `json:"template_id"`
	Statements map[graph.ThingID][]graph.ThingID `json:"statements"`
	Things     things.CreateThingsCommand        `json:"things"`
}
