package activities

import (
	"orkg/internal/graph"
	"orkg/internal/template"
)

type CreatePaperOutput struct {
	PaperID graph.ThingID `json:"paper_id"`
}

type CreatePaperContentsOutput struct {
	ContributionIDs []graph.ThingID `json:"contribution_ids"`
}

type CreateTemplateOutput struct {
	TemplateID graph.ThingID `json:"template_id"`
}

type UpdateTemplateOutput struct {
	Edits []template.Edit `json:"edits"`
}

type ValidateInstanceOutput struct {
	Valid   bool   `json:"valid"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
