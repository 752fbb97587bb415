package things

import (
	"context"
	"fmt"

	"orkg/internal/graph"
)

const contributionPlaceholderPrefix = "^"

// ContributionPlaceholder is the subject id used for the statements of the
// contribution at index i before it is created.
func ContributionPlaceholder(i int) graph.ThingID {
	return graph.ThingID(fmt.Sprintf("%s%d", contributionPlaceholderPrefix, i))
}

type ContributionDefinition struct {
	Label      string                               `json:"label"`
	Classes    []graph.ThingID                      `json:"classes,omitempty"`
	Statements map[graph.ThingID][]ObjectDefinition `json:"statements"`
}

type BakedContribution struct {
	Label      string
	Classes    []graph.ThingID
	Statements StatementSet
}

// ContributionValidator validates contribution definitions and bakes their
// statement trees.
type ContributionValidator struct {
	baker     *StatementBaker
	validator *CommandValidator
}

func NewContributionValidator(baker *StatementBaker, validator *CommandValidator) *ContributionValidator {
	return &ContributionValidator{baker: baker, validator: validator}
}

func (v *ContributionValidator) Validate(ctx context.Context, contributions []ContributionDefinition, cmd *CreateThingsCommand, cache *ResolutionCache) ([]BakedContribution, error) {
	out := make([]BakedContribution, 0, len(contributions))
	for i, c := range contributions {
		if !graph.ValidLabel(c.Label) {
			return nil, graph.Errorf(graph.ErrInvalidLabel, "invalid label for contribution %d", i)
		}
		for _, class := range c.Classes {
			if err := v.validator.validateClassReference(ctx, class, cmd, cache); err != nil {
				return nil, err
			}
		}
		if len(c.Statements) == 0 {
			return nil, graph.Errorf(graph.ErrEmptyContribution, "contribution %d has no statements", i)
		}
		baked := StatementSet{}
		if err := v.baker.Bake(ctx, ContributionPlaceholder(i), c.Statements, cmd, cache, baked); err != nil {
			return nil, err
		}
		out = append(out, BakedContribution{Label: c.Label, Classes: c.Classes, Statements: baked})
	}
	return out, nil
}
