package things

import (
	"context"
	"fmt"

	"orkg/internal/graph"
)

// ContributionCreator creates the contributions of a paper together with the
// things and statements they use.
type ContributionCreator struct {
	store    graph.Store
	subgraph *SubgraphCreator
}

func NewContributionCreator(store graph.Store, subgraph *SubgraphCreator) *ContributionCreator {
	return &ContributionCreator{store: store, subgraph: subgraph}
}

// Create returns the ids of the new contribution resources, in input order.
func (c *ContributionCreator) Create(ctx context.Context, contributorID graph.ContributorID, method graph.ExtractionMethod, paperID graph.ThingID, cmd *CreateThingsCommand, cache *ResolutionCache, contributions []BakedContribution) ([]graph.ThingID, error) {
	lookup := Lookup{}
	if err := c.subgraph.CreateThings(ctx, contributorID, method, cmd, cache, lookup); err != nil {
		return nil, err
	}
	ids := make([]graph.ThingID, 0, len(contributions))
	for i, contribution := range contributions {
		classes := []graph.ThingID{graph.ClassContribution}
		for _, class := range contribution.Classes {
			realClass, err := lookup.Resolve(class)
			if err != nil {
				return nil, err
			}
			if realClass != graph.ClassContribution {
				classes = append(classes, realClass)
			}
		}
		id, err := c.store.CreateResource(ctx, graph.CreateResourceCommand{
			ContributorID:    contributorID,
			Label:            contribution.Label,
			Classes:          classes,
			ExtractionMethod: method,
		})
		if err != nil {
			return nil, fmt.Errorf("create contribution %d: %w", i, err)
		}
		if _, err := c.store.CreateStatement(ctx, contributorID, paperID, graph.PredContribution, id); err != nil {
			return nil, fmt.Errorf("link contribution %d: %w", i, err)
		}
		lookup[ContributionPlaceholder(i)] = id
		ids = append(ids, id)
	}
	for _, contribution := range contributions {
		if err := c.subgraph.CreateStatements(ctx, contributorID, contribution.Statements, lookup); err != nil {
			return nil, err
		}
	}
	return ids, nil
}
