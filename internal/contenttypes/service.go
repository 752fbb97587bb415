// Package contenttypes exposes the request-scoped entry points of the
// content-type core. A Service is cheap to build and is meant to be created
// per command over the store of the surrounding transaction.
package contenttypes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"orkg/internal/graph"
	"orkg/internal/statements"
	"orkg/internal/template"
	"orkg/internal/things"
)

type Service struct {
	store    graph.Store
	schema   graph.SchemaStore
	log      *zap.SugaredLogger
	curators map[graph.ContributorID]struct{}

	resolver      *things.Resolver
	commands      *things.CommandValidator
	contributions *things.ContributionValidator
	subgraph      *things.SubgraphCreator
	contributor   *things.ContributionCreator

	definitions *template.DefinitionValidator
	creator     *template.Creator
	reader      *template.Reader
	reconciler  *template.Reconciler
	values      *template.ValueValidator

	single      *statements.SingleUpdater
	identifiers *statements.IdentifierUpdater
	authors     *statements.AuthorUpdater
	sdgs        *statements.SDGUpdater
	fields      *statements.ResearchFieldUpdater
}

func NewService(store graph.Store, schema graph.SchemaStore, log *zap.SugaredLogger, curators ...graph.ContributorID) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	resolver := things.NewResolver(schema)
	commands := things.NewCommandValidator(resolver, schema)
	subgraph := things.NewSubgraphCreator(store)
	creator := template.NewCreator(store)
	single := statements.NewSingleUpdater(store)
	collection := statements.NewCollectionUpdater(store)

	s := &Service{
		store:         store,
		schema:        schema,
		log:           log,
		curators:      map[graph.ContributorID]struct{}{},
		resolver:      resolver,
		commands:      commands,
		contributions: things.NewContributionValidator(things.NewStatementBaker(resolver), commands),
		subgraph:      subgraph,
		contributor:   things.NewContributionCreator(store, subgraph),
		definitions:   template.NewDefinitionValidator(schema),
		creator:       creator,
		reader:        template.NewReader(store, schema),
		reconciler:    template.NewReconciler(creator, template.NewUpdater(store), template.NewDeleter(store, log)),
		values:        template.NewValueValidator(),
		single:        single,
		identifiers:   statements.NewIdentifierUpdater(collection),
		authors:       statements.NewAuthorUpdater(store),
		sdgs:          statements.NewSDGUpdater(schema, collection),
		fields:        statements.NewResearchFieldUpdater(schema, single),
	}
	for _, c := range curators {
		s.curators[c] = struct{}{}
	}
	return s
}

// authorize allows the creator of a thing and curators to modify it.
func (s *Service) authorize(owner, contributorID graph.ContributorID, id graph.ThingID) error {
	if owner == contributorID {
		return nil
	}
	if _, ok := s.curators[contributorID]; ok {
		return nil
	}
	return graph.Errorf(graph.ErrNeitherOwnerNorCurator, "contributor %q may not modify %q", contributorID, id)
}

func (s *Service) findResource(ctx context.Context, id, class graph.ThingID) (graph.Resource, bool, error) {
	thing, ok, err := s.schema.FindThingByID(ctx, id)
	if err != nil {
		return graph.Resource{}, false, fmt.Errorf("find %s: %w", id, err)
	}
	r, isResource := thing.(graph.Resource)
	if !ok || !isResource || !r.HasClass(class) {
		return graph.Resource{}, false, nil
	}
	return r, true, nil
}

func validateDescription(d *string) error {
	if !graph.ValidDescription(d) {
		return graph.Errorf(graph.ErrInvalidDescription, "invalid description")
	}
	return nil
}
