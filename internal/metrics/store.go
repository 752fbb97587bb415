package metrics

import (
	"context"

	"orkg/internal/graph"
)

// Store counts the things and statements created through a graph.Store.
type Store struct {
	graph.Store
	m *Metrics
}

func InstrumentStore(store graph.Store, m *Metrics) *Store {
	return &Store{Store: store, m: m}
}

func (s *Store) CreateResource(ctx context.Context, cmd graph.CreateResourceCommand) (graph.ThingID, error) {
	id, err := s.Store.CreateResource(ctx, cmd)
	s.count("resource", err)
	return id, err
}

func (s *Store) CreateLiteral(ctx context.Context, cmd graph.CreateLiteralCommand) (graph.ThingID, error) {
	id, err := s.Store.CreateLiteral(ctx, cmd)
	s.count("literal", err)
	return id, err
}

func (s *Store) CreatePredicate(ctx context.Context, cmd graph.CreatePredicateCommand) (graph.ThingID, error) {
	id, err := s.Store.CreatePredicate(ctx, cmd)
	s.count("predicate", err)
	return id, err
}

func (s *Store) CreateClass(ctx context.Context, cmd graph.CreateClassCommand) (graph.ThingID, error) {
	id, err := s.Store.CreateClass(ctx, cmd)
	s.count("class", err)
	return id, err
}

func (s *Store) CreateList(ctx context.Context, cmd graph.CreateListCommand) (graph.ThingID, error) {
	id, err := s.Store.CreateList(ctx, cmd)
	s.count("list", err)
	return id, err
}

func (s *Store) CreateStatement(ctx context.Context, contributorID graph.ContributorID, subjectID, predicateID, objectID graph.ThingID) (graph.StatementID, error) {
	id, err := s.Store.CreateStatement(ctx, contributorID, subjectID, predicateID, objectID)
	if err == nil {
		s.m.StatementsCreated.Inc()
	}
	return id, err
}

func (s *Store) count(kind string, err error) {
	if err == nil {
		s.m.ThingsCreated.WithLabelValues(kind).Inc()
	}
}
