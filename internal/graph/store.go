package graph

import "context"

type CreateResourceCommand struct {
	ContributorID    ContributorID
	Label            string
	Classes          []ThingID
	ExtractionMethod ExtractionMethod
}

type CreateLiteralCommand struct {
	ContributorID ContributorID
	Label         string
	Datatype      string
}

type CreatePredicateCommand struct {
	ContributorID ContributorID
	Label         string
}

type CreateClassCommand struct {
	ContributorID ContributorID
	Label         string
	URI           string
}

type CreateListCommand struct {
	ContributorID ContributorID
	Label         string
	Elements      []ThingID
}

type UpdateResourceCommand struct {
	ID            ThingID
	ContributorID ContributorID
	Label         *string
	Classes       []ThingID
}

type UpdateLiteralCommand struct {
	ID            ThingID
	ContributorID ContributorID
	Label         string
	Datatype      string
}

// StatementFilter selects statements; empty fields match anything.
type StatementFilter struct {
	SubjectID   ThingID
	PredicateID ThingID
	ObjectID    ThingID
}

// Store is the write side of the graph the content-type core mutates. Every
// call is a synchronous, independently atomic mutation; transactions are owned
// by the caller.
type Store interface {
	CreateResource(ctx context.Context, cmd CreateResourceCommand) (ThingID, error)
	CreateLiteral(ctx context.Context, cmd CreateLiteralCommand) (ThingID, error)
	CreatePredicate(ctx context.Context, cmd CreatePredicateCommand) (ThingID, error)
	CreateClass(ctx context.Context, cmd CreateClassCommand) (ThingID, error)
	CreateList(ctx context.Context, cmd CreateListCommand) (ThingID, error)
	UpdateList(ctx context.Context, id ThingID, contributorID ContributorID, elements []ThingID) error
	CreateStatement(ctx context.Context, contributorID ContributorID, subjectID, predicateID, objectID ThingID) (StatementID, error)
	FindStatements(ctx context.Context, filter StatementFilter) ([]Statement, error)
	DeleteStatements(ctx context.Context, ids []StatementID) error
	// DeleteResource fails with ErrNeitherOwnerNorCurator when contributorID
	// neither created the resource nor is a curator.
	DeleteResource(ctx context.Context, id ThingID, contributorID ContributorID) error
	UpdateResource(ctx context.Context, cmd UpdateResourceCommand) error
	UpdateLiteral(ctx context.Context, cmd UpdateLiteralCommand) error
}

// SchemaStore resolves persisted things. The boolean result is false when no
// thing of the requested kind exists.
type SchemaStore interface {
	FindThingByID(ctx context.Context, id ThingID) (Thing, bool, error)
	FindPredicateByID(ctx context.Context, id ThingID) (Predicate, bool, error)
	FindClassByID(ctx context.Context, id ThingID) (Class, bool, error)
	FindClassByURI(ctx context.Context, uri string) (Class, bool, error)
}
