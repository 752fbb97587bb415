package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"orkg/internal/graph"
)

const (
	kindResource  = "resource"
	kindLiteral   = "literal"
	kindPredicate = "predicate"
	kindClass     = "class"
)

const thingColumns = `thing_id, kind, label, classes, datatype, COALESCE(uri, ''), extraction_method, created_by, created_at`

// GraphRepo is the Postgres graph.Store and graph.SchemaStore. Things live in
// one table keyed by prefixed sequence ids, statements in another.
type GraphRepo struct {
	q querier
}

var (
	_ graph.Store       = (*GraphRepo)(nil)
	_ graph.SchemaStore = (*GraphRepo)(nil)
)

// NewGraphRepo returns a repo working directly on the pool, outside any
// transaction. Commands should use DB.InTx instead.
func NewGraphRepo(db *DB) *GraphRepo {
	return &GraphRepo{q: db.Pool}
}

func (r *GraphRepo) nextID(ctx context.Context, prefix string) (graph.ThingID, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('thing_id_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next thing id: %w", err)
	}
	return graph.ThingID(fmt.Sprintf("%s%d", prefix, n)), nil
}

func (r *GraphRepo) insertThing(ctx context.Context, prefix, kind, label string, classes []graph.ThingID, datatype string, uri *string, method graph.ExtractionMethod, contributorID graph.ContributorID) (graph.ThingID, error) {
	id, err := r.nextID(ctx, prefix)
	if err != nil {
		return "", err
	}
	if method == "" {
		method = graph.ExtractionUnknown
	}
	_, err = r.q.Exec(ctx, `
INSERT INTO things(thing_id, kind, label, classes, datatype, uri, extraction_method, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(id), kind, label, idStrings(classes), datatype, uri, string(method), string(contributorID))
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", kind, err)
	}
	return id, nil
}

func (r *GraphRepo) CreateResource(ctx context.Context, cmd graph.CreateResourceCommand) (graph.ThingID, error) {
	return r.insertThing(ctx, "R", kindResource, cmd.Label, cmd.Classes, "", nil, cmd.ExtractionMethod, cmd.ContributorID)
}

func (r *GraphRepo) CreateLiteral(ctx context.Context, cmd graph.CreateLiteralCommand) (graph.ThingID, error) {
	return r.insertThing(ctx, "L", kindLiteral, cmd.Label, nil, cmd.Datatype, nil, "", cmd.ContributorID)
}

func (r *GraphRepo) CreatePredicate(ctx context.Context, cmd graph.CreatePredicateCommand) (graph.ThingID, error) {
	return r.insertThing(ctx, "P", kindPredicate, cmd.Label, nil, "", nil, "", cmd.ContributorID)
}

func (r *GraphRepo) CreateClass(ctx context.Context, cmd graph.CreateClassCommand) (graph.ThingID, error) {
	var uri *string
	if cmd.URI != "" {
		uri = &cmd.URI
	}
	return r.insertThing(ctx, "C", kindClass, cmd.Label, nil, "", uri, "", cmd.ContributorID)
}

func (r *GraphRepo) CreateList(ctx context.Context, cmd graph.CreateListCommand) (graph.ThingID, error) {
	id, err := r.insertThing(ctx, "R", kindResource, cmd.Label, []graph.ThingID{graph.ClassList}, "", nil, "", cmd.ContributorID)
	if err != nil {
		return "", err
	}
	if len(cmd.Elements) == 0 {
		return id, nil
	}
	return id, r.UpdateList(ctx, id, cmd.ContributorID, cmd.Elements)
}

func (r *GraphRepo) UpdateList(ctx context.Context, id graph.ThingID, contributorID graph.ContributorID, elements []graph.ThingID) error {
	thing, ok, err := r.FindThingByID(ctx, id)
	if err != nil {
		return err
	}
	if list, isResource := thing.(graph.Resource); !ok || !isResource || !list.HasClass(graph.ClassList) {
		return graph.Errorf(graph.ErrThingNotFound, "list %q not found", id)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM statements WHERE subject_id=$1 AND predicate_id=$2`, string(id), string(graph.PredHasListElement)); err != nil {
		return fmt.Errorf("clear list elements: %w", err)
	}
	for i, e := range elements {
		if _, err := r.insertStatement(ctx, contributorID, id, graph.PredHasListElement, e, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *GraphRepo) CreateStatement(ctx context.Context, contributorID graph.ContributorID, subjectID, predicateID, objectID graph.ThingID) (graph.StatementID, error) {
	return r.insertStatement(ctx, contributorID, subjectID, predicateID, objectID, 0)
}

func (r *GraphRepo) insertStatement(ctx context.Context, contributorID graph.ContributorID, subjectID, predicateID, objectID graph.ThingID, index int) (graph.StatementID, error) {
	kinds, err := r.kinds(ctx, subjectID, predicateID, objectID)
	if err != nil {
		return "", err
	}
	switch kind, ok := kinds[subjectID]; {
	case !ok:
		return "", graph.Errorf(graph.ErrThingNotFound, "subject %q not found", subjectID)
	case kind == kindLiteral:
		return "", graph.Errorf(graph.ErrInvalidStatementSubject, "literal %q cannot be a statement subject", subjectID)
	}
	if kinds[predicateID] != kindPredicate {
		return "", graph.Errorf(graph.ErrPredicateNotFound, "predicate %q not found", predicateID)
	}
	if _, ok := kinds[objectID]; !ok {
		return "", graph.Errorf(graph.ErrThingNotFound, "object %q not found", objectID)
	}
	id := graph.StatementID("S" + uuid.NewString())
	_, err = r.q.Exec(ctx, `
INSERT INTO statements(statement_id, subject_id, predicate_id, object_id, list_index, created_by)
VALUES ($1, $2, $3, $4, $5, $6)`,
		string(id), string(subjectID), string(predicateID), string(objectID), index, string(contributorID))
	if err != nil {
		return "", fmt.Errorf("insert statement: %w", err)
	}
	return id, nil
}

func (r *GraphRepo) kinds(ctx context.Context, ids ...graph.ThingID) (map[graph.ThingID]string, error) {
	rows, err := r.q.Query(ctx, `SELECT thing_id, kind FROM things WHERE thing_id = ANY($1)`, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("query thing kinds: %w", err)
	}
	defer rows.Close()
	out := map[graph.ThingID]string{}
	for rows.Next() {
		var id, kind string
		if err := rows.Scan(&id, &kind); err != nil {
			return nil, err
		}
		out[graph.ThingID(id)] = kind
	}
	return out, rows.Err()
}

// FindStatements returns matches in insertion order.
func (r *GraphRepo) FindStatements(ctx context.Context, filter graph.StatementFilter) ([]graph.Statement, error) {
	rows, err := r.q.Query(ctx, `
SELECT statement_id, subject_id, predicate_id, object_id, list_index, created_by, created_at
FROM statements
WHERE ($1 = '' OR subject_id = $1)
  AND ($2 = '' OR predicate_id = $2)
  AND ($3 = '' OR object_id = $3)
ORDER BY seq`, string(filter.SubjectID), string(filter.PredicateID), string(filter.ObjectID))
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	type row struct {
		id                 string
		subject, predicate string
		object, createdBy  string
		index              int
		createdAt          time.Time
	}
	var found []row
	for rows.Next() {
		var x row
		if err := rows.Scan(&x.id, &x.subject, &x.predicate, &x.object, &x.index, &x.createdBy, &x.createdAt); err != nil {
			rows.Close()
			return nil, err
		}
		found = append(found, x)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}

	ids := make([]graph.ThingID, 0, len(found)*3)
	for _, x := range found {
		ids = append(ids, graph.ThingID(x.subject), graph.ThingID(x.predicate), graph.ThingID(x.object))
	}
	things, err := r.findThings(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]graph.Statement, 0, len(found))
	for _, x := range found {
		predicate, _ := things[graph.ThingID(x.predicate)].(graph.Predicate)
		out = append(out, graph.Statement{
			ID:        graph.StatementID(x.id),
			Subject:   things[graph.ThingID(x.subject)],
			Predicate: predicate,
			Object:    things[graph.ThingID(x.object)],
			Index:     x.index,
			CreatedBy: graph.ContributorID(x.createdBy),
			CreatedAt: x.createdAt,
		})
	}
	return out, nil
}

func (r *GraphRepo) findThings(ctx context.Context, ids []graph.ThingID) (map[graph.ThingID]graph.Thing, error) {
	out := map[graph.ThingID]graph.Thing{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+thingColumns+` FROM things WHERE thing_id = ANY($1)`, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("query things: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanThing(rows)
		if err != nil {
			return nil, err
		}
		out[t.ThingID()] = t
	}
	return out, rows.Err()
}

func (r *GraphRepo) DeleteStatements(ctx context.Context, ids []graph.StatementID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, string(id))
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM statements WHERE statement_id = ANY($1)`, raw); err != nil {
		return fmt.Errorf("delete statements: %w", err)
	}
	return nil
}

func (r *GraphRepo) DeleteResource(ctx context.Context, id graph.ThingID, contributorID graph.ContributorID) error {
	var createdBy string
	var curator bool
	err := r.q.QueryRow(ctx, `
SELECT t.created_by, EXISTS(SELECT 1 FROM curators c WHERE c.contributor_id = $2)
FROM things t WHERE t.thing_id = $1 AND t.kind = 'resource'`, string(id), string(contributorID)).Scan(&createdBy, &curator)
	if errors.Is(err, pgx.ErrNoRows) {
		return graph.Errorf(graph.ErrThingNotFound, "resource %q not found", id)
	}
	if err != nil {
		return fmt.Errorf("find resource: %w", err)
	}
	if graph.ContributorID(createdBy) != contributorID && !curator {
		return graph.Errorf(graph.ErrNeitherOwnerNorCurator, "contributor %q does not own resource %q", contributorID, id)
	}
	var inUse bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM statements WHERE subject_id = $1 OR object_id = $1)`, string(id)).Scan(&inUse); err != nil {
		return fmt.Errorf("check resource usage: %w", err)
	}
	if inUse {
		return graph.Errorf(graph.ErrResourceInUse, "resource %q is still referenced", id)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM things WHERE thing_id = $1`, string(id)); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

func (r *GraphRepo) UpdateResource(ctx context.Context, cmd graph.UpdateResourceCommand) error {
	var classes []string
	if cmd.Classes != nil {
		classes = idStrings(cmd.Classes)
	}
	tag, err := r.q.Exec(ctx, `
UPDATE things SET label = COALESCE($2::text, label), classes = COALESCE($3::text[], classes)
WHERE thing_id = $1 AND kind = 'resource'`, string(cmd.ID), cmd.Label, classes)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return graph.Errorf(graph.ErrThingNotFound, "resource %q not found", cmd.ID)
	}
	return nil
}

func (r *GraphRepo) UpdateLiteral(ctx context.Context, cmd graph.UpdateLiteralCommand) error {
	tag, err := r.q.Exec(ctx, `
UPDATE things SET label = $2, datatype = COALESCE(NULLIF($3, ''), datatype)
WHERE thing_id = $1 AND kind = 'literal'`, string(cmd.ID), cmd.Label, cmd.Datatype)
	if err != nil {
		return fmt.Errorf("update literal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return graph.Errorf(graph.ErrThingNotFound, "literal %q not found", cmd.ID)
	}
	return nil
}

func (r *GraphRepo) FindThingByID(ctx context.Context, id graph.ThingID) (graph.Thing, bool, error) {
	return r.findOne(ctx, `SELECT `+thingColumns+` FROM things WHERE thing_id = $1`, string(id))
}

func (r *GraphRepo) FindPredicateByID(ctx context.Context, id graph.ThingID) (graph.Predicate, bool, error) {
	t, ok, err := r.FindThingByID(ctx, id)
	p, isPredicate := t.(graph.Predicate)
	return p, ok && isPredicate, err
}

func (r *GraphRepo) FindClassByID(ctx context.Context, id graph.ThingID) (graph.Class, bool, error) {
	t, ok, err := r.FindThingByID(ctx, id)
	c, isClass := t.(graph.Class)
	return c, ok && isClass, err
}

func (r *GraphRepo) FindClassByURI(ctx context.Context, uri string) (graph.Class, bool, error) {
	t, ok, err := r.findOne(ctx, `SELECT `+thingColumns+` FROM things WHERE kind = 'class' AND uri = $1`, uri)
	c, isClass := t.(graph.Class)
	return c, ok && isClass, err
}

func (r *GraphRepo) findOne(ctx context.Context, sql string, args ...any) (graph.Thing, bool, error) {
	t, err := scanThing(r.q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find thing: %w", err)
	}
	return t, true, nil
}

func scanThing(row pgx.Row) (graph.Thing, error) {
	var (
		id, kind, label, datatype, uri, method, createdBy string
		classes                                          []string
		createdAt                                        time.Time
	)
	if err := row.Scan(&id, &kind, &label, &classes, &datatype, &uri, &method, &createdBy, &createdAt); err != nil {
		return nil, err
	}
	switch kind {
	case kindResource:
		ids := make([]graph.ThingID, 0, len(classes))
		for _, c := range classes {
			ids = append(ids, graph.ThingID(c))
		}
		return graph.Resource{ID: graph.ThingID(id), Label: label, Classes: ids, CreatedBy: graph.ContributorID(createdBy), ExtractionMethod: graph.ExtractionMethod(method), CreatedAt: createdAt}, nil
	case kindLiteral:
		return graph.Literal{ID: graph.ThingID(id), Label: label, Datatype: datatype, CreatedBy: graph.ContributorID(createdBy), CreatedAt: createdAt}, nil
	case kindPredicate:
		return graph.Predicate{ID: graph.ThingID(id), Label: label, CreatedBy: graph.ContributorID(createdBy), CreatedAt: createdAt}, nil
	case kindClass:
		return graph.Class{ID: graph.ThingID(id), Label: label, URI: uri, CreatedBy: graph.ContributorID(createdBy), CreatedAt: createdAt}, nil
	}
	return nil, fmt.Errorf("thing %s has unknown kind %q", id, kind)
}

func idStrings(ids []graph.ThingID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
