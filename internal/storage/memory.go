package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"orkg/internal/graph"
)

// MemoryStore is an in-process graph.Store and graph.SchemaStore. It backs
// dry runs of the CLI and the unit tests, and records every mutating call.
type MemoryStore struct {
	mu sync.Mutex

	things     map[graph.ThingID]graph.Thing
	statements []graph.Statement
	curators   map[graph.ContributorID]struct{}
	seq        map[string]int
	now        func() time.Time

	mutations []string
	lookups   int
}

var (
	_ graph.Store       = (*MemoryStore)(nil)
	_ graph.SchemaStore = (*MemoryStore)(nil)
)

func NewMemoryStore(curators ...graph.ContributorID) *MemoryStore {
	m := &MemoryStore{
		things:   map[graph.ThingID]graph.Thing{},
		curators: map[graph.ContributorID]struct{}{},
		seq:      map[string]int{},
		now:      time.Now,
	}
	for _, c := range curators {
		m.curators[c] = struct{}{}
	}
	for _, p := range graph.VocabularyPredicates {
		m.things[p] = graph.Predicate{ID: p, Label: string(p)}
	}
	for _, c := range graph.VocabularyClasses {
		m.things[c] = graph.Class{ID: c, Label: string(c)}
	}
	return m
}

// Mutations lists the mutating calls made so far, oldest first.
func (m *MemoryStore) Mutations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.mutations...)
}

// ResetMutations clears the mutation log, typically after fixture setup.
func (m *MemoryStore) ResetMutations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations = nil
}

// Lookups counts schema lookups by id.
func (m *MemoryStore) Lookups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups
}

// Put stores a thing as-is. Test fixtures use it to seed the graph.
func (m *MemoryStore) Put(t graph.Thing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.things[t.ThingID()] = t
}

func (m *MemoryStore) nextID(prefix string) string {
	m.seq[prefix]++
	return fmt.Sprintf("%s%d", prefix, m.seq[prefix])
}

func (m *MemoryStore) record(format string, args ...any) {
	m.mutations = append(m.mutations, fmt.Sprintf(format, args...))
}

func (m *MemoryStore) CreateResource(_ context.Context, cmd graph.CreateResourceCommand) (graph.ThingID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := graph.ThingID(m.nextID("R"))
	method := cmd.ExtractionMethod
	if method == "" {
		method = graph.ExtractionUnknown
	}
	m.things[id] = graph.Resource{ID: id, Label: cmd.Label, Classes: append([]graph.ThingID(nil), cmd.Classes...), CreatedBy: cmd.ContributorID, ExtractionMethod: method, CreatedAt: m.now()}
	m.record("CreateResource %s %q", id, cmd.Label)
	return id, nil
}

func (m *MemoryStore) CreateLiteral(_ context.Context, cmd graph.CreateLiteralCommand) (graph.ThingID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := graph.ThingID(m.nextID("L"))
	datatype := cmd.Datatype
	if datatype == "" {
		datatype = graph.XSDString.Prefixed
	}
	m.things[id] = graph.Literal{ID: id, Label: cmd.Label, Datatype: datatype, CreatedBy: cmd.ContributorID, CreatedAt: m.now()}
	m.record("CreateLiteral %s %q %s", id, cmd.Label, datatype)
	return id, nil
}

func (m *MemoryStore) CreatePredicate(_ context.Context, cmd graph.CreatePredicateCommand) (graph.ThingID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := graph.ThingID(m.nextID("P"))
	m.things[id] = graph.Predicate{ID: id, Label: cmd.Label, CreatedBy: cmd.ContributorID, CreatedAt: m.now()}
	m.record("CreatePredicate %s %q", id, cmd.Label)
	return id, nil
}

func (m *MemoryStore) CreateClass(_ context.Context, cmd graph.CreateClassCommand) (graph.ThingID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := graph.ThingID(m.nextID("C"))
	m.things[id] = graph.Class{ID: id, Label: cmd.Label, URI: cmd.URI, CreatedBy: cmd.ContributorID, CreatedAt: m.now()}
	m.record("CreateClass %s %q", id, cmd.Label)
	return id, nil
}

func (m *MemoryStore) CreateList(ctx context.Context, cmd graph.CreateListCommand) (graph.ThingID, error) {
	m.mu.Lock()
	id := graph.ThingID(m.nextID("R"))
	m.things[id] = graph.Resource{ID: id, Label: cmd.Label, Classes: []graph.ThingID{graph.ClassList}, CreatedBy: cmd.ContributorID, ExtractionMethod: graph.ExtractionUnknown, CreatedAt: m.now()}
	m.record("CreateList %s %q", id, cmd.Label)
	m.mu.Unlock()
	if len(cmd.Elements) == 0 {
		return id, nil
	}
	return id, m.UpdateList(ctx, id, cmd.ContributorID, cmd.Elements)
}

func (m *MemoryStore) UpdateList(_ context.Context, id graph.ThingID, contributorID graph.ContributorID, elements []graph.ThingID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.things[id].(graph.Resource)
	if !ok || !r.HasClass(graph.ClassList) {
		return graph.Errorf(graph.ErrThingNotFound, "list %q not found", id)
	}
	kept := m.statements[:0]
	for _, s := range m.statements {
		if s.Subject.ThingID() == id && s.Predicate.ID == graph.PredHasListElement {
			continue
		}
		kept = append(kept, s)
	}
	m.statements = kept
	for i, e := range elements {
		if _, err := m.addStatement(contributorID, id, graph.PredHasListElement, e, i); err != nil {
			return err
		}
	}
	m.record("UpdateList %s %v", id, elements)
	return nil
}

func (m *MemoryStore) CreateStatement(_ context.Context, contributorID graph.ContributorID, subjectID, predicateID, objectID graph.ThingID) (graph.StatementID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.addStatement(contributorID, subjectID, predicateID, objectID, 0)
	if err != nil {
		return "", err
	}
	m.record("CreateStatement %s %s %s %s", id, subjectID, predicateID, objectID)
	return id, nil
}

func (m *MemoryStore) addStatement(contributorID graph.ContributorID, subjectID, predicateID, objectID graph.ThingID, index int) (graph.StatementID, error) {
	subject, ok := m.things[subjectID]
	if !ok {
		return "", graph.Errorf(graph.ErrThingNotFound, "subject %q not found", subjectID)
	}
	if _, isLiteral := subject.(graph.Literal); isLiteral {
		return "", graph.Errorf(graph.ErrInvalidStatementSubject, "literal %q cannot be a statement subject", subjectID)
	}
	predicate, ok := m.things[predicateID].(graph.Predicate)
	if !ok {
		return "", graph.Errorf(graph.ErrPredicateNotFound, "predicate %q not found", predicateID)
	}
	object, ok := m.things[objectID]
	if !ok {
		return "", graph.Errorf(graph.ErrThingNotFound, "object %q not found", objectID)
	}
	id := graph.StatementID(m.nextID("S"))
	m.statements = append(m.statements, graph.Statement{
		ID:        id,
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
		Index:     index,
		CreatedBy: contributorID,
		CreatedAt: m.now(),
	})
	return id, nil
}

func (m *MemoryStore) FindStatements(_ context.Context, filter graph.StatementFilter) ([]graph.Statement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]graph.Statement, 0)
	for _, s := range m.statements {
		if filter.SubjectID != "" && s.Subject.ThingID() != filter.SubjectID {
			continue
		}
		if filter.PredicateID != "" && s.Predicate.ID != filter.PredicateID {
			continue
		}
		if filter.ObjectID != "" && s.Object.ThingID() != filter.ObjectID {
			continue
		}
		s.Subject = m.things[s.Subject.ThingID()]
		s.Object = m.things[s.Object.ThingID()]
		out = append(out, s)
	}
	return out, nil
}

func (m *MemoryStore) DeleteStatements(_ context.Context, ids []graph.StatementID) error {
	if len(ids) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := map[graph.StatementID]struct{}{}
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := m.statements[:0]
	for _, s := range m.statements {
		if _, ok := drop[s.ID]; ok {
			continue
		}
		kept = append(kept, s)
	}
	m.statements = kept
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		sorted = append(sorted, string(id))
	}
	sort.Strings(sorted)
	m.record("DeleteStatements %s", strings.Join(sorted, ","))
	return nil
}

func (m *MemoryStore) DeleteResource(_ context.Context, id graph.ThingID, contributorID graph.ContributorID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.things[id].(graph.Resource)
	if !ok {
		return graph.Errorf(graph.ErrThingNotFound, "resource %q not found", id)
	}
	if _, curator := m.curators[contributorID]; r.CreatedBy != contributorID && !curator {
		return graph.Errorf(graph.ErrNeitherOwnerNorCurator, "contributor %q does not own resource %q", contributorID, id)
	}
	for _, s := range m.statements {
		if s.Subject.ThingID() == id || s.Object.ThingID() == id {
			return graph.Errorf(graph.ErrResourceInUse, "resource %q is still referenced by statement %q", id, s.ID)
		}
	}
	delete(m.things, id)
	m.record("DeleteResource %s", id)
	return nil
}

func (m *MemoryStore) UpdateResource(_ context.Context, cmd graph.UpdateResourceCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.things[cmd.ID].(graph.Resource)
	if !ok {
		return graph.Errorf(graph.ErrThingNotFound, "resource %q not found", cmd.ID)
	}
	if cmd.Label != nil {
		r.Label = *cmd.Label
	}
	if cmd.Classes != nil {
		r.Classes = append([]graph.ThingID(nil), cmd.Classes...)
	}
	m.things[cmd.ID] = r
	m.record("UpdateResource %s", cmd.ID)
	return nil
}

func (m *MemoryStore) UpdateLiteral(_ context.Context, cmd graph.UpdateLiteralCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.things[cmd.ID].(graph.Literal)
	if !ok {
		return graph.Errorf(graph.ErrThingNotFound, "literal %q not found", cmd.ID)
	}
	l.Label = cmd.Label
	if cmd.Datatype != "" {
		l.Datatype = cmd.Datatype
	}
	m.things[cmd.ID] = l
	m.record("UpdateLiteral %s %q", cmd.ID, cmd.Label)
	return nil
}

func (m *MemoryStore) FindThingByID(_ context.Context, id graph.ThingID) (graph.Thing, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	t, ok := m.things[id]
	return t, ok, nil
}

func (m *MemoryStore) FindPredicateByID(_ context.Context, id graph.ThingID) (graph.Predicate, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	p, ok := m.things[id].(graph.Predicate)
	return p, ok, nil
}

func (m *MemoryStore) FindClassByID(_ context.Context, id graph.ThingID) (graph.Class, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	c, ok := m.things[id].(graph.Class)
	return c, ok, nil
}

func (m *MemoryStore) FindClassByURI(_ context.Context, uri string) (graph.Class, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	for _, t := range m.things {
		if c, ok := t.(graph.Class); ok && c.URI != "" && c.URI == uri {
			return c, true, nil
		}
	}
	return graph.Class{}, false, nil
}
