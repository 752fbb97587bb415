package graph

import (
	"strings"
	"time"
)

// ThingID identifies a resource, literal, predicate or class. During a single
// command it may also be a temp id (see IsTempID).
type ThingID string

func (id ThingID) String() string { return string(id) }

const (
	TempIDPrefix    = "#"
	MinTempIDLength = 3
)

// IsTempID reports whether s uses the temp id syntax. It does not check the
// minimum length, see ValidTempID.
func IsTempID(s string) bool {
	return strings.HasPrefix(s, TempIDPrefix)
}

func ValidTempID(s string) bool {
	return IsTempID(s) && len(s) >= MinTempIDLength
}

type StatementID string

type ContributorID string

type ExtractionMethod string

const (
	ExtractionUnknown   ExtractionMethod = "UNKNOWN"
	ExtractionManual    ExtractionMethod = "MANUAL"
	ExtractionAutomatic ExtractionMethod = "AUTOMATIC"
)

// Thing is any persisted graph node.
type Thing interface {
	ThingID() ThingID
	ThingLabel() string
	isThing()
}

type Resource struct {
	ID               ThingID          `json:"id"`
	Label            string           `json:"label"`
	Classes          []ThingID        `json:"classes"`
	CreatedBy        ContributorID    `json:"created_by"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	CreatedAt        time.Time        `json:"created_at"`
}

func (r Resource) ThingID() ThingID   { return r.ID }
func (r Resource) ThingLabel() string { return r.Label }
func (Resource) isThing()             {}

// HasClass reports whether c is among the resource's classes.
func (r Resource) HasClass(c ThingID) bool {
	for _, x := range r.Classes {
		if x == c {
			return true
		}
	}
	return false
}

type Literal struct {
	ID        ThingID       `json:"id"`
	Label     string        `json:"label"`
	Datatype  string        `json:"datatype"`
	CreatedBy ContributorID `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

func (l Literal) ThingID() ThingID   { return l.ID }
func (l Literal) ThingLabel() string { return l.Label }
func (Literal) isThing()             {}

type Predicate struct {
	ID        ThingID       `json:"id"`
	Label     string        `json:"label"`
	CreatedBy ContributorID `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

func (p Predicate) ThingID() ThingID   { return p.ID }
func (p Predicate) ThingLabel() string { return p.Label }
func (Predicate) isThing()             {}

type Class struct {
	ID        ThingID       `json:"id"`
	Label     string        `json:"label"`
	URI       string        `json:"uri,omitempty"`
	CreatedBy ContributorID `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

func (c Class) ThingID() ThingID   { return c.ID }
func (c Class) ThingLabel() string { return c.Label }
func (Class) isThing()             {}

// Statement is a subject-predicate-object triple. Index orders list
// elements and is zero for every other statement.
type Statement struct {
	ID        StatementID   `json:"id"`
	Subject   Thing         `json:"subject"`
	Predicate Predicate     `json:"predicate"`
	Object    Thing         `json:"object"`
	Index     int           `json:"index,omitempty"`
	CreatedBy ContributorID `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

// StatementIDs collects the ids of the given statements.
func StatementIDs(statements []Statement) []StatementID {
	out := make([]StatementID, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.ID)
	}
	return out
}

// WithPredicate filters statements down to the ones using predicate p.
func WithPredicate(statements []Statement, p ThingID) []Statement {
	out := make([]Statement, 0)
	for _, s := range statements {
		if s.Predicate.ID == p {
			out = append(out, s)
		}
	}
	return out
}

// GroupBySubject indexes statements by their subject id.
func GroupBySubject(statements []Statement) map[ThingID][]Statement {
	out := map[ThingID][]Statement{}
	for _, s := range statements {
		id := s.Subject.ThingID()
		out[id] = append(out[id], s)
	}
	return out
}
