package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Reference errors
var (
	ErrThingNotFound         = errors.New("thing not found")
	ErrThingNotDefined       = errors.New("thing not defined")
	ErrPredicateNotFound     = errors.New("predicate not found")
	ErrClassNotFound         = errors.New("class not found")
	ErrTemplateNotFound      = errors.New("template not found")
	ErrPaperNotFound         = errors.New("paper not found")
	ErrResearchFieldNotFound = errors.New("research field not found")
	ErrSDGNotFound           = errors.New("sustainable development goal not found")
)

// Type mismatch errors
var (
	ErrThingIsNotAClass                     = errors.New("thing is not a class")
	ErrThingIsNotAPredicate                 = errors.New("thing is not a predicate")
	ErrObjectIsNotAClass                    = errors.New("object is not a class")
	ErrObjectIsNotAPredicate                = errors.New("object is not a predicate")
	ErrObjectIsNotAList                     = errors.New("object is not a list")
	ErrObjectIsNotALiteral                  = errors.New("object is not a literal")
	ErrObjectMustNotBeALiteral              = errors.New("object must not be a literal")
	ErrResourceIsNotAnInstanceOfTargetClass = errors.New("resource is not an instance of target class")
)

// Structural errors
var (
	ErrInvalidStatementSubject = errors.New("invalid statement subject")
	ErrReservedClass           = errors.New("reserved class")
	ErrURINotAbsolute          = errors.New("uri not absolute")
	ErrURIAlreadyInUse         = errors.New("uri already in use")
	ErrDuplicateTempIDs        = errors.New("duplicate temp ids")
	ErrInvalidTempID           = errors.New("invalid temp id")
	ErrEmptyContribution       = errors.New("empty contribution")
	ErrInvalidIdentifier       = errors.New("invalid identifier")
	ErrTemplateAlreadyExists   = errors.New("template already exists for class")
)

// Shape and constraint errors
var (
	ErrInvalidMinCount          = errors.New("invalid min count")
	ErrInvalidMaxCount          = errors.New("invalid max count")
	ErrInvalidCardinality       = errors.New("invalid cardinality")
	ErrInvalidBounds            = errors.New("invalid bounds")
	ErrInvalidRegexPattern      = errors.New("invalid regex pattern")
	ErrMissingPropertyValues    = errors.New("missing property values")
	ErrTooManyPropertyValues    = errors.New("too many property values")
	ErrLabelDoesNotMatchPattern = errors.New("label does not match pattern")
	ErrNumberTooLow             = errors.New("number too low")
	ErrNumberTooHigh            = errors.New("number too high")
	ErrInvalidLiteral           = errors.New("invalid literal")
	ErrInvalidLabel             = errors.New("invalid label")
	ErrInvalidPlaceholder       = errors.New("invalid placeholder")
	ErrInvalidDescription       = errors.New("invalid description")
	ErrInvalidLiteralLabel      = errors.New("invalid literal label")
	ErrInvalidLiteralDatatype   = errors.New("invalid literal datatype")
	ErrInvalidDatatype          = errors.New("invalid datatype")
)

// Authorization errors
var (
	ErrNeitherOwnerNorCurator = errors.New("neither owner nor curator")
	ErrNotACurator            = errors.New("not a curator")
	ErrResourceInUse          = errors.New("resource in use")
)

// Error is a caller-visible failure of a content-type command. Kind is one of
// the sentinel errors above and is matched with errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var forbidden = []error{ErrNeitherOwnerNorCurator, ErrNotACurator}

var notFound = []error{ErrThingNotFound, ErrThingNotDefined, ErrPredicateNotFound, ErrClassNotFound, ErrTemplateNotFound, ErrPaperNotFound, ErrResearchFieldNotFound, ErrSDGNotFound}

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool {
	return matchesAny(err, forbidden)
}

// IsNotFound reports whether err is a reference error.
func IsNotFound(err error) bool {
	return matchesAny(err, notFound)
}

// IsInvalid reports whether err is any content-type validation error. Such
// errors are never worth retrying.
func IsInvalid(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

func matchesAny(err error, kinds []error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// KindName returns a stable snake_case name for the kind of err, suitable as
// a metric label. Errors outside the taxonomy yield "internal".
func KindName(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == nil {
		return "internal"
	}
	return strings.ReplaceAll(e.Kind.Error(), " ", "_")
}
