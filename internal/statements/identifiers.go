package statements

import (
	"context"
	"reflect"
	"regexp"
	"sort"

	"orkg/internal/graph"
)

var identifierPatterns = map[string]*regexp.Regexp{
	"doi":  regexp.MustCompile(`(?i)^10\.\d{4,9}/\S+$`),
	"isbn": regexp.MustCompile(`^(97[89][- ]?)?\d{1,5}[- ]?\d{1,7}[- ]?\d{1,7}[- ]?[\dX]$`),
	"issn": regexp.MustCompile(`^\d{4}-\d{3}[\dxX]$`),
}

// ValidateIdentifiers checks the keys and values of a paper identifier map.
func ValidateIdentifiers(identifiers map[string][]string) error {
	for key, values := range identifiers {
		if _, ok := graph.IdentifierPredicates[key]; !ok {
			return graph.Errorf(graph.ErrInvalidIdentifier, "unknown identifier %q", key)
		}
		for _, v := range values {
			if !validIdentifier(key, v) {
				return graph.Errorf(graph.ErrInvalidIdentifier, "invalid %s %q", key, v)
			}
		}
	}
	return nil
}

func validIdentifier(key, value string) bool {
	if key == "url" {
		return graph.IsAbsoluteURI(value)
	}
	if p, ok := identifierPatterns[key]; ok {
		return p.MatchString(value)
	}
	return graph.ValidLabel(value)
}

// IdentifierUpdater maintains the identifier literals (doi, isbn, issn, url)
// of a subject.
type IdentifierUpdater struct {
	collection *CollectionUpdater
}

func NewIdentifierUpdater(collection *CollectionUpdater) *IdentifierUpdater {
	return &IdentifierUpdater{collection: collection}
}

// Update writes newIdentifiers over the subject's statements. Nothing
// happens when the identifiers equal oldIdentifiers.
func (u *IdentifierUpdater) Update(ctx context.Context, statements map[graph.ThingID][]graph.Statement, contributorID graph.ContributorID, subjectID graph.ThingID, newIdentifiers, oldIdentifiers map[string][]string) error {
	if sameIdentifiers(newIdentifiers, oldIdentifiers) {
		return nil
	}
	if err := ValidateIdentifiers(newIdentifiers); err != nil {
		return err
	}
	keys := make([]string, 0, len(graph.IdentifierPredicates))
	for k := range graph.IdentifierPredicates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := u.collection.UpdateLiterals(ctx, statements[subjectID], contributorID, subjectID, graph.IdentifierPredicates[key], newIdentifiers[key], graph.XSDString.Prefixed); err != nil {
			return err
		}
	}
	return nil
}

func sameIdentifiers(a, b map[string][]string) bool {
	normalize := func(m map[string][]string) map[string][]string {
		out := map[string][]string{}
		for k, v := range m {
			if len(v) == 0 {
				continue
			}
			s := append([]string(nil), v...)
			sort.Strings(s)
			out[k] = s
		}
		return out
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}
