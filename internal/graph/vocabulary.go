package graph

// Predicate ids used by the content-type components.
const (
	PredShProperty     ThingID = "sh:property"
	PredShPath         ThingID = "sh:path"
	PredShOrder        ThingID = "sh:order"
	PredShMinCount     ThingID = "sh:minCount"
	PredShMaxCount     ThingID = "sh:maxCount"
	PredShDatatype     ThingID = "sh:datatype"
	PredShClass        ThingID = "sh:class"
	PredShPattern      ThingID = "sh:pattern"
	PredShMinInclusive ThingID = "sh:minInclusive"
	PredShMaxInclusive ThingID = "sh:maxInclusive"
	PredShTargetClass  ThingID = "sh:targetClass"
	PredShClosed       ThingID = "sh:closed"
	PredPlaceholder    ThingID = "placeholder"
	PredDescription    ThingID = "description"
	PredHasListElement ThingID = "hasListElement"
	PredHasAuthors     ThingID = "hasAuthors"
	PredResearchField  ThingID = "P30"
	PredContribution   ThingID = "P31"
	PredSDG            ThingID = "sustainableDevelopmentGoal"
	PredDOI            ThingID = "P26"
	PredISBN           ThingID = "P5055"
	PredISSN           ThingID = "P5049"
	PredURL            ThingID = "url"
)

// Class ids.
const (
	ClassNodeShape             ThingID = "NodeShape"
	ClassPropertyShape         ThingID = "PropertyShape"
	ClassClass                 ThingID = "Class"
	ClassPredicate             ThingID = "Predicate"
	ClassList                  ThingID = "List"
	ClassLiteral               ThingID = "Literal"
	ClassResource              ThingID = "Resource"
	ClassThing                 ThingID = "Thing"
	ClassPaper                 ThingID = "Paper"
	ClassContribution          ThingID = "Contribution"
	ClassResearchField         ThingID = "ResearchField"
	ClassSDG                   ThingID = "SustainableDevelopmentGoal"
	ClassAuthor                ThingID = "Author"
	ClassInteger               ThingID = "Integer"
	ClassDecimal               ThingID = "Decimal"
	ClassFloat                 ThingID = "Float"
	ClassString                ThingID = "String"
	ClassBoolean               ThingID = "Boolean"
	ClassDate                  ThingID = "Date"
	ClassDateTime              ThingID = "DateTime"
	ClassURI                   ThingID = "URI"
	ClassPaperDeleted          ThingID = "PaperDeleted"
	ClassContributionDeleted   ThingID = "ContributionDeleted"
	ClassRosettaStoneStatement ThingID = "RosettaStoneStatement"
	ClassLatestVersion         ThingID = "LatestVersion"
)

var reservedClasses = map[ThingID]struct{}{
	ClassList:                  {},
	ClassLiteral:               {},
	ClassClass:                 {},
	ClassPredicate:             {},
	ClassResource:              {},
	ClassThing:                 {},
	ClassPaperDeleted:          {},
	ClassContributionDeleted:   {},
	ClassRosettaStoneStatement: {},
	ClassLatestVersion:         {},
}

// IsReservedClass reports whether c is managed by the system and may not be
// assigned to resources by a command.
func IsReservedClass(c ThingID) bool {
	_, ok := reservedClasses[c]
	return ok
}

// IsNumberClass reports whether c is one of the numeric datatype classes.
func IsNumberClass(c ThingID) bool {
	switch c {
	case ClassInteger, ClassDecimal, ClassFloat:
		return true
	default:
		return false
	}
}

// IdentifierPredicates maps paper identifier keys to the predicate holding them.
var IdentifierPredicates = map[string]ThingID{
	"doi":  PredDOI,
	"isbn": PredISBN,
	"issn": PredISSN,
	"url":  PredURL,
}

// VocabularyPredicates are the predicates every store must know before the
// content-type components can write statements.
var VocabularyPredicates = []ThingID{
	PredShProperty, PredShPath, PredShOrder, PredShMinCount, PredShMaxCount,
	PredShDatatype, PredShClass, PredShPattern, PredShMinInclusive, PredShMaxInclusive,
	PredShTargetClass, PredShClosed, PredPlaceholder, PredDescription,
	PredHasListElement, PredHasAuthors, PredResearchField, PredContribution,
	PredSDG, PredDOI, PredISBN, PredISSN, PredURL,
}

// VocabularyClasses are the system classes seeded into every store.
var VocabularyClasses = []ThingID{
	ClassNodeShape, ClassPropertyShape, ClassClass, ClassPredicate, ClassList,
	ClassLiteral, ClassResource, ClassThing, ClassPaper, ClassContribution,
	ClassResearchField, ClassSDG, ClassAuthor, ClassInteger, ClassDecimal,
	ClassFloat, ClassString, ClassBoolean, ClassDate, ClassDateTime, ClassURI,
	ClassPaperDeleted, ClassContributionDeleted, ClassRosettaStoneStatement,
	ClassLatestVersion,
}
