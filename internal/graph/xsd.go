package graph

import (
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const xsdNamespace = "http://www.w3.org/2001/XMLSchema#"

// Datatype is a literal datatype known to the platform.
type Datatype struct {
	Prefixed string
	Class    ThingID
	check    func(string) bool
}

// URI returns the full form of the datatype.
func (d Datatype) URI() string {
	return xsdNamespace + strings.TrimPrefix(d.Prefixed, "xsd:")
}

// Accepts reports whether label is a valid lexical form for the datatype.
func (d Datatype) Accepts(label string) bool {
	if d.check == nil {
		return true
	}
	return d.check(label)
}

var (
	integerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
	floatPattern   = regexp.MustCompile(`^([+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([Ee][+-]?[0-9]+)?|[+-]?INF|NaN)$`)
	datePattern    = regexp.MustCompile(`^-?[0-9]{4,}-[0-9]{2}-[0-9]{2}(Z|[+-][0-9]{2}:[0-9]{2})?$`)
)

var (
	XSDString   = Datatype{Prefixed: "xsd:string", Class: ClassString}
	XSDInteger  = Datatype{Prefixed: "xsd:integer", Class: ClassInteger, check: integerPattern.MatchString}
	XSDInt      = Datatype{Prefixed: "xsd:int", Class: ClassInteger, check: isInt32}
	XSDDecimal  = Datatype{Prefixed: "xsd:decimal", Class: ClassDecimal, check: decimalPattern.MatchString}
	XSDFloat    = Datatype{Prefixed: "xsd:float", Class: ClassFloat, check: floatPattern.MatchString}
	XSDDouble   = Datatype{Prefixed: "xsd:double", Class: ClassFloat, check: floatPattern.MatchString}
	XSDBoolean  = Datatype{Prefixed: "xsd:boolean", Class: ClassBoolean, check: isBoolean}
	XSDDate     = Datatype{Prefixed: "xsd:date", Class: ClassDate, check: datePattern.MatchString}
	XSDDateTime = Datatype{Prefixed: "xsd:dateTime", Class: ClassDateTime, check: isDateTime}
	XSDAnyURI   = Datatype{Prefixed: "xsd:anyURI", Class: ClassURI, check: isURI}
)

var datatypes = []Datatype{XSDString, XSDInteger, XSDInt, XSDDecimal, XSDFloat, XSDDouble, XSDBoolean, XSDDate, XSDDateTime, XSDAnyURI}

// LookupDatatype finds a datatype by its prefixed or full URI.
func LookupDatatype(s string) (Datatype, bool) {
	for _, d := range datatypes {
		if d.Prefixed == s || d.URI() == s {
			return d, true
		}
	}
	return Datatype{}, false
}

// DatatypeForClass returns the canonical datatype for a datatype class.
// xsd:int and xsd:double are aliases and never returned here.
func DatatypeForClass(c ThingID) (Datatype, bool) {
	switch c {
	case ClassString:
		return XSDString, true
	case ClassInteger:
		return XSDInteger, true
	case ClassDecimal:
		return XSDDecimal, true
	case ClassFloat:
		return XSDFloat, true
	case ClassBoolean:
		return XSDBoolean, true
	case ClassDate:
		return XSDDate, true
	case ClassDateTime:
		return XSDDateTime, true
	case ClassURI:
		return XSDAnyURI, true
	default:
		return Datatype{}, false
	}
}

func isInt32(s string) bool {
	_, err := strconv.ParseInt(s, 10, 32)
	return err == nil
}

func isBoolean(s string) bool {
	switch s {
	case "true", "false", "1", "0":
		return true
	default:
		return false
	}
}

func isDateTime(s string) bool {
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return true
	}
	_, err := time.Parse("2006-01-02T15:04:05", s)
	return err == nil
}

func isURI(s string) bool {
	_, err := url.Parse(s)
	return err == nil
}

// ParseInteger parses an xsd:integer label without losing precision.
func ParseInteger(s string) (*big.Int, bool) {
	if !integerPattern.MatchString(s) {
		return nil, false
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(s, "+"), 10)
	return n, ok
}

// ParseDecimal parses an xsd:decimal label exactly.
func ParseDecimal(s string) (*big.Rat, bool) {
	if !decimalPattern.MatchString(s) {
		return nil, false
	}
	return new(big.Rat).SetString(strings.TrimPrefix(s, "+"))
}

// ParseFloat parses an xsd:float or xsd:double label.
func ParseFloat(s string) (float64, bool) {
	if !floatPattern.MatchString(s) {
		return 0, false
	}
	switch s {
	case "INF", "+INF":
		s = "+Inf"
	case "-INF":
		s = "-Inf"
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
