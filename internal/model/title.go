package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// TitleType is the kind of media title.
type TitleType string

const (
	TitleTypeMovie    TitleType = "movie"
	TitleTypeTVSeries TitleType = "tvSeries"
)

// Valid reports whether t is one of the supported title types.
func (t TitleType) Valid() bool {
	return t == TitleTypeMovie || t == TitleTypeTVSeries
}

// Attribute names a field of a FlatRecord that the hierarchy can partition on.
type Attribute string

const (
	AttrType    Attribute = "type"
	AttrGenre   Attribute = "genre"
	AttrYear    Attribute = "year"
	AttrRuntime Attribute = "runtime"
	AttrRating  Attribute = "rating"
)

// HierarchyLevels is the fixed drill-down order. Index i of a FilterPath
// constrains HierarchyLevels[i].
var HierarchyLevels = []Attribute{AttrType, AttrGenre, AttrYear, AttrRuntime, AttrRating}

// LevelAttribute returns the attribute for hierarchy level i.
func LevelAttribute(i int) (Attribute, bool) {
	if i < 0 || i >= len(HierarchyLevels) {
		return "", false
	}
	return HierarchyLevels[i], true
}

// ParseAttribute resolves a user-supplied attribute name.
func ParseAttribute(s string) (Attribute, bool) {
	for _, a := range HierarchyLevels {
		if strings.EqualFold(string(a), strings.TrimSpace(s)) {
			return a, true
		}
	}
	return "", false
}

// Continuous reports whether the attribute is numeric on a continuous axis.
func (a Attribute) Continuous() bool {
	return a == AttrRuntime || a == AttrRating
}

// TitleDocument is the input document shape.
type TitleDocument struct {
	Titles []RawTitle `json:"titles"`
}

// RawTitle is one title as it appears in the input document. Numeric fields
// are optional; a title may carry several genres.
type RawTitle struct {
	TitleType      string   `json:"titleType"`
	Genres         []string `json:"genres"`
	RuntimeMinutes Number   `json:"runtimeMinutes"`
	AverageRating  Number   `json:"averageRating"`
	StartYear      Number   `json:"startYear"`
	OriginalTitle  string   `json:"originalTitle"`
}

// Number is an optional JSON number that also accepts numeric strings.
// A null, missing, empty, or unparsable value is undefined.
type Number struct {
	Value float64
	Valid bool
}

// NumberOf returns a defined Number.
func NumberOf(v float64) Number {
	return Number{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*n = ParseNumber(s)
		return nil
	}
	*n = ParseNumber(string(b))
	return nil
}

// ParseNumber parses the text form of a Number. Blank or non-numeric text,
// such as the "\N" null marker of tab-separated dumps, is undefined.
func ParseNumber(s string) Number {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Number{}
	}
	return NumberOf(v)
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// FlatRecord is one (title, genre) pair. A title with N genres produces N
// records that share every other field.
type FlatRecord struct {
	Type    TitleType `json:"type" yaml:"type"`
	Genre   string    `json:"genre" yaml:"genre"`
	Year    int       `json:"year" yaml:"year"`
	Runtime int       `json:"runtime" yaml:"runtime"`
	Rating  float64   `json:"rating" yaml:"rating"`
	Title   string    `json:"title" yaml:"title"`
}

// Field returns the string form of an attribute, matching how the value is
// compared in equality filters.
func (r FlatRecord) Field(a Attribute) (string, bool) {
	switch a {
	case AttrType:
		return string(r.Type), true
	case AttrGenre:
		return r.Genre, true
	case AttrYear:
		return strconv.Itoa(r.Year), true
	case AttrRuntime:
		return strconv.Itoa(r.Runtime), true
	case AttrRating:
		return strconv.FormatFloat(r.Rating, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Numeric returns the numeric value of a continuous or year attribute.
func (r FlatRecord) Numeric(a Attribute) (float64, bool) {
	switch a {
	case AttrYear:
		return float64(r.Year), true
	case AttrRuntime:
		return float64(r.Runtime), true
	case AttrRating:
		return r.Rating, true
	default:
		return 0, false
	}
}
