// Package roster holds the army roster payload carried by an analysis
// request. The full roster schema is owned by the web client; this package
// checks only the fields it understands and keeps the rest opaque.
package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"

	"github.com/rosterhq/cogitator/slug"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid roster")

// ValidationError points at the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

type Unit struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Points   float64  `json:"points,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

type Roster struct {
	Name    string
	Faction string
	// Points is the declared roster total, zero if the client did not send one.
	Points float64
	Units  []Unit
	// Raw is the roster exactly as received, compacted.
	Raw json.RawMessage
}

type rosterDoc struct {
	Name    *string           `json:"name"`
	Faction *string           `json:"faction"`
	Points  *float64          `json:"points"`
	Units   []json.RawMessage `json:"units"`
}

type unitDoc struct {
	Name     *string  `json:"name"`
	Count    *int     `json:"count"`
	Points   *float64 `json:"points"`
	Keywords []string `json:"keywords"`
}

// Parse validates raw and returns the parsed roster. A roster must be a
// non-empty JSON object; {"units": []} is the smallest valid roster.
func Parse(raw json.RawMessage) (*Roster, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &ValidationError{Field: "roster", Reason: "is required"}
	}
	if trimmed[0] != '{' {
		return nil, &ValidationError{Field: "roster", Reason: "must be a JSON object"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &ValidationError{Field: "roster", Reason: "must be a JSON object"}
	}
	if len(fields) == 0 {
		return nil, &ValidationError{Field: "roster", Reason: "must not be empty"}
	}

	if units, ok := fields["units"]; ok {
		units = bytes.TrimSpace(units)
		if len(units) == 0 || (units[0] != '[' && !bytes.Equal(units, []byte("null"))) {
			return nil, &ValidationError{Field: "roster.units", Reason: "must be an array"}
		}
	}
	var doc rosterDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, typeError("roster", err)
	}

	r := &Roster{
		Name:    lo.FromPtr(doc.Name),
		Faction: lo.FromPtr(doc.Faction),
		Points:  lo.FromPtr(doc.Points),
		Units:   make([]Unit, 0, len(doc.Units)),
	}
	if r.Points < 0 {
		return nil, &ValidationError{Field: "roster.points", Reason: "must not be negative"}
	}
	for i, rawUnit := range doc.Units {
		u, err := parseUnit(i, rawUnit)
		if err != nil {
			return nil, err
		}
		r.Units = append(r.Units, u)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return nil, typeError("roster", err)
	}
	r.Raw = compact.Bytes()
	return r, nil
}

func parseUnit(i int, raw json.RawMessage) (Unit, error) {
	field := "roster.units[" + strconv.Itoa(i) + "]"
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Unit{}, &ValidationError{Field: field, Reason: "must be a JSON object"}
	}
	var doc unitDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Unit{}, typeError(field, err)
	}
	if doc.Name == nil || *doc.Name == "" {
		return Unit{}, &ValidationError{Field: field + ".name", Reason: "must be a non-empty string"}
	}
	u := Unit{
		Name:     *doc.Name,
		Count:    1,
		Points:   lo.FromPtr(doc.Points),
		Keywords: doc.Keywords,
	}
	if doc.Count != nil {
		if *doc.Count < 0 {
			return Unit{}, &ValidationError{Field: field + ".count", Reason: "must not be negative"}
		}
		u.Count = *doc.Count
	}
	if u.Points < 0 {
		return Unit{}, &ValidationError{Field: field + ".points", Reason: "must not be negative"}
	}
	return u, nil
}

func typeError(field string, err error) error {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return &ValidationError{Field: field + "." + te.Field, Reason: "must be " + kindName(te.Type)}
	}
	return &ValidationError{Field: field, Reason: err.Error()}
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice:
		return "an array"
	case reflect.Bool:
		return "a boolean"
	}
	return "a " + t.String()
}

// FactionSlug is the normalized faction name, empty if none was given.
func (r *Roster) FactionSlug() string {
	return slug.Normalize(r.Faction)
}

// TotalPoints returns the declared total if there is one, otherwise the sum
// of the unit costs.
func (r *Roster) TotalPoints() float64 {
	if r.Points > 0 {
		return r.Points
	}
	return lo.SumBy(r.Units, func(u Unit) float64 { return u.Points })
}

// ModelCount sums the unit counts.
func (r *Roster) ModelCount() int {
	return lo.SumBy(r.Units, func(u Unit) int { return u.Count })
}

// Keywords returns every distinct unit keyword in first-seen order.
func (r *Roster) Keywords() []string {
	return lo.Uniq(lo.FlatMap(r.Units, func(u Unit, _ int) []string { return u.Keywords }))
}

// Fingerprint hashes the compacted roster. It is only used to correlate log
// lines for the same roster.
func (r *Roster) Fingerprint() string {
	return strconv.FormatUint(xxhash.Sum64(r.Raw), 16)
}
