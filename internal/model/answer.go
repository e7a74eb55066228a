package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// AnswerShape tags the variant held by an Answer
type AnswerShape int

const (
	ShapeScalar AnswerShape = iota
	ShapeMulti
)

var ErrAnswerEncoding = errors.New("answer must be a string or an array of strings")

// Answer is either a scalar string or an unordered set of strings.
// The zero value is an empty scalar.
type Answer struct {
	shape  AnswerShape
	scalar string
	values []string
}

// Scalar builds a single-value answer
func Scalar(v string) Answer {
	return Answer{shape: ShapeScalar, scalar: v}
}

// MultiValue builds a set answer. Duplicates are dropped and order is not kept.
func MultiValue(vals ...string) Answer {
	seen := make(map[string]struct{}, len(vals))
	set := make([]string, 0, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		set = append(set, v)
	}
	sort.Strings(set)
	return Answer{shape: ShapeMulti, values: set}
}

func (a Answer) Shape() AnswerShape { return a.shape }
func (a Answer) IsMulti() bool      { return a.shape == ShapeMulti }

// Text returns the scalar value, or "" for a set
func (a Answer) Text() string {
	if a.shape == ShapeMulti {
		return ""
	}
	return a.scalar
}

// Values returns a sorted copy of the set, or nil for a scalar
func (a Answer) Values() []string {
	if a.shape != ShapeMulti {
		return nil
	}
	out := make([]string, len(a.values))
	copy(out, a.values)
	return out
}

// Contains reports set membership; for a scalar it compares the value
func (a Answer) Contains(v string) bool {
	if a.shape != ShapeMulti {
		return a.scalar == v
	}
	i := sort.SearchStrings(a.values, v)
	return i < len(a.values) && a.values[i] == v
}

// IsEmpty is true for "" and for the empty set.
func (a Answer) IsEmpty() bool {
	if a.shape == ShapeMulti {
		return len(a.values) == 0
	}
	return a.scalar == ""
}

// Equal compares scalars by exact string and sets by membership
func (a Answer) Equal(b Answer) bool {
	if a.shape != b.shape {
		return false
	}
	if a.shape == ShapeScalar {
		return a.scalar == b.scalar
	}
	if len(a.values) != len(b.values) {
		return false
	}
	for _, v := range a.values {
		if !b.Contains(v) {
			return false
		}
	}
	return true
}

func (a Answer) String() string {
	if a.shape == ShapeMulti {
		return "[" + strings.Join(a.values, ", ") + "]"
	}
	return a.scalar
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.shape == ShapeMulti {
		return json.Marshal(a.Values())
	}
	return json.Marshal(a.scalar)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Scalar(s)
		return nil
	}
	var vals []string
	if err := json.Unmarshal(data, &vals); err != nil {
		return ErrAnswerEncoding
	}
	*a = MultiValue(vals...)
	return nil
}

func (a Answer) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if a.shape == ShapeMulti {
		return bson.MarshalValue(a.Values())
	}
	return bson.MarshalValue(a.scalar)
}

func (a *Answer) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*a = Scalar(raw.StringValue())
		return nil
	case bsontype.Array:
		var vals []string
		if err := raw.Unmarshal(&vals); err != nil {
			return fmt.Errorf("decode answer set: %w", err)
		}
		*a = MultiValue(vals...)
		return nil
	case bsontype.Null, bsontype.Undefined:
		*a = Scalar("")
		return nil
	}
	return ErrAnswerEncoding
}

// AnswerSet maps question IDs to the respondent's current answers
type AnswerSet map[string]Answer

// Get returns the stored answer and whether one exists
func (s AnswerSet) Get(questionID string) (Answer, bool) {
	a, ok := s[questionID]
	return a, ok
}

func (s AnswerSet) Set(questionID string, a Answer) {
	s[questionID] = a
}

func (s AnswerSet) Clear() {
	for k := range s {
		delete(s, k)
	}
}

// Snapshot copies the set so later mutation does not leak into a persisted response
func (s AnswerSet) Snapshot() AnswerSet {
	out := make(AnswerSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
