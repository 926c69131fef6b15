package core

import "fmt"

// ValueKind discriminates the three shapes a Value can take, per Design
// Note 1: the source project worked on untyped Python dicts directly;
// cbuild parses the configuration document once into this tagged sum type
// and every later stage receives typed data instead of a generic mapping.
type ValueKind int

const (
	KindScalar ValueKind = iota
	KindSeq
	KindMap
)

// Value is a node of the generic configuration tree described in spec
// §6.2, the shape produced by the config-file tokeniser collaborator of
// spec §6.1 and consumed by the project/target construction of §4.1.
type Value struct {
	kind   ValueKind
	scalar string
	seq    []Value
	m      map[string]Value
}

// NewScalar wraps a single string value (cbuild never needs to distinguish
// numeric from string scalars at this layer; callers parse further as
// needed, e.g. strconv for "num_threads").
func NewScalar(s string) Value { return Value{kind: KindScalar, scalar: s} }

// NewSeq wraps a sequence of values.
func NewSeq(vs []Value) Value { return Value{kind: KindSeq, seq: vs} }

// NewMap wraps a mapping of keys to values.
func NewMap(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// Kind reports which shape this Value holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether this Value was never set (the zero Value, kind
// KindScalar with an empty string, is also a legitimate empty scalar, so
// callers that need to distinguish "absent" from "empty string" should use
// Map.Get's second return value instead).
func (v Value) IsZero() bool {
	return v.kind == KindScalar && v.scalar == "" && v.seq == nil && v.m == nil
}

// Scalar returns the string value of a scalar Value, or an error if this
// Value isn't one.
func (v Value) Scalar() (string, error) {
	if v.kind != KindScalar {
		return "", fmt.Errorf("expected a scalar, got %v", v.kind)
	}
	return v.scalar, nil
}

// Seq returns the elements of a sequence Value, or an error if this Value
// isn't one.
func (v Value) Seq() ([]Value, error) {
	if v.kind != KindSeq {
		return nil, fmt.Errorf("expected a sequence, got %v", v.kind)
	}
	return v.seq, nil
}

// StringSeq returns a sequence Value as a []string, treating a bare scalar
// as a single-element sequence for convenience (many config keys accept
// either shape in practice).
func (v Value) StringSeq() ([]string, error) {
	if v.kind == KindScalar {
		if v.scalar == "" {
			return nil, nil
		}
		return []string{v.scalar}, nil
	}
	seq, err := v.Seq()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(seq))
	for _, e := range seq {
		s, err := e.Scalar()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Map returns the entries of a mapping Value, or an error if this Value
// isn't one.
func (v Value) Map() (map[string]Value, error) {
	if v.kind != KindMap {
		return nil, fmt.Errorf("expected a mapping, got %v", v.kind)
	}
	return v.m, nil
}

// Get looks up a key in a mapping Value. The second return is false if the
// Value isn't a mapping or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	val, ok := v.m[key]
	return val, ok
}

// GetStringSeq is a convenience wrapper: look up key, and if present return
// it as a []string.
func (v Value) GetStringSeq(key string) ([]string, error) {
	val, ok := v.Get(key)
	if !ok {
		return nil, nil
	}
	return val.StringSeq()
}

// GetString is a convenience wrapper: look up key and return it as a bare
// string, defaulting to "" if absent.
func (v Value) GetString(key string) (string, error) {
	val, ok := v.Get(key)
	if !ok {
		return "", nil
	}
	return val.Scalar()
}

// GetBool looks up key and interprets it as a boolean, defaulting to def if
// absent.
func (v Value) GetBool(key string, def bool) bool {
	val, ok := v.Get(key)
	if !ok {
		return def
	}
	s, err := val.Scalar()
	if err != nil {
		return def
	}
	return s == "true" || s == "1"
}
