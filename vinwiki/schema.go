package vinwiki

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FieldKind is the declared kind of a schema field
type FieldKind int

const (
	// FieldScalar is a primitive value copied verbatim
	FieldScalar FieldKind = iota
	// FieldModel is a nested object hydrated against another schema
	FieldModel
	// FieldModelList is an array of objects hydrated against another schema
	FieldModelList
)

// String returns the string representation of a FieldKind
func (k FieldKind) String() string {
	switch k {
	case FieldModel:
		return "model"
	case FieldModelList:
		return "list"
	default:
		return "scalar"
	}
}

// Field is one entry of a Schema. Fields are built with the typed
// constructors (String, Int, Model, ...) and never by hand.
type Field[T any] struct {
	name     string
	kind     FieldKind
	ref      string
	optional bool
	assign   func(rec *T, value any, path string) error
}

// FieldInfo describes a declared field
type FieldInfo struct {
	Name     string
	Kind     FieldKind
	Ref      string
	Optional bool
}

// Schema is the static, ordered field table of a model type. Schemas are
// created empty and defined once, which lets schemas refer to each other
// (and to themselves) regardless of declaration order.
type Schema[T any] struct {
	name    string
	fields  []Field[T]
	defined bool
}

var (
	registryMu sync.Mutex
	registry   = make(map[string]func() []FieldInfo)
)

// NewSchema creates an empty schema named name
func NewSchema[T any](name string) *Schema[T] {
	return &Schema[T]{name: name}
}

// Define sets the schema's fields and registers it. It panics when called
// twice or with duplicate field names; schemas are defined at init time.
func (s *Schema[T]) Define(fields ...Field[T]) *Schema[T] {
	if s.defined {
		panic(fmt.Sprintf("vinwiki: schema %s defined twice", s.name))
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.name]; dup {
			panic(fmt.Sprintf("vinwiki: schema %s declares %q twice", s.name, f.name))
		}
		seen[f.name] = struct{}{}
	}

	s.fields = fields
	s.defined = true

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[s.name]; dup {
		panic(fmt.Sprintf("vinwiki: schema %s registered twice", s.name))
	}
	registry[s.name] = s.Fields

	return s
}

// Name returns the schema name
func (s *Schema[T]) Name() string {
	return s.name
}

// Fields returns the declared fields in declaration order
func (s *Schema[T]) Fields() []FieldInfo {
	infos := make([]FieldInfo, len(s.fields))
	for i, f := range s.fields {
		infos[i] = FieldInfo{Name: f.name, Kind: f.kind, Ref: f.ref, Optional: f.optional}
	}
	return infos
}

// Hydrate builds a record from obj. Declared fields missing from obj keep
// their zero value and unknown keys are ignored.
func (s *Schema[T]) Hydrate(obj map[string]any) (*T, error) {
	rec, err := s.hydrate(obj, s.name)
	if err != nil {
		return nil, newError(KindHydration, "hydrate "+s.name, ErrHydration.Message, err)
	}
	return rec, nil
}

func (s *Schema[T]) hydrate(obj map[string]any, path string) (*T, error) {
	if !s.defined {
		return nil, fmt.Errorf("schema %s has no fields defined", s.name)
	}

	rec := new(T)
	for _, f := range s.fields {
		v, ok := obj[f.name]
		if !ok {
			continue
		}
		if err := f.assign(rec, v, path+"."+f.name); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// RegisteredSchemas returns the names of all defined schemas, sorted
func RegisteredSchemas() []string {
	registryMu.Lock()
	defer registryMu.Unlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SchemaFields returns the fields of a registered schema
func SchemaFields(name string) ([]FieldInfo, bool) {
	registryMu.Lock()
	fields, ok := registry[name]
	registryMu.Unlock()
	if !ok {
		return nil, false
	}
	return fields(), true
}

func mismatch(path, expected string, got any) error {
	return &FieldError{Path: path, Expected: expected, Got: jsonType(got)}
}

// String declares a string field. JSON numbers are accepted by literal.
func String[T any](name string, ptr func(*T) *string) Field[T] {
	return Field[T]{name: name, kind: FieldScalar, assign: func(rec *T, v any, path string) error {
		if v == nil {
			return nil
		}
		s, ok := asString(v)
		if !ok {
			return mismatch(path, "string", v)
		}
		*ptr(rec) = s
		return nil
	}}
}

// OptString declares a nullable string field
func OptString[T any](name string, ptr func(*T) **string) Field[T] {
	return Field[T]{name: name, kind: FieldScalar, optional: true, assign: func(rec *T, v any, path string) error {
		if v == nil {
			*ptr(rec) = nil
			return nil
		}
		s, ok := asString(v)
		if !ok {
			return mismatch(path, "string", v)
		}
		*ptr(rec) = &s
		return nil
	}}
}

// Int declares an integer field
func Int[T any](name string, ptr func(*T) *int64) Field[T] {
	return Field[T]{name: name, kind: FieldScalar, assign: func(rec *T, v any, path string) error {
		if v == nil {
			return nil
		}
		n, ok := asInt(v)
		if !ok {
			return mismatch(path, "integer", v)
		}
		*ptr(rec) = n
		return nil
	}}
}

// OptInt declares a nullable integer field
func OptInt[T any](name string, ptr func(*T) **int64) Field[T] {
	return Field[T]{name: name, kind: FieldScalar, optional: true, assign: func(rec *T, v any, path string) error {
		if v == nil {
			*ptr(rec) = nil
			return nil
		}
		n, ok := asInt(v)
		if !ok {
			return mismatch(path, "integer", v)
		}
		*ptr(rec) = &n
		return nil
	}}
}

// Bool declares a boolean field
func Bool[T any](name string, ptr func(*T) *bool) Field[T] {
	return Field[T]{name: name, kind: FieldScalar, assign: func(rec *T, v any, path string) error {
		if v == nil {
			return nil
		}
		b, ok := asBool(v)
		if !ok {
			return mismatch(path, "boolean", v)
		}
		*ptr(rec) = b
		return nil
	}}
}

// OptBool declares a nullable boolean field
func OptBool[T any](name string, ptr func(*T) **bool) Field[T] {
	return Field[T]{name: name, kind: FieldScalar, optional: true, assign: func(rec *T, v any, path string) error {
		if v == nil {
			*ptr(rec) = nil
			return nil
		}
		b, ok := asBool(v)
		if !ok {
			return mismatch(path, "boolean", v)
		}
		*ptr(rec) = &b
		return nil
	}}
}

// Raw declares a field that keeps the decoded JSON value as is
func Raw[T any](name string, ptr func(*T) *any) Field[T] {
	return Field[T]{name: name, kind: FieldScalar, optional: true, assign: func(rec *T, v any, _ string) error {
		*ptr(rec) = v
		return nil
	}}
}

// Model declares a nested object hydrated against schema. A JSON null
// leaves the field nil.
func Model[T, U any](name string, schema *Schema[U], ptr func(*T) **U) Field[T] {
	return Field[T]{name: name, kind: FieldModel, ref: schema.name, optional: true, assign: func(rec *T, v any, path string) error {
		if v == nil {
			*ptr(rec) = nil
			return nil
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return mismatch(path, "object", v)
		}
		nested, err := schema.hydrate(obj, path)
		if err != nil {
			return err
		}
		*ptr(rec) = nested
		return nil
	}}
}

// ModelList declares an array of objects hydrated against schema, in
// source order. A JSON null leaves the field nil.
func ModelList[T, U any](name string, schema *Schema[U], ptr func(*T) *[]U) Field[T] {
	return Field[T]{name: name, kind: FieldModelList, ref: schema.name, optional: true, assign: func(rec *T, v any, path string) error {
		if v == nil {
			*ptr(rec) = nil
			return nil
		}
		items, ok := v.([]any)
		if !ok {
			return mismatch(path, "array", v)
		}
		out := make([]U, 0, len(items))
		for i, item := range items {
			itemPath := path + "[" + strconv.Itoa(i) + "]"
			obj, ok := item.(map[string]any)
			if !ok {
				return mismatch(itemPath, "object", item)
			}
			nested, err := schema.hydrate(obj, itemPath)
			if err != nil {
				return err
			}
			out = append(out, *nested)
		}
		*ptr(rec) = out
		return nil
	}}
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case float64:
		return floatToInt(n)
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case json.Number:
		i, ok := asInt(b)
		if !ok {
			return false, false
		}
		return i != 0, true
	default:
		return false, false
	}
}
