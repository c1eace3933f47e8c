// Package metadata holds the per-field directive store extracted from the
// reserved key of an example document.
//
// Directives are keyed by "<entity>.<field>". The store is built once per
// analysis and shared by reference through the whole recursion; nested
// documents may re-declare the reserved key, which amends the store with
// last-write-wins semantics.
package metadata

import (
	"github.com/tkarlsen/docschema/internal/document"
	"github.com/tkarlsen/docschema/internal/inflect"
)

// Key is the reserved document key that carries field directives.
// It is always stripped from a document before its fields are analyzed.
const Key = "_docschema"

// Directives is the parsed directive bag for one entity field. Absent
// optional directives are nil pointers; unrecognized directive names are
// passed through untouched in Extra for downstream generators.
type Directives struct {
	// Type overrides the inferred field type ("string", "integer",
	// "float", "boolean", "json", "array").
	Type *string

	// Nullable overrides the observed nullability.
	Nullable *bool

	// EntityType names the entity a nested value refers to. An explicit
	// null (EntityTypeNull) suppresses entity inference for the field.
	EntityType     *string
	EntityTypeNull bool

	PrimaryKey bool
	Unique     bool

	IsReferenceTable   bool
	ReferenceTableName string

	IsManyToMany         bool
	AssociationTableName string

	Description string

	// Validation constraints, forwarded to the generators.
	MaxLen   *int
	MinLen   *int
	MinValue *float64
	MaxValue *float64
	Pattern  string
	Choices  []any

	Default    any
	HasDefault bool

	Extra map[string]any
}

// HasEntityType reports whether the entity_type directive was declared,
// including the explicit-null form.
func (d Directives) HasEntityType() bool {
	return d.EntityType != nil || d.EntityTypeNull
}

// Store maps "<entity>.<field>" keys to their directive bags.
type Store struct {
	directives map[string]Directives
}

// NewStore creates an empty directive store
func NewStore() *Store {
	return &Store{directives: make(map[string]Directives)}
}

// Len returns the number of stored directive bags
func (s *Store) Len() int {
	return len(s.directives)
}

// Lookup returns the directives for an entity field. The entity name is
// tried exactly first, then singularized; an empty bag means all defaults.
func (s *Store) Lookup(entity, field string) Directives {
	if d, ok := s.directives[entity+"."+field]; ok {
		return d
	}
	if singular := inflect.Singular(entity); singular != entity {
		if d, ok := s.directives[singular+"."+field]; ok {
			return d
		}
	}
	return Directives{}
}

// StripAndAmend removes the reserved key from obj and merges its contents
// into the store. Re-declared keys overwrite earlier ones (last write wins).
// Non-object payloads under the reserved key are ignored.
func (s *Store) StripAndAmend(obj *document.Object) {
	v, ok := obj.Remove(Key)
	if !ok || v.Kind != document.KindObject {
		return
	}
	for _, m := range v.Obj.Members {
		s.directives[m.Key] = parseDirectives(m.Value)
	}
}

func parseDirectives(v document.Value) Directives {
	d := Directives{}
	if v.Kind != document.KindObject {
		return d
	}

	for _, m := range v.Obj.Members {
		switch m.Key {
		case "type":
			if m.Value.Kind == document.KindString {
				t := m.Value.Str
				d.Type = &t
			}
		case "nullable":
			if m.Value.Kind == document.KindBool {
				b := m.Value.Bool
				d.Nullable = &b
			}
		case "entity_type":
			switch m.Value.Kind {
			case document.KindString:
				e := m.Value.Str
				d.EntityType = &e
			case document.KindNull:
				d.EntityTypeNull = true
			}
		case "primary_key":
			d.PrimaryKey = boolOf(m.Value)
		case "unique":
			d.Unique = boolOf(m.Value)
		case "is_reference_table":
			d.IsReferenceTable = boolOf(m.Value)
		case "reference_table_name":
			d.ReferenceTableName = stringOf(m.Value)
		case "is_many_to_many":
			d.IsManyToMany = boolOf(m.Value)
		case "association_table_name":
			d.AssociationTableName = stringOf(m.Value)
		case "description":
			d.Description = stringOf(m.Value)
		case "max_len":
			d.MaxLen = intOf(m.Value)
		case "min_len":
			d.MinLen = intOf(m.Value)
		case "min_value":
			d.MinValue = floatOf(m.Value)
		case "max_value":
			d.MaxValue = floatOf(m.Value)
		case "regex":
			d.Pattern = stringOf(m.Value)
		case "choices":
			if m.Value.Kind == document.KindArray {
				for _, item := range m.Value.Arr {
					d.Choices = append(d.Choices, item.Interface())
				}
			}
		case "default":
			d.Default = m.Value.Interface()
			d.HasDefault = true
		default:
			if d.Extra == nil {
				d.Extra = make(map[string]any)
			}
			d.Extra[m.Key] = m.Value.Interface()
		}
	}
	return d
}

func boolOf(v document.Value) bool {
	return v.Kind == document.KindBool && v.Bool
}

func stringOf(v document.Value) string {
	if v.Kind == document.KindString {
		return v.Str
	}
	return ""
}

func intOf(v document.Value) *int {
	if v.Kind != document.KindNumber {
		return nil
	}
	n, err := v.Num.Int64()
	if err != nil {
		return nil
	}
	i := int(n)
	return &i
}

func floatOf(v document.Value) *float64 {
	if v.Kind != document.KindNumber {
		return nil
	}
	f, err := v.Num.Float64()
	if err != nil {
		return nil
	}
	return &f
}
