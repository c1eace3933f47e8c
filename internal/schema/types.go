// Package schema defines the entity graph produced by structure analysis.
package schema

import (
	"fmt"

	"github.com/tkarlsen/docschema/internal/metadata"
)

// AssociationSuffix marks join tables for many-to-many relationships.
// Entities named with this suffix never receive a synthetic primary key;
// they use a compound key of their two foreign keys instead.
const AssociationSuffix = "_association"

// FieldType is the inferred primitive type of a field.
type FieldType int

const (
	// TypeUntyped is the placeholder for fields whose example value was
	// null and that carry no type override.
	TypeUntyped FieldType = iota
	TypeString
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeJSON
	TypeArray
	// TypeAny marks relationship fields whose shape is resolved through
	// the target entity rather than a primitive type.
	TypeAny
)

// String returns the string representation of the field type
func (t FieldType) String() string {
	switch t {
	case TypeUntyped:
		return "untyped"
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeJSON:
		return "json"
	case TypeArray:
		return "array"
	case TypeAny:
		return "any"
	default:
		return "unknown"
	}
}

// ParseFieldType converts a type-override directive value to a FieldType.
// Unrecognized names are a configuration error, never silently ignored.
func ParseFieldType(name string) (FieldType, error) {
	switch name {
	case "string":
		return TypeString, nil
	case "integer":
		return TypeInteger, nil
	case "float":
		return TypeFloat, nil
	case "boolean":
		return TypeBoolean, nil
	case "json":
		return TypeJSON, nil
	case "array":
		return TypeArray, nil
	default:
		return TypeUntyped, fmt.Errorf("unsupported type override %q", name)
	}
}

// Field describes one inferred attribute of an entity.
type Field struct {
	Name        string
	Type        FieldType
	Nullable    bool
	Description string

	// Relationship role. IsList distinguishes plural relationships
	// (one-to-many, many-to-many) from singular ones.
	IsRelationship     bool
	RelationshipTarget string
	IsList             bool

	// A singular or plural foreign key. Mutually exclusive with
	// IsManyToMany, which routes through an association table instead.
	IsForeignKey     bool
	ForeignKeyTarget string

	IsManyToMany         bool
	AssociationTableName string

	// A string field normalized into a lookup table.
	IsReferenceTable   bool
	ReferenceTableName string

	// The raw directive bag, forwarded to the generators.
	Directives metadata.Directives
}

// IsPrimaryKey reports whether the field is marked as a primary key
func (f *Field) IsPrimaryKey() bool {
	return f.Directives.PrimaryKey
}

// Entity is one inferred row type with fields in first-seen order.
type Entity struct {
	Name   string
	Fields []*Field
}

// Field returns the named field and whether it exists
func (e *Entity) Field(name string) (*Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// PrimaryKeyField returns the field marked as primary key, or nil
func (e *Entity) PrimaryKeyField() *Field {
	for _, f := range e.Fields {
		if f.IsPrimaryKey() {
			return f
		}
	}
	return nil
}

// Graph is the deduplicated mapping from entity name to entity, in
// first-registration order. It is shared mutable state across the whole
// recursive analysis so mutually referential entities converge to one
// definition each.
type Graph struct {
	names    []string
	entities map[string]*Entity
}

// NewGraph creates an empty entity graph
func NewGraph() *Graph {
	return &Graph{entities: make(map[string]*Entity)}
}

// Register returns the entity with the given name, creating it if absent.
// Registration order is preserved; re-registering is a no-op.
func (g *Graph) Register(name string) *Entity {
	if e, ok := g.entities[name]; ok {
		return e
	}
	e := &Entity{Name: name}
	g.entities[name] = e
	g.names = append(g.names, name)
	return e
}

// Get returns the named entity and whether it exists
func (g *Graph) Get(name string) (*Entity, bool) {
	e, ok := g.entities[name]
	return e, ok
}

// Has reports whether an entity is registered
func (g *Graph) Has(name string) bool {
	_, ok := g.entities[name]
	return ok
}

// Len returns the number of registered entities
func (g *Graph) Len() int {
	return len(g.names)
}

// Names returns entity names in registration order
func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Entities returns entities in registration order
func (g *Graph) Entities() []*Entity {
	out := make([]*Entity, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.entities[name])
	}
	return out
}
