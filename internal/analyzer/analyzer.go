// Package analyzer implements the recursive structure-inference engine.
//
// The analyzer walks one entity's example document field by field, deciding
// for each nested value whether it is a plain attribute, a singular
// relationship, or a plural relationship, and recursing into newly
// discovered entities. The entity graph and the metadata store are shared
// by reference across the whole recursion so mutually referential entities
// converge to a single definition each.
package analyzer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tkarlsen/docschema/internal/document"
	"github.com/tkarlsen/docschema/internal/metadata"
	"github.com/tkarlsen/docschema/internal/schema"
)

// Analyzer carries the shared traversal state of one analysis run.
type Analyzer struct {
	meta  *metadata.Store
	graph *schema.Graph
	log   *zap.Logger
}

// New creates an analyzer backed by the given directive store. A nil
// logger disables tracing.
func New(store *metadata.Store, logger *zap.Logger) *Analyzer {
	if store == nil {
		store = metadata.NewStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		meta:  store,
		graph: schema.NewGraph(),
		log:   logger,
	}
}

// ResolveRoot determines the root entity name and its sub-document from
// the outer document shape. With an explicit name, a matching top-level
// key unwraps to its value, otherwise the whole document is the root
// entity. Without one, the document must have exactly one key.
func ResolveRoot(doc *document.Object, explicit string) (string, *document.Object, error) {
	if explicit != "" {
		if v, ok := doc.Get(explicit); ok {
			if v.Kind != document.KindObject {
				return "", nil, fmt.Errorf("root document for %q must be an object, got %s", explicit, v.Kind)
			}
			return explicit, v.Obj, nil
		}
		return explicit, doc, nil
	}

	if doc.Len() == 1 {
		m := doc.Members[0]
		if m.Value.Kind != document.KindObject {
			return "", nil, fmt.Errorf("root document for %q must be an object, got %s", m.Key, m.Value.Kind)
		}
		return m.Key, m.Value.Obj, nil
	}

	return "", nil, fmt.Errorf("either provide a root entity name or supply a document with a single top-level key")
}

// Analyze runs the full recursive analysis for one root entity and returns
// the completed entity graph, including the finishing pass that adds
// synthetic primary keys.
func (a *Analyzer) Analyze(rootName string, doc *document.Object) (*schema.Graph, error) {
	if err := a.analyzeEntity(rootName, doc); err != nil {
		return nil, err
	}
	a.addSyntheticPrimaryKeys()
	return a.graph, nil
}

// analyzeEntity analyzes one entity's example document. The entity is
// registered in the graph before its fields are derived, so a cycle back
// to an in-progress entity finds it already present and does not re-enter.
func (a *Analyzer) analyzeEntity(name string, doc *document.Object) error {
	// Nested documents may re-declare the reserved metadata key; it amends
	// the shared store and is never analyzed as a field.
	a.meta.StripAndAmend(doc)

	ent := a.graph.Register(name)
	a.log.Debug("analyzing entity", zap.String("entity", name), zap.Int("fields", doc.Len()))

	for _, m := range doc.Members {
		f, err := a.analyzeField(m.Value, m.Key, name)
		if err != nil {
			return err
		}
		ent.Fields = append(ent.Fields, f)

		if !f.IsRelationship || a.graph.Has(f.RelationshipTarget) {
			continue
		}

		switch {
		case !f.IsList && m.Value.Kind == document.KindObject:
			if err := a.analyzeEntity(f.RelationshipTarget, m.Value.Obj); err != nil {
				return err
			}
		case f.IsList && m.Value.Kind == document.KindArray && len(m.Value.Arr) > 0 &&
			m.Value.Arr[0].Kind == document.KindObject:
			// The first list item is the shape example for the entity.
			if err := a.analyzeEntity(f.RelationshipTarget, m.Value.Arr[0].Obj); err != nil {
				return err
			}
		}
	}
	return nil
}

// analyzeField produces exactly one field descriptor for one example value.
// The rules are evaluated in a fixed order; see the package documentation.
func (a *Analyzer) analyzeField(v document.Value, name, parent string) (*schema.Field, error) {
	dirs := a.meta.Lookup(parent, name)

	// Reference tables: a string value normalized into a lookup table.
	if dirs.IsReferenceTable && v.Kind == document.KindString {
		refName := dirs.ReferenceTableName
		if refName == "" {
			refName = name + "_ref"
		}
		return &schema.Field{
			Name:               name,
			Type:               schema.TypeString,
			Nullable:           nullableOf(dirs, v),
			Description:        dirs.Description,
			IsReferenceTable:   true,
			ReferenceTableName: refName,
			Directives:         dirs,
		}, nil
	}

	var ftype schema.FieldType
	if dirs.Type != nil {
		t, err := schema.ParseFieldType(*dirs.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", parent, name, err)
		}
		ftype = t
	} else {
		ftype = inferType(v)
	}

	f := &schema.Field{
		Name:        name,
		Type:        ftype,
		Nullable:    nullableOf(dirs, v),
		Description: dirs.Description,
		Directives:  dirs,
	}

	if v.Kind == document.KindNull {
		// A declared entity_type still makes the field a relationship so
		// the shape can be stated even without an example instance.
		if dirs.EntityType != nil {
			f.IsRelationship = true
			f.RelationshipTarget = *dirs.EntityType
			f.Type = schema.TypeAny
		}
		return f, nil
	}

	// A field named after its own entity stays a terminal value.
	if name == parent {
		return f, nil
	}

	switch v.Kind {
	case document.KindObject:
		if v.Obj.Len() == 0 {
			return f, nil
		}
		target, suppressed := a.resolveObjectEntity(name, parent)
		if suppressed {
			return f, nil
		}
		f.IsRelationship = true
		f.RelationshipTarget = target
		f.IsForeignKey = true
		f.ForeignKeyTarget = target
		f.Type = schema.TypeAny

	case document.KindArray:
		f.IsList = true
		if len(v.Arr) == 0 || v.Arr[0].Kind != document.KindObject {
			return f, nil
		}
		target := a.resolveListEntity(name, parent)
		f.IsRelationship = true
		f.RelationshipTarget = target
		f.Type = schema.TypeAny

		if dirs.IsManyToMany {
			f.IsManyToMany = true
			f.AssociationTableName = dirs.AssociationTableName
			if f.AssociationTableName == "" {
				f.AssociationTableName = parent + "_" + target + schema.AssociationSuffix
			}
			// Many-to-many routes through the association table, never a
			// direct foreign key column.
			f.IsForeignKey = false
		} else {
			f.IsForeignKey = true
			f.ForeignKeyTarget = target
		}
	}

	return f, nil
}

// addSyntheticPrimaryKeys prepends an integer identity field to every
// non-association entity without an explicit primary-key directive.
func (a *Analyzer) addSyntheticPrimaryKeys() {
	for _, ent := range a.graph.Entities() {
		if isAssociationName(ent.Name) {
			continue
		}
		if ent.PrimaryKeyField() != nil {
			continue
		}
		id := &schema.Field{
			Name:        "id",
			Type:        schema.TypeInteger,
			Nullable:    false,
			Description: "Primary key",
			Directives:  metadata.Directives{PrimaryKey: true},
		}
		ent.Fields = append([]*schema.Field{id}, ent.Fields...)
	}
}

func isAssociationName(name string) bool {
	return strings.HasSuffix(name, schema.AssociationSuffix)
}

func inferType(v document.Value) schema.FieldType {
	switch v.Kind {
	case document.KindBool:
		return schema.TypeBoolean
	case document.KindString:
		return schema.TypeString
	case document.KindNumber:
		if v.IsInt() {
			return schema.TypeInteger
		}
		return schema.TypeFloat
	case document.KindArray:
		return schema.TypeArray
	case document.KindObject:
		return schema.TypeJSON
	default:
		return schema.TypeUntyped
	}
}

func nullableOf(dirs metadata.Directives, v document.Value) bool {
	if dirs.Nullable != nil {
		return *dirs.Nullable
	}
	return v.Kind == document.KindNull
}
