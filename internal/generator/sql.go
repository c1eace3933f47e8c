// Package generator renders an entity graph into SQL DDL and Go model
// source. Both generators require a fully resolved graph: every
// relationship target must exist as an entity.
package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tkarlsen/docschema/internal/schema"
)

// Dialect selects the SQL flavor for generated DDL.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect converts a dialect name to a Dialect
func ParseDialect(name string) (Dialect, error) {
	switch name {
	case "sqlite":
		return DialectSQLite, nil
	case "postgres":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("invalid dialect: %s (must be 'sqlite' or 'postgres')", name)
	}
}

// SQLOptions configures DDL generation
type SQLOptions struct {
	Dialect Dialect
}

// Entity and field names come straight from the example document, so
// they can collide with SQL keywords ("order", "group", "user" on
// Postgres). Only reserved names are quoted, to keep the common case
// readable.
var reservedIdents = map[Dialect]map[string]bool{
	DialectSQLite: {
		"order": true, "group": true, "table": true, "index": true,
		"select": true, "where": true, "from": true, "to": true,
		"default": true, "check": true, "values": true, "transaction": true,
	},
	DialectPostgres: {
		"order": true, "group": true, "table": true, "user": true,
		"select": true, "where": true, "from": true, "to": true,
		"default": true, "check": true, "constraint": true, "primary": true,
	},
}

func quoteIdent(name string, d Dialect) string {
	if reservedIdents[d][name] {
		return `"` + name + `"`
	}
	return name
}

type associationTable struct {
	name  string
	left  string
	right string
}

type referenceTable struct {
	name            string
	withDescription bool
}

// GenerateDDL renders one CREATE TABLE statement per entity, plus
// association tables for many-to-many fields and lookup tables for
// reference-table fields. Entity tables are emitted in dependency order
// so foreign key targets exist before they are referenced.
func GenerateDDL(g *schema.Graph, opts *SQLOptions) ([]string, error) {
	if opts == nil {
		opts = &SQLOptions{Dialect: DialectSQLite}
	}
	if err := validateGraph(g); err != nil {
		return nil, err
	}

	// Plural non-M2M relationships become a foreign key column on the
	// child table pointing back at the parent.
	childColumns := make(map[string][]string)
	for _, ent := range g.Entities() {
		for _, f := range ent.Fields {
			if f.IsRelationship && f.IsList && !f.IsManyToMany {
				col := fmt.Sprintf("%s_id INTEGER REFERENCES %s(id) ON DELETE SET NULL",
					ent.Name, quoteIdent(ent.Name, opts.Dialect))
				childColumns[f.RelationshipTarget] = append(childColumns[f.RelationshipTarget], col)
			}
		}
	}

	var statements []string
	var associations []associationTable
	var references []referenceTable
	seenAssoc := make(map[string]bool)
	seenRef := make(map[string]bool)

	for _, ent := range orderByDependency(g) {
		stmt, err := createTable(ent, childColumns[ent.Name], opts.Dialect)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)

		for _, f := range ent.Fields {
			if f.IsManyToMany && !seenAssoc[f.AssociationTableName] {
				seenAssoc[f.AssociationTableName] = true
				associations = append(associations, associationTable{
					name:  f.AssociationTableName,
					left:  ent.Name,
					right: f.RelationshipTarget,
				})
			}
			if f.IsReferenceTable && !seenRef[f.ReferenceTableName] {
				seenRef[f.ReferenceTableName] = true
				references = append(references, referenceTable{
					name:            f.ReferenceTableName,
					withDescription: f.Description != "",
				})
			}
		}
	}

	for _, ref := range references {
		statements = append(statements, createReferenceTable(ref, opts.Dialect))
	}
	for _, assoc := range associations {
		statements = append(statements, createAssociationTable(assoc, opts.Dialect))
	}

	return statements, nil
}

func validateGraph(g *schema.Graph) error {
	for _, ent := range g.Entities() {
		for _, f := range ent.Fields {
			if f.IsRelationship && !g.Has(f.RelationshipTarget) {
				return fmt.Errorf("dangling relationship: %s.%s references unknown entity %q",
					ent.Name, f.Name, f.RelationshipTarget)
			}
		}
	}
	return nil
}

// orderByDependency sorts entities so singular foreign-key targets come
// first. Cycles fall back to registration order for the remainder.
func orderByDependency(g *schema.Graph) []*schema.Entity {
	deps := make(map[string][]string)
	for _, ent := range g.Entities() {
		for _, f := range ent.Fields {
			if !f.IsRelationship {
				continue
			}
			if f.IsList {
				// One-to-many puts the column on the child, so the child
				// depends on the parent, not the other way around.
				if !f.IsManyToMany {
					deps[f.RelationshipTarget] = append(deps[f.RelationshipTarget], ent.Name)
				}
				continue
			}
			deps[ent.Name] = append(deps[ent.Name], f.RelationshipTarget)
		}
	}

	var ordered []*schema.Entity
	emitted := make(map[string]bool)

	for changed := true; changed; {
		changed = false
		for _, ent := range g.Entities() {
			if emitted[ent.Name] {
				continue
			}
			ready := true
			for _, dep := range deps[ent.Name] {
				if dep != ent.Name && !emitted[dep] && g.Has(dep) {
					ready = false
					break
				}
			}
			if ready {
				emitted[ent.Name] = true
				ordered = append(ordered, ent)
				changed = true
			}
		}
	}

	// Anything left participates in a cycle; keep registration order.
	for _, ent := range g.Entities() {
		if !emitted[ent.Name] {
			ordered = append(ordered, ent)
		}
	}
	return ordered
}

func createTable(ent *schema.Entity, extraColumns []string, dialect Dialect) (string, error) {
	var cols []string

	for _, f := range ent.Fields {
		switch {
		case f.IsRelationship && f.IsList:
			// Handled via association tables or child-side columns.
			continue
		case f.IsRelationship:
			col := fmt.Sprintf("%s_id INTEGER", f.Name)
			if !f.Nullable {
				col += " NOT NULL"
			}
			col += fmt.Sprintf(" REFERENCES %s(id) ON DELETE SET NULL", quoteIdent(f.RelationshipTarget, dialect))
			cols = append(cols, col)
		case f.IsReferenceTable:
			// The value stays inline; the lookup table is created separately.
			col := quoteIdent(f.Name, dialect) + " TEXT"
			if !f.Nullable {
				col += " NOT NULL"
			}
			cols = append(cols, col)
		default:
			cols = append(cols, scalarColumn(f, dialect))
		}
	}

	cols = append(cols, extraColumns...)

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", quoteIdent(ent.Name, dialect), strings.Join(cols, ",\n  ")), nil
}

func scalarColumn(f *schema.Field, dialect Dialect) string {
	parts := []string{quoteIdent(f.Name, dialect), sqlType(f, dialect)}

	if f.IsPrimaryKey() {
		if f.Name == "id" && f.Type == schema.TypeInteger && dialect == DialectPostgres {
			// Synthetic identity column.
			parts = []string{f.Name, "INTEGER GENERATED ALWAYS AS IDENTITY"}
		}
		parts = append(parts, "PRIMARY KEY")
	} else {
		if !f.Nullable {
			parts = append(parts, "NOT NULL")
		}
		if f.Directives.Unique {
			parts = append(parts, "UNIQUE")
		}
	}

	if f.Directives.HasDefault {
		parts = append(parts, "DEFAULT "+sqlLiteral(f.Directives.Default))
	}
	if check := checkConstraint(f, dialect); check != "" {
		parts = append(parts, check)
	}

	return strings.Join(parts, " ")
}

func sqlType(f *schema.Field, dialect Dialect) string {
	switch f.Type {
	case schema.TypeString:
		if f.Directives.MaxLen != nil {
			return fmt.Sprintf("VARCHAR(%d)", *f.Directives.MaxLen)
		}
		return "TEXT"
	case schema.TypeInteger:
		return "INTEGER"
	case schema.TypeFloat:
		if dialect == DialectPostgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeJSON, schema.TypeArray:
		if dialect == DialectPostgres {
			return "JSONB"
		}
		return "TEXT"
	default:
		return "TEXT"
	}
}

func checkConstraint(f *schema.Field, dialect Dialect) string {
	name := quoteIdent(f.Name, dialect)

	var bounds []string
	if f.Directives.MinValue != nil {
		bounds = append(bounds, fmt.Sprintf("%s >= %s", name, formatNumber(*f.Directives.MinValue)))
	}
	if f.Directives.MaxValue != nil {
		bounds = append(bounds, fmt.Sprintf("%s <= %s", name, formatNumber(*f.Directives.MaxValue)))
	}
	if len(bounds) == 0 {
		return ""
	}
	return "CHECK (" + strings.Join(bounds, " AND ") + ")"
}

func sqlLiteral(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(t, "'", "''") + "'"
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case nil:
		return "NULL"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func createAssociationTable(assoc associationTable, dialect Dialect) string {
	leftCol := assoc.left + "_id"
	rightCol := assoc.right + "_id"
	if assoc.left == assoc.right {
		// Self-referential join tables need distinct column names.
		rightCol = "related_" + rightCol
	}

	return fmt.Sprintf(`CREATE TABLE %s (
  %s INTEGER NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
  %s INTEGER NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
  PRIMARY KEY (%s, %s)
);`, assoc.name, leftCol, quoteIdent(assoc.left, dialect), rightCol, quoteIdent(assoc.right, dialect), leftCol, rightCol)
}

func createReferenceTable(ref referenceTable, dialect Dialect) string {
	idCol := "id INTEGER PRIMARY KEY"
	if dialect == DialectPostgres {
		idCol = "id INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY"
	}

	cols := []string{idCol, "value TEXT NOT NULL"}
	if ref.withDescription {
		cols = append(cols, "description TEXT")
	}
	cols = append(cols, fmt.Sprintf("CONSTRAINT uq_%s_value UNIQUE (value)", ref.name))

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", ref.name, strings.Join(cols, ",\n  "))
}
