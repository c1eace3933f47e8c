package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tkarlsen/docschema/internal/schema"
)

// TextFormatter renders an entity graph as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the entity graph in compact text format
func (f *TextFormatter) Format(g *schema.Graph) error {
	for i, ent := range g.Entities() {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between entities
		}
		f.formatEntity(ent)
	}
	return nil
}

func (f *TextFormatter) formatEntity(ent *schema.Entity) {
	pkStr := ""
	if pk := ent.PrimaryKeyField(); pk != nil {
		pkStr = fmt.Sprintf(" (PK: %s)", pk.Name)
	}
	_, _ = fmt.Fprintf(f.writer, "ENTITY %s%s\n", ent.Name, pkStr)

	var relations []*schema.Field
	for _, fld := range ent.Fields {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatField(fld))
		if fld.IsRelationship {
			relations = append(relations, fld)
		}
	}

	if len(relations) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, rel := range relations {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s (%s)\n", rel.Name, rel.RelationshipTarget, Cardinality(rel))
		}
	}
}

func formatField(fld *schema.Field) string {
	parts := []string{fld.Name + ":"}

	if fld.IsRelationship {
		parts = append(parts, "→ "+fld.RelationshipTarget)
	} else {
		parts = append(parts, fld.Type.String())
	}

	if fld.IsPrimaryKey() {
		parts = append(parts, "PK")
	}
	if fld.Directives.Unique {
		parts = append(parts, "UNIQUE")
	}
	if !fld.Nullable && !fld.IsPrimaryKey() {
		parts = append(parts, "NOT NULL")
	}
	if fld.IsReferenceTable {
		parts = append(parts, "REF "+fld.ReferenceTableName)
	}
	if fld.IsManyToMany {
		parts = append(parts, "VIA "+fld.AssociationTableName)
	}
	if fld.Directives.HasDefault {
		parts = append(parts, fmt.Sprintf("DEFAULT %v", fld.Directives.Default))
	}

	return strings.Join(parts, " ")
}

// Cardinality describes a relationship field for display.
func Cardinality(fld *schema.Field) string {
	switch {
	case fld.IsManyToMany:
		return "many-to-many via " + fld.AssociationTableName
	case fld.IsList:
		return "one-to-many"
	default:
		return "one-to-one"
	}
}
