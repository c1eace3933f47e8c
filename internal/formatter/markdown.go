package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tkarlsen/docschema/internal/schema"
)

// MarkdownFormatter renders an entity graph as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the entity graph in markdown format
func (f *MarkdownFormatter) Format(g *schema.Graph) error {
	_, _ = fmt.Fprintln(f.writer, "# Inferred Schema")
	_, _ = fmt.Fprintln(f.writer)

	for _, ent := range g.Entities() {
		f.FormatEntity(ent)
	}
	return nil
}

// FormatEntity formats a single entity (exported for use by the
// multi-file formatter)
func (f *MarkdownFormatter) FormatEntity(ent *schema.Entity) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", ent.Name)

	_, _ = fmt.Fprintln(f.writer, "### Fields")
	_, _ = fmt.Fprintln(f.writer)

	var relations []*schema.Field
	for _, fld := range ent.Fields {
		if fld.IsRelationship {
			relations = append(relations, fld)
			continue
		}
		constraintStr := f.formatConstraints(fld)
		if constraintStr != "" {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", fld.Name, fld.Type, constraintStr)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", fld.Name, fld.Type)
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(relations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Relationships")
		_, _ = fmt.Fprintln(f.writer)
		for _, rel := range relations {
			_, _ = fmt.Fprintf(f.writer, "- %s → %s (%s)\n", rel.Name, rel.RelationshipTarget, Cardinality(rel))
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}

func (f *MarkdownFormatter) formatConstraints(fld *schema.Field) string {
	var constraints []string

	if fld.IsPrimaryKey() {
		constraints = append(constraints, "PK")
	}
	if fld.Directives.Unique {
		constraints = append(constraints, "UNIQUE")
	}
	if !fld.Nullable && !fld.IsPrimaryKey() {
		constraints = append(constraints, "NOT NULL")
	}
	if fld.IsReferenceTable {
		constraints = append(constraints, "reference table "+fld.ReferenceTableName)
	}
	if fld.Directives.HasDefault {
		constraints = append(constraints, fmt.Sprintf("DEFAULT %v", fld.Directives.Default))
	}
	if len(fld.Directives.Choices) > 0 {
		var opts []string
		for _, c := range fld.Directives.Choices {
			opts = append(opts, fmt.Sprintf("%v", c))
		}
		constraints = append(constraints, "one of ("+strings.Join(opts, "|")+")")
	}
	if fld.Description != "" {
		constraints = append(constraints, fld.Description)
	}

	return strings.Join(constraints, ", ")
}
