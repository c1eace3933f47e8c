package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tkarlsen/docschema/internal/schema"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// MultiFileFormatter writes the entity graph to multiple files in a
// directory: an overview plus one file per entity.
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the entity graph to multiple files
func (f *MultiFileFormatter) Format(g *schema.Graph) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(g); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, ent := range g.Entities() {
		if err := f.writeEntityFile(ent, g); err != nil {
			return fmt.Errorf("failed to write entity file for %s: %w", ent.Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeOverview(g *schema.Graph) error {
	ext := f.getFileExtension()
	filename := filepath.Join(f.OutputDir, "_overview"+ext)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(file, "# Schema Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each entity has a corresponding file: `<entity_name>%s`\n\n", ext)
		_, _ = fmt.Fprintf(file, "## Entities\n\n")
	} else {
		_, _ = fmt.Fprintf(file, "SCHEMA OVERVIEW\n")
		_, _ = fmt.Fprintf(file, "Each entity has a file: <entity_name>%s\n\n", ext)
	}

	// Sort entities alphabetically
	names := g.Names()
	sort.Strings(names)

	for _, name := range names {
		ent, _ := g.Get(name)

		var targets []string
		for _, fld := range ent.Fields {
			if fld.IsRelationship {
				targets = append(targets, fld.RelationshipTarget)
			}
		}

		if f.OutputFormat == formatMarkdown {
			_, _ = fmt.Fprintf(file, "- **%s**", ent.Name)
			if len(targets) > 0 {
				_, _ = fmt.Fprintf(file, " (references: %s)", strings.Join(targets, ", "))
			}
			_, _ = fmt.Fprintln(file)
		} else {
			_, _ = fmt.Fprintf(file, "%s", ent.Name)
			if len(targets) > 0 {
				_, _ = fmt.Fprintf(file, " (references: %s)", strings.Join(targets, ","))
			}
			_, _ = fmt.Fprintln(file)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeEntityFile(ent *schema.Entity, g *schema.Graph) error {
	ext := f.getFileExtension()
	filename := filepath.Join(f.OutputDir, ent.Name+ext)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		mdFormatter := NewMarkdownFormatter(file)
		mdFormatter.FormatEntity(ent)
	} else {
		textFormatter := NewTextFormatter(file)
		textFormatter.formatEntity(ent)
	}

	// Incoming relationships from other entities.
	incoming := findIncomingRelations(ent.Name, g)
	if len(incoming) > 0 {
		if f.OutputFormat == formatMarkdown {
			_, _ = fmt.Fprintf(file, "### Referenced by\n\n")
			for _, rel := range incoming {
				_, _ = fmt.Fprintf(file, "- %s.%s (%s)\n", rel.source, rel.field, rel.cardinality)
			}
			_, _ = fmt.Fprintln(file)
		} else {
			_, _ = fmt.Fprintln(file)
			_, _ = fmt.Fprintln(file, "  REFERENCED BY:")
			for _, rel := range incoming {
				_, _ = fmt.Fprintf(file, "    %s.%s (%s)\n", rel.source, rel.field, rel.cardinality)
			}
		}
	}

	return nil
}

type incomingRelation struct {
	source      string
	field       string
	cardinality string
}

// findIncomingRelations finds all relationship fields pointing to this entity
func findIncomingRelations(entityName string, g *schema.Graph) []incomingRelation {
	var incoming []incomingRelation

	for _, ent := range g.Entities() {
		if ent.Name == entityName {
			continue
		}
		for _, fld := range ent.Fields {
			if fld.IsRelationship && fld.RelationshipTarget == entityName {
				incoming = append(incoming, incomingRelation{
					source:      ent.Name,
					field:       fld.Name,
					cardinality: Cardinality(fld),
				})
			}
		}
	}

	return incoming
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
