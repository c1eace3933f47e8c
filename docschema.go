// Package docschema infers a relational schema from a single example
// document and renders it as table definitions, SQL DDL, or validated
// Go models.
//
// The input is a nested JSON document: objects become entities, nested
// objects become one-to-one relationships, lists of objects become
// one-to-many (or, with a directive, many-to-many) relationships, and
// scalars become typed columns. A reserved "_docschema" key, at the top
// level or nested inside any entity's example, carries per-field
// directives keyed by "<entity>.<field>" (type overrides, nullability,
// constraints, relationship hints, naming).
//
// # Quick Start
//
//	graph, err := docschema.Analyze(data, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	statements, err := docschema.GenerateDDL(graph, "sqlite")
//
// # Input Shapes
//
// The document either wraps the root entity in a single top-level key:
//
//	{"user": {"name": "John", "age": 30}}
//
// or carries bare fields paired with an explicit root name:
//
//	docschema.Analyze(data, &docschema.Options{RootName: "user"})
//
// Supplying neither is a configuration error.
//
// # Applying DDL
//
// Apply connects to a database and executes the generated DDL:
//
//	err := docschema.Apply(ctx, graph, "sqlite://example.db")
//
// Supported URL schemes are postgres:// (or postgresql://) and sqlite://.
package docschema

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/tkarlsen/docschema/internal/analyzer"
	"github.com/tkarlsen/docschema/internal/db"
	"github.com/tkarlsen/docschema/internal/document"
	"github.com/tkarlsen/docschema/internal/formatter"
	"github.com/tkarlsen/docschema/internal/generator"
	"github.com/tkarlsen/docschema/internal/metadata"
	"github.com/tkarlsen/docschema/internal/schema"
)

// Options configures structure analysis.
type Options struct {
	// RootName names the root entity when the document carries bare
	// fields instead of a single wrapping key. When it matches a
	// top-level key, that key's value becomes the root document.
	RootName string

	// Logger enables debug tracing of inference decisions. Nil disables
	// tracing.
	Logger *zap.Logger
}

// OutputOptions configures schema rendering.
//
// If OutputDir is set, the graph is written as one file per entity plus
// an overview; otherwise everything goes to Writer (default os.Stdout).
type OutputOptions struct {
	// Writer receives single-file output. Ignored if OutputDir is set.
	Writer io.Writer

	// OutputDir receives multi-file output: _overview plus one file per
	// entity. Created if it does not exist.
	OutputDir string

	// Format is "text" (default) or "markdown".
	Format string
}

// Analyze parses a JSON document and infers its entity graph.
func Analyze(data []byte, opts *Options) (*schema.Graph, error) {
	v, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	return AnalyzeDocument(v, opts)
}

// AnalyzeDocument infers the entity graph of an already parsed document.
func AnalyzeDocument(v document.Value, opts *Options) (*schema.Graph, error) {
	if opts == nil {
		opts = &Options{}
	}
	if v.Kind != document.KindObject {
		return nil, fmt.Errorf("input document must be an object, got %s", v.Kind)
	}

	store := metadata.NewStore()
	store.StripAndAmend(v.Obj)

	rootName, rootDoc, err := analyzer.ResolveRoot(v.Obj, opts.RootName)
	if err != nil {
		return nil, err
	}

	return analyzer.New(store, opts.Logger).Analyze(rootName, rootDoc)
}

// Render writes the entity graph in the configured format and output mode.
func Render(g *schema.Graph, opts *OutputOptions) error {
	if opts == nil {
		opts = &OutputOptions{}
	}

	format := opts.Format
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "markdown" {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", format)
	}

	if opts.OutputDir != "" {
		return formatter.NewMultiFileFormatter(opts.OutputDir, format).Format(g)
	}

	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	if format == "markdown" {
		return formatter.NewMarkdownFormatter(writer).Format(g)
	}
	return formatter.NewTextFormatter(writer).Format(g)
}

// GenerateDDL renders CREATE TABLE statements for the graph in the given
// dialect ("sqlite" or "postgres").
func GenerateDDL(g *schema.Graph, dialect string) ([]string, error) {
	d, err := generator.ParseDialect(dialect)
	if err != nil {
		return nil, err
	}
	return generator.GenerateDDL(g, &generator.SQLOptions{Dialect: d})
}

// GenerateModels renders Go struct definitions for the graph into the
// given package name ("models" when empty).
func GenerateModels(g *schema.Graph, pkg string) (string, error) {
	return generator.GenerateModels(g, &generator.ModelOptions{Package: pkg})
}

// Apply generates DDL for the graph and executes it against the database
// at the given URL (postgres:// or sqlite://).
func Apply(ctx context.Context, g *schema.Graph, databaseURL string) error {
	dbType, connStr, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return err
	}

	statements, err := GenerateDDL(g, dbType)
	if err != nil {
		return err
	}

	switch dbType {
	case "postgres":
		client, err := db.NewPostgresClient(ctx, connStr)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer func() { _ = client.Close(ctx) }()
		return db.Apply(ctx, client, statements)
	default:
		client, err := db.NewSQLiteClient(ctx, connStr)
		if err != nil {
			return fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		defer func() { _ = client.Close(ctx) }()
		return db.Apply(ctx, client, statements)
	}
}

// parseDatabaseURL detects database type and returns connection string
func parseDatabaseURL(url string) (dbType, connectionStr string, err error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return "postgres", url, nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		// Strip sqlite:// prefix to get file path
		filePath := strings.TrimPrefix(url, "sqlite://")
		return "sqlite", filePath, nil
	}

	return "", "", fmt.Errorf("invalid database URL scheme (must start with postgres:// or sqlite://)")
}
