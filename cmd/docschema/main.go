package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tkarlsen/docschema"
)

var (
	rootName   string
	format     string
	outputFile string
	outputDir  string
	dialect    string
	modelPkg   string
	applyURL   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "docschema [file]",
	Short: "Infer a relational schema from an example JSON document",
	Long: `Docschema analyzes a single example JSON document, infers the entity
graph it implies (entities, fields, relationships, association tables),
and renders the result as text, markdown, SQL DDL, or Go models.

Reads from stdin when no file is given. Per-field directives go in the
reserved "_docschema" key of the document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&rootName, "root", "", "Root entity name (required when the document has bare fields)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, markdown, sql, or models")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output (text and markdown only)")
	rootCmd.Flags().StringVar(&dialect, "dialect", "sqlite", "SQL dialect for --format sql: sqlite or postgres")
	rootCmd.Flags().StringVar(&modelPkg, "package", "models", "Package name for --format models")
	rootCmd.Flags().StringVar(&applyURL, "apply", "", "Apply generated DDL to a database (postgres:// or sqlite:// URL)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log inference decisions")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := validateFormat(format); err != nil {
		return err
	}
	if err := validateOutputFlags(outputFile, outputDir, format); err != nil {
		return err
	}

	data, err := readInput(args)
	if err != nil {
		return err
	}

	opts := &docschema.Options{RootName: rootName}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		opts.Logger = logger
	}

	graph, err := docschema.Analyze(data, opts)
	if err != nil {
		return fmt.Errorf("failed to analyze document: %w", err)
	}

	if applyURL != "" {
		if err := docschema.Apply(ctx, graph, applyURL); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Applied schema for %d entities\n", graph.Len())
		return nil
	}

	// Multi-file output
	if outputDir != "" {
		return docschema.Render(graph, &docschema.OutputOptions{OutputDir: outputDir, Format: format})
	}

	// Single-file output
	var writer io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		writer = f
	}

	switch format {
	case "sql":
		statements, err := docschema.GenerateDDL(graph, dialect)
		if err != nil {
			return err
		}
		_, err = io.WriteString(writer, strings.Join(statements, "\n\n")+"\n")
		return err
	case "models":
		src, err := docschema.GenerateModels(graph, modelPkg)
		if err != nil {
			return err
		}
		_, err = io.WriteString(writer, src)
		return err
	default:
		return docschema.Render(graph, &docschema.OutputOptions{Writer: writer, Format: format})
	}
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

func validateFormat(format string) error {
	switch format {
	case "text", "markdown", "sql", "models":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be 'text', 'markdown', 'sql', or 'models')", format)
	}
}

func validateOutputFlags(outputFile, outputDir, format string) error {
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if outputDir != "" && format != "text" && format != "markdown" {
		return fmt.Errorf("--output-dir requires --format text or markdown")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
