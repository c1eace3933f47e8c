package generator

import (
	"fmt"
	"strings"

	"github.com/tkarlsen/docschema/internal/schema"
)

// ModelOptions configures Go model generation
type ModelOptions struct {
	// Package is the package name of the generated file. Defaults to "models".
	Package string
}

// GenerateModels renders one exported struct per entity with json and
// validate tags derived from the directive bag. Singular relationships
// become optional references, plural ones lists of optional references.
func GenerateModels(g *schema.Graph, opts *ModelOptions) (string, error) {
	if opts == nil {
		opts = &ModelOptions{}
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = "models"
	}
	if err := validateGraph(g); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("// Code generated by docschema. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n", pkg)

	for _, ent := range g.Entities() {
		b.WriteString("\n")
		writeStruct(&b, ent)
	}

	return b.String(), nil
}

func writeStruct(b *strings.Builder, ent *schema.Entity) {
	name := exportName(ent.Name)
	fmt.Fprintf(b, "// %s is inferred from the %q example document.\n", name, ent.Name)
	fmt.Fprintf(b, "type %s struct {\n", name)

	for _, f := range ent.Fields {
		if f.Description != "" && f.Description != "Primary key" {
			fmt.Fprintf(b, "\t// %s\n", f.Description)
		}
		fmt.Fprintf(b, "\t%s %s `%s`\n", exportName(f.Name), goType(f), fieldTags(f))
	}

	b.WriteString("}\n")
}

func goType(f *schema.Field) string {
	if f.IsRelationship {
		target := "*" + exportName(f.RelationshipTarget)
		if f.IsList {
			return "[]" + target
		}
		return target
	}

	var base string
	switch f.Type {
	case schema.TypeString:
		base = "string"
	case schema.TypeInteger:
		base = "int64"
	case schema.TypeFloat:
		base = "float64"
	case schema.TypeBoolean:
		base = "bool"
	case schema.TypeJSON:
		return "map[string]any"
	case schema.TypeArray:
		return "[]any"
	default:
		return "any"
	}

	if f.Nullable {
		return "*" + base
	}
	return base
}

func fieldTags(f *schema.Field) string {
	jsonTag := f.Name
	if f.Nullable {
		jsonTag += ",omitempty"
	}
	tags := fmt.Sprintf("json:%q", jsonTag)

	if rules := validateRules(f); len(rules) > 0 {
		tags += fmt.Sprintf(" validate:%q", strings.Join(rules, ","))
	}
	return tags
}

func validateRules(f *schema.Field) []string {
	var rules []string
	d := f.Directives

	if f.Nullable {
		rules = append(rules, "omitempty")
	} else if f.Type == schema.TypeString && !f.IsRelationship && !d.PrimaryKey {
		rules = append(rules, "required")
	}

	if d.MaxLen != nil {
		rules = append(rules, fmt.Sprintf("max=%d", *d.MaxLen))
	}
	if d.MinLen != nil {
		rules = append(rules, fmt.Sprintf("min=%d", *d.MinLen))
	}
	if d.MinValue != nil {
		rules = append(rules, "gte="+formatNumber(*d.MinValue))
	}
	if d.MaxValue != nil {
		rules = append(rules, "lte="+formatNumber(*d.MaxValue))
	}
	if len(d.Choices) > 0 {
		var opts []string
		for _, c := range d.Choices {
			opts = append(opts, fmt.Sprintf("%v", c))
		}
		rules = append(rules, "oneof="+strings.Join(opts, " "))
	}

	return rules
}

// exportName converts a snake_case entity or field name to an exported
// Go identifier ("order_item" -> "OrderItem").
func exportName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	var b strings.Builder
	for _, p := range parts {
		if p == "id" {
			b.WriteString("ID")
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}
