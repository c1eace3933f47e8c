package analyzer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/tkarlsen/docschema/internal/inflect"
)

// commonEntities are nouns recognized as entity names when a field name
// (or its singular form) matches one of them.
var commonEntities = map[string]struct{}{
	"address":    {},
	"user":       {},
	"order":      {},
	"product":    {},
	"customer":   {},
	"employee":   {},
	"company":    {},
	"department": {},
	"location":   {},
	"contact":    {},
	"payment":    {},
	"item":       {},
}

// resolveObjectEntity decides the entity name for a nested-object field.
// Priority: explicit entity_type directive (an explicit null suppresses
// entity inference entirely), singularized field name when it is a common
// entity noun, the raw field name when it is one, else the field name
// verbatim.
func (a *Analyzer) resolveObjectEntity(field, parent string) (name string, suppressed bool) {
	dirs := a.meta.Lookup(parent, field)
	if dirs.HasEntityType() {
		if dirs.EntityType == nil {
			a.log.Debug("entity inference suppressed by directive",
				zap.String("field", field), zap.String("parent", parent))
			return "", true
		}
		a.log.Debug("entity type from directive",
			zap.String("field", field), zap.String("entity", *dirs.EntityType))
		return *dirs.EntityType, false
	}

	lower := strings.ToLower(field)
	if singular := inflect.Singular(lower); isCommonEntity(singular) {
		return singular, false
	}
	if isCommonEntity(lower) {
		return lower, false
	}
	return field, false
}

// resolveListEntity decides the entity name for a list-of-objects field:
// the entity_type directive when it names an entity, else the singularized
// field name. Unlike object fields, lists have no suppression escape hatch.
func (a *Analyzer) resolveListEntity(field, parent string) string {
	dirs := a.meta.Lookup(parent, field)
	if dirs.EntityType != nil {
		return *dirs.EntityType
	}
	return inflect.Singular(field)
}

func isCommonEntity(name string) bool {
	_, ok := commonEntities[name]
	return ok
}
