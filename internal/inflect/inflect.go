// Package inflect normalizes entity names between plural and singular forms.
package inflect

import "github.com/jinzhu/inflection"

// Irregular plurals the shared rules get wrong or that entity naming
// depends on regardless of rule changes upstream.
var irregulars = map[string]string{
	"addresses": "address",
	"children":  "child",
	"feet":      "foot",
	"geese":     "goose",
	"men":       "man",
	"mice":      "mouse",
	"people":    "person",
	"teeth":     "tooth",
	"women":     "woman",
	"items":     "item",
}

// Singular converts a plural word to its singular form. Words that are
// already singular pass through unchanged.
func Singular(word string) string {
	if word == "" {
		return word
	}
	if s, ok := irregulars[word]; ok {
		return s
	}
	return inflection.Singular(word)
}
