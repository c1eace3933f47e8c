//go:build integration
// +build integration

package integration

// sampleDocument exercises every inference path that produces a table:
// nested objects, one-to-many lists, a many-to-many list, and a
// reference-table field.
const sampleDocument = `{
	"customer": {
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"status": "active",
		"address": {
			"street": "12 St James Square",
			"city": "London"
		},
		"orders": [
			{"total": 120.5, "placed_at": "2024-01-15"}
		],
		"tags": [
			{"name": "vip"}
		]
	},
	"_docschema": {
		"customer.email": {"unique": true},
		"customer.status": {"is_reference_table": true, "reference_table_name": "customer_status"},
		"customer.tags": {"is_many_to_many": true, "entity_type": "tag"}
	}
}`

// expectedTables is every table the sample document should produce.
var expectedTables = []string{
	"customer",
	"address",
	"order",
	"tag",
	"customer_status",
	"customer_tag_association",
}
