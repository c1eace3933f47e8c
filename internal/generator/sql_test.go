package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkarlsen/docschema/internal/metadata"
	"github.com/tkarlsen/docschema/internal/schema"
)

func intPtr(n int) *int          { return &n }
func floatPtr(f float64) *float64 { return &f }

func syntheticID() *schema.Field {
	return &schema.Field{
		Name:        "id",
		Type:        schema.TypeInteger,
		Description: "Primary key",
		Directives:  metadata.Directives{PrimaryKey: true},
	}
}

func userAddressGraph() *schema.Graph {
	g := schema.NewGraph()

	user := g.Register("user")
	user.Fields = []*schema.Field{
		syntheticID(),
		{Name: "name", Type: schema.TypeString},
		{
			Name: "address", Type: schema.TypeAny, IsRelationship: true,
			RelationshipTarget: "address", IsForeignKey: true, ForeignKeyTarget: "address",
		},
	}

	addr := g.Register("address")
	addr.Fields = []*schema.Field{
		syntheticID(),
		{Name: "street", Type: schema.TypeString},
	}

	return g
}

func TestGenerateDDLBasic(t *testing.T) {
	stmts, err := GenerateDDL(userAddressGraph(), nil)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	// The FK target must be created before its referrer.
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE address"), stmts[0])
	assert.True(t, strings.HasPrefix(stmts[1], "CREATE TABLE user"), stmts[1])

	assert.Contains(t, stmts[1], "id INTEGER PRIMARY KEY")
	assert.Contains(t, stmts[1], "name TEXT NOT NULL")
	assert.Contains(t, stmts[1], "address_id INTEGER NOT NULL REFERENCES address(id) ON DELETE SET NULL")
}

func TestGenerateDDLPostgresIdentity(t *testing.T) {
	stmts, err := GenerateDDL(userAddressGraph(), &SQLOptions{Dialect: DialectPostgres})
	require.NoError(t, err)

	assert.Contains(t, stmts[0], "id INTEGER GENERATED ALWAYS AS IDENTITY PRIMARY KEY")
}

func TestGenerateDDLOneToMany(t *testing.T) {
	g := schema.NewGraph()
	user := g.Register("user")
	user.Fields = []*schema.Field{
		syntheticID(),
		{
			Name: "orders", Type: schema.TypeAny, IsRelationship: true, IsList: true,
			RelationshipTarget: "order", IsForeignKey: true, ForeignKeyTarget: "order",
		},
	}
	order := g.Register("order")
	order.Fields = []*schema.Field{
		syntheticID(),
		{Name: "total", Type: schema.TypeFloat},
	}

	stmts, err := GenerateDDL(g, nil)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	var orderStmt string
	for _, s := range stmts {
		if strings.HasPrefix(s, `CREATE TABLE "order"`) {
			orderStmt = s
		}
	}
	require.NotEmpty(t, orderStmt)

	// The plural FK lands on the child table.
	assert.Contains(t, orderStmt, "user_id INTEGER REFERENCES user(id) ON DELETE SET NULL")
	assert.Contains(t, orderStmt, "total REAL NOT NULL")
}

func TestGenerateDDLQuotesReservedNames(t *testing.T) {
	g := schema.NewGraph()
	user := g.Register("user")
	user.Fields = []*schema.Field{
		syntheticID(),
		{Name: "group", Type: schema.TypeString},
	}

	sqlite, err := GenerateDDL(g, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sqlite[0], "CREATE TABLE user"), sqlite[0])
	assert.Contains(t, sqlite[0], `"group" TEXT NOT NULL`)

	pg, err := GenerateDDL(g, &SQLOptions{Dialect: DialectPostgres})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pg[0], `CREATE TABLE "user"`), pg[0])
}

func TestGenerateDDLManyToMany(t *testing.T) {
	g := schema.NewGraph()
	product := g.Register("product")
	product.Fields = []*schema.Field{
		syntheticID(),
		{
			Name: "tags", Type: schema.TypeAny, IsRelationship: true, IsList: true,
			IsManyToMany: true, RelationshipTarget: "tag", AssociationTableName: "product_tag_association",
		},
	}
	tag := g.Register("tag")
	tag.Fields = []*schema.Field{
		syntheticID(),
		{Name: "name", Type: schema.TypeString},
	}

	stmts, err := GenerateDDL(g, nil)
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	assoc := stmts[len(stmts)-1]
	assert.Contains(t, assoc, "CREATE TABLE product_tag_association")
	assert.Contains(t, assoc, "product_id INTEGER NOT NULL REFERENCES product(id) ON DELETE CASCADE")
	assert.Contains(t, assoc, "tag_id INTEGER NOT NULL REFERENCES tag(id) ON DELETE CASCADE")
	assert.Contains(t, assoc, "PRIMARY KEY (product_id, tag_id)")

	// No FK column for the M2M field on either side.
	for _, s := range stmts[:2] {
		assert.NotContains(t, s, "tags_id")
	}
}

func TestGenerateDDLSelfReferentialAssociation(t *testing.T) {
	g := schema.NewGraph()
	person := g.Register("person")
	person.Fields = []*schema.Field{
		syntheticID(),
		{
			Name: "friends", Type: schema.TypeAny, IsRelationship: true, IsList: true,
			IsManyToMany: true, RelationshipTarget: "person", AssociationTableName: "person_person_association",
		},
	}

	stmts, err := GenerateDDL(g, nil)
	require.NoError(t, err)

	assoc := stmts[len(stmts)-1]
	assert.Contains(t, assoc, "person_id INTEGER NOT NULL")
	assert.Contains(t, assoc, "related_person_id INTEGER NOT NULL")
	assert.Contains(t, assoc, "PRIMARY KEY (person_id, related_person_id)")
}

func TestGenerateDDLReferenceTable(t *testing.T) {
	g := schema.NewGraph()
	product := g.Register("product")
	product.Fields = []*schema.Field{
		syntheticID(),
		{
			Name: "status", Type: schema.TypeString,
			IsReferenceTable: true, ReferenceTableName: "status_ref",
		},
	}

	stmts, err := GenerateDDL(g, nil)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Contains(t, stmts[0], "status TEXT NOT NULL")

	ref := stmts[1]
	assert.Contains(t, ref, "CREATE TABLE status_ref")
	assert.Contains(t, ref, "value TEXT NOT NULL")
	assert.Contains(t, ref, "CONSTRAINT uq_status_ref_value UNIQUE (value)")
}

func TestGenerateDDLConstraints(t *testing.T) {
	g := schema.NewGraph()
	user := g.Register("user")
	user.Fields = []*schema.Field{
		syntheticID(),
		{
			Name: "email", Type: schema.TypeString,
			Directives: metadata.Directives{Unique: true, MaxLen: intPtr(120)},
		},
		{
			Name: "age", Type: schema.TypeInteger, Nullable: true,
			Directives: metadata.Directives{MinValue: floatPtr(0), MaxValue: floatPtr(150)},
		},
		{
			Name: "plan", Type: schema.TypeString,
			Directives: metadata.Directives{Default: "free", HasDefault: true},
		},
	}

	stmts, err := GenerateDDL(g, nil)
	require.NoError(t, err)
	stmt := stmts[0]

	assert.Contains(t, stmt, "email VARCHAR(120) NOT NULL UNIQUE")
	assert.Contains(t, stmt, "age INTEGER CHECK (age >= 0 AND age <= 150)")
	assert.Contains(t, stmt, "plan TEXT NOT NULL DEFAULT 'free'")
}

func TestGenerateDDLDanglingTarget(t *testing.T) {
	g := schema.NewGraph()
	user := g.Register("user")
	user.Fields = []*schema.Field{
		syntheticID(),
		{
			Name: "address", Type: schema.TypeAny, IsRelationship: true,
			RelationshipTarget: "address",
		},
	}

	_, err := GenerateDDL(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dangling relationship")
}

func TestGenerateDDLCycleFallsBackToRegistrationOrder(t *testing.T) {
	g := schema.NewGraph()
	a := g.Register("alpha")
	a.Fields = []*schema.Field{
		syntheticID(),
		{Name: "beta", Type: schema.TypeAny, IsRelationship: true, RelationshipTarget: "beta", IsForeignKey: true},
	}
	b := g.Register("beta")
	b.Fields = []*schema.Field{
		syntheticID(),
		{Name: "alpha", Type: schema.TypeAny, IsRelationship: true, RelationshipTarget: "alpha", IsForeignKey: true},
	}

	stmts, err := GenerateDDL(g, nil)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE alpha"))
	assert.True(t, strings.HasPrefix(stmts[1], "CREATE TABLE beta"))
}
