package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForKnownDialects(t *testing.T) {
	for _, dialect := range []string{"mysql", "postgres", "sqlite"} {
		ddl, err := For(dialect)
		require.NoError(t, err, dialect)
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS customer_order_products", dialect)
		assert.Len(t, Statements(ddl), 12, dialect)
	}
}

func TestForUnknownDialect(t *testing.T) {
	_, err := For("oracle")
	assert.Error(t, err)
}

func TestStatements(t *testing.T) {
	script := `-- leading comment
CREATE TABLE a (x TEXT DEFAULT 'a;b');
  -- another
CREATE TABLE b (y INT);

`
	stmts := Statements(script)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x TEXT DEFAULT 'a;b')", stmts[0])
	assert.Equal(t, "CREATE TABLE b (y INT)", stmts[1])
}
