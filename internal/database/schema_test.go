package database

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Les requêtes CQL du code sont non qualifiées : chaque table doit être créée
// dans le keyspace de la session qui l'interroge, sinon Scylla répond
// "unconfigured table" au premier accès. Ce test ancre le script d'init sur
// la répartition réelle des sessions.

var createTableRe = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+)\.(\w+)\s*\((.*?)\)\s*(?:WITH|;)`)

func loadSchema(t *testing.T) map[string]string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "scripts", "scylladb_init.cql"))
	require.NoError(t, err)

	tables := map[string]string{} // table → keyspace
	for _, m := range createTableRe.FindAllStringSubmatch(string(raw), -1) {
		tables[m[2]] = m[1]
	}
	return tables
}

func TestSchemaTablesLiveInTheQueriedKeyspace(t *testing.T) {
	tables := loadSchema(t)

	// Session users : comptes, lookups et panier (ScyllaUserStore,
	// ScyllaCartStore, prepared statements)
	for _, table := range []string{"users", "users_by_email", "users_by_reset_token", "cart_items", "cart_items_by_user"} {
		assert.Equal(t, "velora_users", tables[table], "table %s", table)
	}

	// Session catalog : ScyllaItemStore
	assert.Equal(t, "velora_catalog", tables["items"])

	// Session orders : ScyllaOrderStore
	for _, table := range []string{"orders", "orders_by_user", "order_items"} {
		assert.Equal(t, "velora_orders", tables[table], "table %s", table)
	}
}

func TestSchemaOrdersByUserListsNewestFirst(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "scripts", "scylladb_init.cql"))
	require.NoError(t, err)

	stmt := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS velora_orders\.orders_by_user.*?;`).
		FindString(string(raw))
	require.NotEmpty(t, stmt)

	assert.Contains(t, stmt, "PRIMARY KEY ((user_id), created_at, order_id)")
	assert.Contains(t, stmt, "CLUSTERING ORDER BY (created_at DESC")
}

// users_by_email ne sert qu'à l'unicité : l'insertion LWT n'écrit que la
// paire (email, user_id), le schéma ne doit pas promettre plus.
func TestSchemaUsersByEmailCarriesOnlyTheLookupPair(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "scripts", "scylladb_init.cql"))
	require.NoError(t, err)

	m := createTableRe.FindAllStringSubmatch(string(raw), -1)
	var columns string
	for _, sub := range m {
		if sub[1] == "velora_users" && sub[2] == "users_by_email" {
			columns = sub[3]
		}
	}
	require.NotEmpty(t, columns)

	var names []string
	for _, line := range strings.Split(columns, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if line == "" {
			continue
		}
		names = append(names, strings.Fields(line)[0])
	}
	assert.ElementsMatch(t, []string{"email", "user_id"}, names)
}
