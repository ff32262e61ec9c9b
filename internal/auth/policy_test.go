package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func defaultTable() *PolicyTable {
	return NewPolicyTable(DefaultPolicies("/api/v1", "/public/uploads"))
}

func TestPolicyTable_PublicReads(t *testing.T) {
	t.Parallel()
	table := defaultTable()

	require.Equal(t, AccessPublic, table.LevelFor("GET", "/api/v1/products"))
	require.Equal(t, AccessPublic, table.LevelFor("GET", "/api/v1/products/123"))
	require.Equal(t, AccessPublic, table.LevelFor("GET", "/api/v1/products/featured/5"))
	require.Equal(t, AccessPublic, table.LevelFor("GET", "/api/v1/categories"))
	require.Equal(t, AccessPublic, table.LevelFor("GET", "/public/uploads/pic.png"))
	require.Equal(t, AccessPublic, table.LevelFor("GET", "/health/live"))
	require.Equal(t, AccessPublic, table.LevelFor("POST", "/api/v1/users/login"))
	require.Equal(t, AccessPublic, table.LevelFor("POST", "/api/v1/users/register"))
}

func TestPolicyTable_AdminRoutes(t *testing.T) {
	t.Parallel()
	table := defaultTable()

	require.Equal(t, AccessAdmin, table.LevelFor("POST", "/api/v1/products"))
	require.Equal(t, AccessAdmin, table.LevelFor("PUT", "/api/v1/products/123"))
	require.Equal(t, AccessAdmin, table.LevelFor("DELETE", "/api/v1/products/123"))
	require.Equal(t, AccessAdmin, table.LevelFor("GET", "/api/v1/products/count"))
	require.Equal(t, AccessAdmin, table.LevelFor("POST", "/api/v1/categories"))
	require.Equal(t, AccessAdmin, table.LevelFor("GET", "/api/v1/users"))
	require.Equal(t, AccessAdmin, table.LevelFor("GET", "/api/v1/orders"))
	require.Equal(t, AccessAdmin, table.LevelFor("GET", "/api/v1/orders/totalsales"))
	require.Equal(t, AccessAdmin, table.LevelFor("PUT", "/api/v1/orders/123/status"))
}

func TestPolicyTable_AuthenticatedRoutes(t *testing.T) {
	t.Parallel()
	table := defaultTable()

	require.Equal(t, AccessAuthenticated, table.LevelFor("POST", "/api/v1/orders"))
	require.Equal(t, AccessAuthenticated, table.LevelFor("GET", "/api/v1/orders/123"))
	require.Equal(t, AccessAuthenticated, table.LevelFor("GET", "/api/v1/orders/user/456"))
}

func TestPolicyTable_UnmatchedFailsClosed(t *testing.T) {
	t.Parallel()
	table := defaultTable()

	require.Equal(t, AccessAuthenticated, table.LevelFor("GET", "/totally/unknown"))
	require.Equal(t, AccessAuthenticated, table.LevelFor("POST", "/"))
	// Writes to the static prefix are not public.
	require.Equal(t, AccessAuthenticated, table.LevelFor("POST", "/public/uploads/pic.png"))
}

func TestParsePolicyEntries(t *testing.T) {
	t.Parallel()

	entries, err := ParsePolicyEntries("/metrics=public, /api/v1/reports=admin")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, AccessPublic, entries[0].Level)
	require.Equal(t, "/api/v1/reports", entries[1].Path)

	_, err = ParsePolicyEntries("/metrics=root")
	require.Error(t, err)

	_, err = ParsePolicyEntries("nonsense")
	require.Error(t, err)

	entries, err = ParsePolicyEntries("")
	require.NoError(t, err)
	require.Empty(t, entries)
}
