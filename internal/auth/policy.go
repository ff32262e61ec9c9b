package auth

import (
	"fmt"
	"sort"
	"strings"
)

// AccessLevel is the minimum privilege a route requires.
type AccessLevel string

const (
	AccessPublic        AccessLevel = "public"
	AccessAuthenticated AccessLevel = "authenticated"
	AccessAdmin         AccessLevel = "admin"
)

// PolicyEntry maps a path prefix (or exact path) to a required access
// level. Empty Methods means the entry applies to every method.
type PolicyEntry struct {
	Path    string
	Exact   bool
	Methods []string
	Level   AccessLevel
}

// PolicyTable is the process-wide routing policy. Built once at startup,
// read-only thereafter; safe for unsynchronized concurrent reads.
type PolicyTable struct {
	entries []PolicyEntry
}

// NewPolicyTable builds a table. Entries are ordered longest path first
// so the most specific prefix wins; among equal paths, method-specific
// entries take precedence over method-agnostic ones.
func NewPolicyTable(entries []PolicyEntry) *PolicyTable {
	sorted := make([]PolicyEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Path) != len(sorted[j].Path) {
			return len(sorted[i].Path) > len(sorted[j].Path)
		}
		return len(sorted[i].Methods) > 0 && len(sorted[j].Methods) == 0
	})
	return &PolicyTable{entries: sorted}
}

// LevelFor resolves the required access level for a request. Unmatched
// paths default to authenticated: the table fails closed.
func (t *PolicyTable) LevelFor(method, path string) AccessLevel {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}
	for _, entry := range t.entries {
		if entry.Exact {
			if path != entry.Path {
				continue
			}
		} else if !strings.HasPrefix(path, entry.Path) {
			continue
		}
		if !methodAllowed(entry.Methods, method) {
			continue
		}
		return entry.Level
	}
	return AccessAuthenticated
}

func methodAllowed(methods []string, method string) bool {
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// DefaultPolicies returns the built-in route policy for the service.
// Catalog reads and the auth entry points are public; catalog mutation
// and back-office reads are admin; order placement and retrieval are
// authenticated, with ownership enforced by the handlers.
func DefaultPolicies(apiPrefix, uploadPrefix string) []PolicyEntry {
	readOnly := []string{"GET", "HEAD"}
	return []PolicyEntry{
		{Path: "/health", Level: AccessPublic},
		{Path: uploadPrefix, Methods: readOnly, Level: AccessPublic},

		{Path: apiPrefix + "/users/register", Level: AccessPublic},
		{Path: apiPrefix + "/users/login", Level: AccessPublic},
		{Path: apiPrefix + "/users", Level: AccessAdmin},

		{Path: apiPrefix + "/categories", Methods: readOnly, Level: AccessPublic},
		{Path: apiPrefix + "/categories", Level: AccessAdmin},

		{Path: apiPrefix + "/products/count", Level: AccessAdmin},
		{Path: apiPrefix + "/products", Methods: readOnly, Level: AccessPublic},
		{Path: apiPrefix + "/products", Level: AccessAdmin},

		{Path: apiPrefix + "/orders/count", Level: AccessAdmin},
		{Path: apiPrefix + "/orders/totalsales", Level: AccessAdmin},
		{Path: apiPrefix + "/orders", Exact: true, Methods: []string{"GET"}, Level: AccessAdmin},
		{Path: apiPrefix + "/orders", Methods: []string{"PUT", "DELETE"}, Level: AccessAdmin},
		{Path: apiPrefix + "/orders", Level: AccessAuthenticated},
	}
}

// ParsePolicyEntries parses "prefix=level" CSV overrides from
// configuration, e.g. "/api/v1/reports=admin,/metrics=public".
func ParsePolicyEntries(raw string) ([]PolicyEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var entries []PolicyEntry
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		prefix, level, found := strings.Cut(part, "=")
		if !found || prefix == "" {
			return nil, fmt.Errorf("invalid route policy entry %q", part)
		}
		switch AccessLevel(level) {
		case AccessPublic, AccessAuthenticated, AccessAdmin:
			entries = append(entries, PolicyEntry{Path: prefix, Level: AccessLevel(level)})
		default:
			return nil, fmt.Errorf("invalid access level %q in route policy entry %q", level, part)
		}
	}
	return entries, nil
}
