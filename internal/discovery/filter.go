package discovery

import (
	"path/filepath"
	"strings"

	"testbridge/internal/domain"
)

// Filter filters collected test cases by name pattern
type Filter struct {
	pattern string
}

// NewFilter creates a new Filter. An empty pattern keeps every case.
func NewFilter(pattern string) *Filter {
	return &Filter{pattern: pattern}
}

// Keep reports whether a case matches the pattern by display name or node id.
// Supports patterns like "test_login*" or "*payment*"
func (f *Filter) Keep(c domain.CaseRecord) bool {
	if f.pattern == "" {
		return true
	}
	return match(f.pattern, c.DisplayName) || match(f.pattern, c.ID)
}

// FilterCases returns the cases the pattern keeps, in input order
func (f *Filter) FilterCases(cases []domain.CaseRecord) []domain.CaseRecord {
	if f.pattern == "" {
		return cases
	}

	var filtered []domain.CaseRecord
	for _, c := range cases {
		if f.Keep(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func match(pattern, name string) bool {
	if name == "" {
		return false
	}

	// filepath.Match supports * and ? wildcards
	matched, err := filepath.Match(pattern, name)
	if err == nil && matched {
		return true
	}

	// ids contain "/" and "::", which filepath.Match treats specially, so
	// wildcard patterns fall back to matching the literal parts in order,
	// anchored at the ends unless the pattern starts or ends with "*"
	if strings.Contains(pattern, "*") {
		parts := strings.Split(pattern, "*")
		first, last := parts[0], parts[len(parts)-1]
		if !strings.HasPrefix(name, first) {
			return false
		}
		rest := name[len(first):]
		hasPart := first != "" || last != ""
		for _, part := range parts[1 : len(parts)-1] {
			if part == "" {
				continue
			}
			hasPart = true
			i := strings.Index(rest, part)
			if i < 0 {
				return false
			}
			rest = rest[i+len(part):]
		}
		return hasPart && strings.HasSuffix(rest, last)
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
