package source

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical names of the identity columns every source table must carry.
const (
	FieldID   = "id"
	FieldName = "name"
)

// HeaderMap canonicalizes raw table headers. Aliases match exactly after
// whitespace trimming; a header with no alias passes through untouched so
// unmapped metric columns are still captured under their raw name.
type HeaderMap struct {
	aliases map[string]string
}

// NewHeaderMap builds a header map from canonical-name -> variant lists.
// Each canonical name is also an alias for itself.
func NewHeaderMap(aliases map[string][]string) *HeaderMap {
	m := &HeaderMap{aliases: make(map[string]string)}
	for canonical, variants := range aliases {
		m.aliases[canonical] = canonical
		for _, v := range variants {
			m.aliases[strings.TrimSpace(v)] = canonical
		}
	}
	return m
}

// LoadHeaderMap reads a YAML alias file of the form:
//
//	id:
//	  - "Player ID"
//	  - "player_id"
//	power:
//	  - "Power"
func LoadHeaderMap(path string) (*HeaderMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read header alias file: %w", err)
	}

	var aliases map[string][]string
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse header alias file: %w", err)
	}

	m := NewHeaderMap(aliases)
	if _, ok := m.aliases[FieldID]; !ok {
		return nil, fmt.Errorf("header alias file does not define the %q field", FieldID)
	}
	if _, ok := m.aliases[FieldName]; !ok {
		return nil, fmt.Errorf("header alias file does not define the %q field", FieldName)
	}
	return m, nil
}

// Canonical returns the canonical field name for a raw header.
func (m *HeaderMap) Canonical(header string) string {
	header = strings.TrimSpace(header)
	if canonical, ok := m.aliases[header]; ok {
		return canonical
	}
	return header
}
