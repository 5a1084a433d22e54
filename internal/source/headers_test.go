package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderMap_Canonical(t *testing.T) {
	m := NewHeaderMap(map[string][]string{
		"id":    {"Player ID", "player_id"},
		"name":  {"Player Name"},
		"power": {"Power"},
	})

	assert.Equal(t, "id", m.Canonical("Player ID"))
	assert.Equal(t, "id", m.Canonical("  player_id  "))
	assert.Equal(t, "id", m.Canonical("id"), "canonical names map to themselves")
	assert.Equal(t, "power", m.Canonical("Power"))

	// Unknown headers pass through so unmapped metric columns survive.
	assert.Equal(t, "Kill Streak", m.Canonical("Kill Streak"))

	// Matching is case-sensitive beyond trimming.
	assert.Equal(t, "PLAYER ID", m.Canonical("PLAYER ID"))
}

func writeAliasFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "headers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHeaderMap(t *testing.T) {
	path := writeAliasFile(t, `
id:
  - "Player ID"
name:
  - "Player Name"
power:
  - "Power"
`)

	m, err := LoadHeaderMap(path)
	require.NoError(t, err)
	assert.Equal(t, "id", m.Canonical("Player ID"))
	assert.Equal(t, "name", m.Canonical("Player Name"))
}

func TestLoadHeaderMap_RequiresIdentityFields(t *testing.T) {
	path := writeAliasFile(t, `
power:
  - "Power"
`)

	_, err := LoadHeaderMap(path)
	assert.ErrorContains(t, err, `"id"`)
}

func TestLoadHeaderMap_MissingFile(t *testing.T) {
	_, err := LoadHeaderMap(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
