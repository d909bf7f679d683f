package brand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	k := Default()

	assert.Equal(t, "Odd Shoes", k.Name)
	assert.Equal(t, "buildit@oddshoes.dev", k.Email)
	assert.Equal(t, "Genesis Build", k.Services.Genesis.Name)
	assert.Equal(t, "Kingdom Builder", k.Services.Kingdom.Name)
	assert.Equal(t, "AI & Automation", k.Services.AI.Name)
	assert.Len(t, k.Services.Genesis.Process, 3)
	assert.Len(t, k.Services.AI.Options, 3)
	assert.Len(t, k.Team, 5)
	assert.Len(t, k.Values, 6)
	assert.Equal(t, "∞", k.Stats.WorshipSongs)
	assert.Contains(t, k.Scripture.About, "God's handiwork")
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	k, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Name, k.Name)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brand.yaml")
	doc := `
name: Test Studio
email: hello@test.example
site_url: https://test.example
services:
  genesis: {name: Sprint}
  kingdom: {name: Scale}
  ai: {name: Bots}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	k, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Studio", k.Name)
	assert.Equal(t, "Sprint", k.Services.Genesis.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_RequiresServiceNames(t *testing.T) {
	_, err := Parse([]byte("name: X\nemail: a@b.c\nsite_url: https://x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "services.genesis.name")
}
