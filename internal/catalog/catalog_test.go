package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	categories := c.Categories()
	require.NotEmpty(t, categories)
	for _, category := range categories {
		assert.NotEmpty(t, category.ID)
		assert.NotEmpty(t, category.Nominees, category.ID)
	}

	first, ok := c.Category(categories[0].ID)
	require.True(t, ok)
	assert.Equal(t, categories[0], first)
}

func TestParseReadsNominados(t *testing.T) {
	c, err := Parse([]byte(`[
		{"id":"best-song","name":"Best Song","nominados":[{"id":"song-a","name":"A"},{"id":"song-b","name":"B"}]}
	]`))
	require.NoError(t, err)

	category, ok := c.Category("best-song")
	require.True(t, ok)
	assert.Equal(t, "Best Song", category.Name)
	require.Len(t, category.Nominees, 2)
	assert.Equal(t, "song-b", category.Nominees[1].ID)

	_, ok = c.Category("missing")
	assert.False(t, ok)
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]string{
		"malformed":          `{`,
		"empty category id":  `[{"id":"","nominados":[{"id":"a"}]}]`,
		"duplicate category": `[{"id":"x","nominados":[{"id":"a"}]},{"id":"x","nominados":[{"id":"b"}]}]`,
		"no nominees":        `[{"id":"x","nominados":[]}]`,
		"empty nominee id":   `[{"id":"x","nominados":[{"id":""}]}]`,
		"duplicate nominee":  `[{"id":"x","nominados":[{"id":"a"},{"id":"a"}]}]`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"only","nominados":[{"id":"one"}]}]`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Categories(), 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
