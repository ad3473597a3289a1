package rexcrawl_test

import (
	"testing"

	"github.com/fwojciec/rexcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	t.Run("accepts known categories", func(t *testing.T) {
		t.Parallel()

		for _, c := range rexcrawl.Categories() {
			got, err := rexcrawl.ParseCategory(string(c))
			require.NoError(t, err)
			assert.Equal(t, c, got)
		}
	})

	t.Run("empty means no filter", func(t *testing.T) {
		t.Parallel()

		got, err := rexcrawl.ParseCategory("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		t.Parallel()

		_, err := rexcrawl.ParseCategory("chemistry")
		require.Error(t, err)
		assert.Equal(t, rexcrawl.EINVALID, rexcrawl.ErrorCode(err))
	})
}

func TestFilterByCategory(t *testing.T) {
	t.Parallel()

	links := []rexcrawl.EntryLink{
		{Name: "A", URL: "https://example.com/a.html", Category: rexcrawl.CategoryEnergy},
		{Name: "B", URL: "https://example.com/b.html", Category: rexcrawl.CategoryGeneral},
		{Name: "C", URL: "https://example.com/c.html", Category: rexcrawl.CategoryEnergy},
	}

	t.Run("keeps matching links in order", func(t *testing.T) {
		t.Parallel()

		got := rexcrawl.FilterByCategory(links, rexcrawl.CategoryEnergy)
		require.Len(t, got, 2)
		assert.Equal(t, "A", got[0].Name)
		assert.Equal(t, "C", got[1].Name)
	})

	t.Run("empty category returns everything", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, links, rexcrawl.FilterByCategory(links, ""))
	})
}

func TestCountByCategory(t *testing.T) {
	t.Parallel()

	counts := rexcrawl.CountByCategory([]rexcrawl.EntryLink{
		{Category: rexcrawl.CategoryMedical},
		{Category: rexcrawl.CategoryMedical},
		{Category: rexcrawl.CategoryTransport},
	})

	assert.Equal(t, 2, counts[rexcrawl.CategoryMedical])
	assert.Equal(t, 1, counts[rexcrawl.CategoryTransport])
	assert.Zero(t, counts[rexcrawl.CategoryEnergy])
}
