package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func theme(id int64, name string, parent int64) Theme {
	t := Theme{ID: id, Name: name}
	if parent != 0 {
		t.ParentID = &parent
	}
	return t
}

func names(themes []Theme) []string {
	out := make([]string, len(themes))
	for i, t := range themes {
		out[i] = t.Name
	}
	return out
}

func TestThemeTreeDescendants(t *testing.T) {
	t.Parallel()

	// Input order is deliberately shuffled; the tree orders by id.
	tree := NewThemeTree([]Theme{
		theme(5, "Genitive-Plural", 2),
		theme(1, "Cases", 0),
		theme(3, "Dative", 1),
		theme(2, "Genitive", 1),
		theme(4, "Verbs", 0),
		theme(6, "Present", 4),
	})

	assert.Equal(t, []string{"Genitive", "Genitive-Plural", "Dative"}, names(tree.Descendants(1)))
	assert.Equal(t, []int64{2, 5, 3}, tree.DescendantIDs(1))
	assert.Equal(t, []string{"Genitive-Plural"}, names(tree.Descendants(2)))
	assert.Empty(t, tree.Descendants(5))
	assert.Empty(t, tree.Descendants(99))

	assert.Equal(t, []string{"Cases", "Verbs"}, names(tree.Roots()))
	assert.Equal(t, []string{"Genitive", "Dative"}, names(tree.Children(1)))

	got, ok := tree.Get(6)
	assert.True(t, ok)
	assert.Equal(t, "Present", got.Name)
}

func TestThemeTreeCycleSafe(t *testing.T) {
	t.Parallel()

	// 1 -> 2 -> 3 -> 2 forms a loop that must not hang the walk.
	tree := NewThemeTree([]Theme{
		theme(1, "a", 0),
		theme(2, "b", 3),
		theme(3, "c", 2),
	})

	assert.Empty(t, tree.Descendants(1), "a cycle detached from the root is unreachable")
	assert.Equal(t, []int64{3}, tree.DescendantIDs(2))
	assert.Equal(t, []int64{2}, tree.DescendantIDs(3))
}

func TestThemeTreeOrphanIsRoot(t *testing.T) {
	t.Parallel()

	tree := NewThemeTree([]Theme{theme(2, "orphan", 7)})
	assert.Equal(t, []string{"orphan"}, names(tree.Roots()))
}
