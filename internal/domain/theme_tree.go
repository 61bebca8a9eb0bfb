package domain

import "sort"

// ThemeTree indexes themes by id and by parent so the hierarchy can be
// walked without repeated storage round trips.
type ThemeTree struct {
	byID     map[int64]Theme
	children map[int64][]int64
	roots    []int64
}

// NewThemeTree builds a tree from a flat theme list. Children keep theme
// table order (ascending id) regardless of the input order. Themes whose
// parent is missing from the list are treated as roots.
func NewThemeTree(themes []Theme) *ThemeTree {
	sorted := make([]Theme, len(themes))
	copy(sorted, themes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	tree := &ThemeTree{
		byID:     make(map[int64]Theme, len(sorted)),
		children: make(map[int64][]int64),
	}
	for _, t := range sorted {
		tree.byID[t.ID] = t
	}
	for _, t := range sorted {
		if t.ParentID == nil {
			tree.roots = append(tree.roots, t.ID)
			continue
		}
		if _, ok := tree.byID[*t.ParentID]; !ok {
			tree.roots = append(tree.roots, t.ID)
			continue
		}
		tree.children[*t.ParentID] = append(tree.children[*t.ParentID], t.ID)
	}
	return tree
}

// Get returns the theme with the given id.
func (tr *ThemeTree) Get(id int64) (Theme, bool) {
	t, ok := tr.byID[id]
	return t, ok
}

// Roots returns the root themes in id order.
func (tr *ThemeTree) Roots() []Theme {
	out := make([]Theme, 0, len(tr.roots))
	for _, id := range tr.roots {
		out = append(out, tr.byID[id])
	}
	return out
}

// Children returns the immediate children of id in id order.
func (tr *ThemeTree) Children(id int64) []Theme {
	ids := tr.children[id]
	out := make([]Theme, 0, len(ids))
	for _, cid := range ids {
		out = append(out, tr.byID[cid])
	}
	return out
}

// Descendants returns the transitive closure of id's subthemes, depth-first
// and pre-order: each child is followed by its own subtree before the next
// sibling. The walk uses an explicit stack and never visits a theme twice,
// so a corrupted parent chain cannot loop. The theme itself is not included.
func (tr *ThemeTree) Descendants(id int64) []Theme {
	var out []Theme
	visited := map[int64]bool{id: true}

	stack := reversed(tr.children[id])
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, tr.byID[cur])
		stack = append(stack, reversed(tr.children[cur])...)
	}
	return out
}

// DescendantIDs is Descendants reduced to ids.
func (tr *ThemeTree) DescendantIDs(id int64) []int64 {
	desc := tr.Descendants(id)
	ids := make([]int64, len(desc))
	for i, t := range desc {
		ids[i] = t.ID
	}
	return ids
}

func reversed(ids []int64) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}
