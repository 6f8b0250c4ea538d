// Package thread turns the flat comment list of a post into nested replies.
package thread

import "github.com/saxenaaman628/hobbyhub/internal/models"

// Build converts comments of a single post into a forest of root comments,
// each carrying its direct children in Replies. Siblings keep their relative
// input order; callers sort the input (e.g. by created_at) beforehand.
//
// Build never fails. A comment whose parent is missing from the input, or is
// the comment itself, is promoted to the root level. Parent cycles are broken
// at the comment where the cycle is first detected, which also becomes a root.
// The input slice is not modified.
func Build(comments []models.Comment) []*models.Comment {
	roots := make([]*models.Comment, 0)
	if len(comments) == 0 {
		return roots
	}

	nodes := make([]*models.Comment, len(comments))
	index := make(map[string]int, len(comments))
	for i := range comments {
		node := comments[i]
		node.Replies = make([]*models.Comment, 0)
		nodes[i] = &node
		if _, dup := index[node.ID]; !dup {
			index[node.ID] = i
		}
	}

	parent := make([]int, len(nodes))
	for i, node := range nodes {
		parent[i] = -1
		if node.ParentID == nil || *node.ParentID == node.ID {
			continue
		}
		if p, ok := index[*node.ParentID]; ok && p != i {
			parent[i] = p
		}
	}
	breakCycles(parent)

	for i, node := range nodes {
		if p := parent[i]; p >= 0 {
			nodes[p].Replies = append(nodes[p].Replies, node)
			continue
		}
		roots = append(roots, node)
	}
	return roots
}

const (
	unvisited = iota
	onPath
	settled
)

// breakCycles walks every parent chain once and cuts the edge that closes a
// cycle, so each chain ends at a root.
func breakCycles(parent []int) {
	state := make([]uint8, len(parent))
	path := make([]int, 0, 8)
	for start := range parent {
		path = path[:0]
		for n := start; n >= 0 && state[n] != settled; n = parent[n] {
			if state[n] == onPath {
				parent[n] = -1
				break
			}
			state[n] = onPath
			path = append(path, n)
		}
		for _, n := range path {
			state[n] = settled
		}
	}
}
