package dedup

import "github.com/dedupkit/dedup-engine/pkg/models"

type groupState struct {
	survivorPos int
	survivorKey models.RowKey
	members     int
}

// Deduplicate groups rows by identifier key and keeps one survivor per
// group: the row with the latest date key, ties going to the earliest
// original position. Rows with an empty identifier are never grouped and are
// always kept. The returned table preserves the original relative order of
// the surviving rows; the second return value lists the removed positions in
// ascending order. Running the result through Deduplicate again is a no-op.
func Deduplicate(t *models.Table, keys []models.RowKey) (*models.Table, []int) {
	groups := make(map[string]groupState)
	for pos, key := range keys {
		if key.Identifier == "" {
			continue
		}
		g, seen := groups[key.Identifier]
		if !seen {
			groups[key.Identifier] = groupState{survivorPos: pos, survivorKey: key, members: 1}
			continue
		}
		g.members++
		if key.MoreRecentThan(g.survivorKey) {
			g.survivorPos = pos
			g.survivorKey = key
		}
		groups[key.Identifier] = g
	}

	kept := make([]int, 0, len(keys))
	var removed []int
	for pos, key := range keys {
		if key.Identifier == "" || groups[key.Identifier].survivorPos == pos {
			kept = append(kept, pos)
		} else {
			removed = append(removed, pos)
		}
	}

	return t.Select(kept), removed
}

// CountDuplicateGroups returns the number of identifier keys shared by more
// than one row.
func CountDuplicateGroups(keys []models.RowKey) int {
	members := make(map[string]int)
	for _, key := range keys {
		if key.Identifier != "" {
			members[key.Identifier]++
		}
	}
	groups := 0
	for _, n := range members {
		if n > 1 {
			groups++
		}
	}
	return groups
}
