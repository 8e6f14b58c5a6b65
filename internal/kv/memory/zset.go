package memory

import "github.com/google/btree"

type zentry struct {
	score  float64
	member string
}

func zless(a, b zentry) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.member < b.member
}

// zset keeps members ordered by (score, member) in a btree and indexes the
// current score of each member for updates.
type zset struct {
	tree   *btree.BTreeG[zentry]
	scores map[string]float64
}

func newZset() *zset {
	return &zset{
		tree:   btree.NewG[zentry](8, zless),
		scores: make(map[string]float64),
	}
}

func (z *zset) add(score float64, member string) {
	if old, ok := z.scores[member]; ok {
		z.tree.Delete(zentry{score: old, member: member})
	}
	z.scores[member] = score
	z.tree.ReplaceOrInsert(zentry{score: score, member: member})
}
