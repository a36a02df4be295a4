// Package searcher implements the query engine: raw query splitting, implicit
// conjunction, shunting-yard planning, set-algebra evaluation over sorted
// posting lists, and boolean or TF-IDF result shaping.
package searcher

import (
	"github.com/zloyaloha/web-searcher/internal/index"
)

// Intersect merges two posting lists sorted by doc id, keeping documents
// present in both. The surviving entry carries the left-hand tf.
func Intersect(a, b index.PostingList) index.PostingList {
	res := make(index.PostingList, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocID < b[j].DocID:
			i++
		case b[j].DocID < a[i].DocID:
			j++
		default:
			res = append(res, a[i])
			i++
			j++
		}
	}
	return res
}

// Union merges two posting lists sorted by doc id, de-duplicating on
// collision in favor of the left-hand entry.
func Union(a, b index.PostingList) index.PostingList {
	res := make(index.PostingList, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i == len(a):
			res = append(res, b[j])
			j++
		case j == len(b):
			res = append(res, a[i])
			i++
		case a[i].DocID < b[j].DocID:
			res = append(res, a[i])
			i++
		case b[j].DocID < a[i].DocID:
			res = append(res, b[j])
			j++
		default:
			res = append(res, a[i])
			i++
			j++
		}
	}
	return res
}

// Complement returns every doc id in [0, numDocs) absent from a. The tf of
// the produced postings is zero; negation carries no term evidence.
func Complement(a index.PostingList, numDocs uint32) index.PostingList {
	res := make(index.PostingList, 0, int(numDocs)-len(a))
	i := 0
	for docID := uint32(0); docID < numDocs; docID++ {
		if i < len(a) && a[i].DocID == docID {
			i++
			continue
		}
		res = append(res, index.Posting{DocID: docID})
	}
	return res
}
