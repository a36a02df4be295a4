package searcher

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zloyaloha/web-searcher/internal/index"
)

func docs(ids ...uint32) index.PostingList {
	list := make(index.PostingList, 0, len(ids))
	for _, id := range ids {
		list = append(list, index.Posting{DocID: id, TF: 1})
	}
	return list
}

func ids(list index.PostingList) []uint32 {
	out := make([]uint32, 0, len(list))
	for _, p := range list {
		out = append(out, p.DocID)
	}
	return out
}

func TestIntersect(t *testing.T) {
	a := docs(0, 2, 4, 6)
	b := docs(1, 2, 3, 6, 9)
	want := []uint32{2, 6}
	if diff := cmp.Diff(want, ids(Intersect(a, b))); diff != "" {
		t.Errorf("Intersect mismatch (-want +got):\n%s", diff)
	}
}

func TestIntersectKeepsLeftTF(t *testing.T) {
	a := index.PostingList{{DocID: 3, TF: 7}}
	b := index.PostingList{{DocID: 3, TF: 1}}
	got := Intersect(a, b)
	if len(got) != 1 || got[0].TF != 7 {
		t.Errorf("Intersect = %v, want left-hand tf 7", got)
	}
}

func TestUnion(t *testing.T) {
	a := docs(0, 2, 4)
	b := docs(1, 2, 5)
	want := []uint32{0, 1, 2, 4, 5}
	if diff := cmp.Diff(want, ids(Union(a, b))); diff != "" {
		t.Errorf("Union mismatch (-want +got):\n%s", diff)
	}
}

func TestComplement(t *testing.T) {
	a := docs(1, 3)
	want := []uint32{0, 2, 4}
	if diff := cmp.Diff(want, ids(Complement(a, 5))); diff != "" {
		t.Errorf("Complement mismatch (-want +got):\n%s", diff)
	}
	if got := Complement(nil, 3); len(got) != 3 {
		t.Errorf("Complement of empty = %v, want all docs", got)
	}
	if got := Complement(docs(0, 1, 2), 3); len(got) != 0 {
		t.Errorf("Complement of full set = %v, want empty", got)
	}
}

// Set identities over doc-id sets: commutativity, De Morgan, involution,
// absorption. tf payloads are ignored on purpose.
func TestSetAlgebraProperties(t *testing.T) {
	const n = 12
	sets := []index.PostingList{
		docs(),
		docs(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11),
		docs(0, 2, 4, 6, 8, 10),
		docs(1, 3, 5, 7, 9, 11),
		docs(3, 4, 5),
		docs(0, 11),
	}

	for _, a := range sets {
		for _, b := range sets {
			if diff := cmp.Diff(ids(Union(a, b)), ids(Union(b, a))); diff != "" {
				t.Errorf("union not commutative:\n%s", diff)
			}
			if diff := cmp.Diff(ids(Intersect(a, b)), ids(Intersect(b, a))); diff != "" {
				t.Errorf("intersect not commutative:\n%s", diff)
			}

			notA := Complement(a, n)
			notB := Complement(b, n)
			if diff := cmp.Diff(
				ids(Complement(Intersect(a, b), n)),
				ids(Union(notA, notB)),
			); diff != "" {
				t.Errorf("de morgan (and) violated:\n%s", diff)
			}
			if diff := cmp.Diff(
				ids(Complement(Union(a, b), n)),
				ids(Intersect(notA, notB)),
			); diff != "" {
				t.Errorf("de morgan (or) violated:\n%s", diff)
			}

			if diff := cmp.Diff(ids(a), ids(Union(a, Intersect(a, b)))); diff != "" {
				t.Errorf("absorption (union) violated:\n%s", diff)
			}
			if diff := cmp.Diff(ids(a), ids(Intersect(a, Union(a, b)))); diff != "" {
				t.Errorf("absorption (intersect) violated:\n%s", diff)
			}
		}

		if diff := cmp.Diff(ids(a), ids(Complement(Complement(a, n), n))); diff != "" {
			t.Errorf("double complement violated:\n%s", diff)
		}
	}
}

func TestMergeResultsStrictlyAscending(t *testing.T) {
	a := docs(0, 3, 7)
	b := docs(1, 3, 8)
	for name, got := range map[string]index.PostingList{
		"union":     Union(a, b),
		"intersect": Intersect(a, b),
		"not":       Complement(a, 10),
	} {
		for i := 1; i < len(got); i++ {
			if got[i-1].DocID >= got[i].DocID {
				t.Errorf("%s output not strictly ascending: %v", name, ids(got))
			}
		}
	}
}
