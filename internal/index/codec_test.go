package index

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zloyaloha/web-searcher/internal/tokenizer"
	pkgerrors "github.com/zloyaloha/web-searcher/pkg/errors"
)

// buildCorpus ingests a fixed corpus in which every interesting pruning case
// appears: repeated terms, hapaxes, and a near-stopword.
func buildCorpus(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder()
	ix := NewTFIDFIndexator(b, tokenizer.NewIdentity())
	ix.AddDocument("http://a", "apple banana apple shared")
	ix.AddDocument("http://b", "banana cherry shared")
	ix.AddDocument("http://c", "apple cherry date shared hapax")
	ix.AddDocument("http://d", "banana shared")
	return b
}

func dumpTo(t *testing.T, b *Builder, compress bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.idx")
	if err := b.Dump(path, compress); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	return path
}

func TestDumpRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "packed"
		}
		t.Run(name, func(t *testing.T) {
			b := buildCorpus(t)
			m, err := Open(dumpTo(t, b, compress))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer m.Close()

			wantVersion := VersionPlain
			if compress {
				wantVersion = VersionPacked
			}
			if m.Version() != wantVersion {
				t.Errorf("Version = %d, want %d", m.Version(), wantVersion)
			}
			if m.NumDocs() != b.NumDocs() {
				t.Errorf("NumDocs = %d, want %d", m.NumDocs(), b.NumDocs())
			}
			for i := uint32(0); i < b.NumDocs(); i++ {
				if m.URL(i) != b.URL(i) {
					t.Errorf("URL(%d) = %q, want %q", i, m.URL(i), b.URL(i))
				}
			}

			// Every surviving term reads back byte-for-byte equal.
			for term, list := range b.postings {
				if !keepTerm(list, int(b.NumDocs())) {
					continue
				}
				if diff := cmp.Diff(list, m.Postings(term)); diff != "" {
					t.Errorf("postings for %q mismatch (-builder +mapped):\n%s", term, diff)
				}
			}
		})
	}
}

func TestDumpCodecEquivalence(t *testing.T) {
	b := buildCorpus(t)
	plain, err := Open(dumpTo(t, b, false))
	if err != nil {
		t.Fatalf("Open plain: %v", err)
	}
	defer plain.Close()
	packed, err := Open(dumpTo(t, b, true))
	if err != nil {
		t.Fatalf("Open packed: %v", err)
	}
	defer packed.Close()

	if plain.NumTerms() != packed.NumTerms() {
		t.Fatalf("term counts differ: %d vs %d", plain.NumTerms(), packed.NumTerms())
	}
	for term := range b.postings {
		if diff := cmp.Diff(plain.Postings(term), packed.Postings(term)); diff != "" {
			t.Errorf("postings for %q differ across codecs (-plain +packed):\n%s", term, diff)
		}
	}
}

func TestDumpPrunesHapaxes(t *testing.T) {
	b := NewBuilder()
	ix := NewTFIDFIndexator(b, tokenizer.NewIdentity())
	ix.AddDocument("http://1", "unique")
	ix.AddDocument("http://2", "other")

	m, err := Open(dumpTo(t, b, true))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()
	if got := m.Postings("unique"); len(got) != 0 {
		t.Errorf("hapax survived the dump: %v", got)
	}
	if m.NumTerms() != 0 {
		t.Errorf("NumTerms = %d, want 0", m.NumTerms())
	}
}

func TestDumpKeepsRepeatedTermInSingleDoc(t *testing.T) {
	b := NewBuilder()
	ix := NewTFIDFIndexator(b, tokenizer.NewIdentity())
	ix.AddDocument("http://1", "repeat repeat")
	ix.AddDocument("http://2", "other")

	m, err := Open(dumpTo(t, b, false))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()
	want := PostingList{{DocID: 0, TF: 2}}
	if diff := cmp.Diff(want, m.Postings("repeat")); diff != "" {
		t.Errorf("postings mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpPrunesNearStopwords(t *testing.T) {
	b := NewBuilder()
	ix := NewTFIDFIndexator(b, tokenizer.NewIdentity())
	// "the" saturates the corpus; "rare" sits in two of twenty documents.
	for i := 0; i < 20; i++ {
		text := "the filler"
		if i < 2 {
			text = "the rare filler"
		}
		ix.AddDocument("http://doc", text)
	}

	m, err := Open(dumpTo(t, b, true))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()
	if got := m.Postings("the"); len(got) != 0 {
		t.Errorf("near-stopword survived the dump: %d postings", len(got))
	}
	if got := m.Postings("rare"); len(got) != 2 {
		t.Errorf("Postings(rare) = %v, want 2 entries", got)
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.idx")
	data := make([]byte, 64)
	binary.LittleEndian.PutUint32(data[0:4], 0xDEADBEEF)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if !errors.Is(err, pkgerrors.ErrInvalidFormat) {
		t.Errorf("Open = %v, want ErrInvalidFormat", err)
	}
}

func TestOpenRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.idx")
	data := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(data[0:4], Magic)
	binary.LittleEndian.PutUint32(data[4:8], 9)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if !errors.Is(err, pkgerrors.ErrUnknownVersion) {
		t.Errorf("Open = %v, want ErrUnknownVersion", err)
	}
}

func TestOpenRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.idx")
	if err := os.WriteFile(path, []byte{0x34, 0x12}, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if !errors.Is(err, pkgerrors.ErrInvalidFormat) {
		t.Errorf("Open = %v, want ErrInvalidFormat", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.idx"))
	if err == nil {
		t.Fatal("Open succeeded on a missing file")
	}
}

func TestDumpIntoMissingDirectoryFails(t *testing.T) {
	b := buildCorpus(t)
	err := b.Dump(filepath.Join(t.TempDir(), "no", "such", "dir", "index.idx"), true)
	if err == nil {
		t.Fatal("Dump succeeded into a missing directory")
	}
}

func TestOpenSameFileTwice(t *testing.T) {
	b := buildCorpus(t)
	path := dumpTo(t, b, true)

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}

	want := first.Postings("apple")
	if err := first.Close(); err != nil {
		t.Fatalf("closing first mapping: %v", err)
	}
	// The second mapping is independent of the first one's lifetime.
	if diff := cmp.Diff(want, second.Postings("apple")); diff != "" {
		t.Errorf("postings mismatch after sibling close (-want +got):\n%s", diff)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("closing second mapping: %v", err)
	}
}

func TestMappedURLOutOfRange(t *testing.T) {
	b := buildCorpus(t)
	m, err := Open(dumpTo(t, b, true))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()
	if got := m.URL(1000); got != "" {
		t.Errorf("URL(1000) = %q, want empty", got)
	}
}

func TestVarintLengths(t *testing.T) {
	tests := []struct {
		v    uint32
		want int
	}{
		{0, 1}, {1, 1}, {127, 1}, {128, 2}, {16383, 2}, {16384, 3}, {1<<32 - 1, 5},
	}
	for _, tt := range tests {
		if got := uvarintLen(tt.v); got != tt.want {
			t.Errorf("uvarintLen(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}
