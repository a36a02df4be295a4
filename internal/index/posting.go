// Package index holds the inverted-index data model: the in-memory builder
// used during ingestion and the memory-mapped reader over its binary dump.
package index

// Posting links a term to one document: the document id and the number of
// occurrences of the term within it.
type Posting struct {
	DocID uint32
	TF    uint32
}

// PostingList is a term's postings, strictly ascending by DocID with each
// DocID appearing at most once.
type PostingList []Posting

// Source is a read handle over an index, either the in-memory Builder or a
// Mapped dump file. Returned posting lists and urls are owned copies.
type Source interface {
	// Postings returns the posting list for term, or an empty list if the
	// term is unknown.
	Postings(term string) PostingList

	// URL returns the url stored at docID, or "" when docID is out of range.
	URL(docID uint32) string

	// NumDocs returns the number of documents in the index.
	NumDocs() uint32
}
