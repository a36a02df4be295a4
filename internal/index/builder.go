package index

// Builder accumulates the in-memory inverted index during a batch build.
// It is single-writer: ingestion mutates it from one goroutine, and document
// ids are assigned densely in ingestion order.
type Builder struct {
	urls     []string
	postings map[string]PostingList
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		postings: make(map[string]PostingList),
	}
}

// AddURL appends a url to the url table and returns its document id. Urls may
// repeat; every call creates a new document.
func (b *Builder) AddURL(url string) uint32 {
	b.urls = append(b.urls, url)
	return uint32(len(b.urls) - 1)
}

// AddPosting appends (docID, tf) to term's posting list unless the list
// already ends with the same docID. Under the one-document-at-a-time
// ingestion discipline this keeps every list strictly ascending.
func (b *Builder) AddPosting(term string, docID uint32, tf uint32) {
	list := b.postings[term]
	if len(list) > 0 && list[len(list)-1].DocID == docID {
		return
	}
	b.postings[term] = append(list, Posting{DocID: docID, TF: tf})
}

// Postings returns the current posting list for term, empty if absent.
func (b *Builder) Postings(term string) PostingList {
	return b.postings[term]
}

// URL returns the url at docID, or "" when out of range.
func (b *Builder) URL(docID uint32) string {
	if int(docID) < len(b.urls) {
		return b.urls[docID]
	}
	return ""
}

// NumDocs returns the number of ingested documents.
func (b *Builder) NumDocs() uint32 {
	return uint32(len(b.urls))
}

// NumTerms returns the number of distinct terms currently held.
func (b *Builder) NumTerms() int {
	return len(b.postings)
}
