package index

import (
	"github.com/zloyaloha/web-searcher/internal/tokenizer"
)

// Indexator feeds documents into a Builder: one AddURL per document, then the
// document's postings. The url is recorded before any posting so that the
// postings' doc id always equals the url's slot.
type Indexator interface {
	AddDocument(url string, text string)
}

// BooleanIndexator records presence only: every term of a document gets a
// single posting with tf = 1.
type BooleanIndexator struct {
	builder *Builder
	tok     *tokenizer.Tokenizer
}

func NewBooleanIndexator(b *Builder, tok *tokenizer.Tokenizer) *BooleanIndexator {
	return &BooleanIndexator{builder: b, tok: tok}
}

func (ix *BooleanIndexator) AddDocument(url string, text string) {
	docID := ix.builder.AddURL(url)
	for _, term := range ix.tok.Tokenize(text) {
		// Duplicates within the document collapse on the last-doc-id check.
		ix.builder.AddPosting(term, docID, 1)
	}
}

// TFIDFIndexator counts term occurrences per document and records one posting
// per distinct term carrying its frequency.
type TFIDFIndexator struct {
	builder *Builder
	tok     *tokenizer.Tokenizer
}

func NewTFIDFIndexator(b *Builder, tok *tokenizer.Tokenizer) *TFIDFIndexator {
	return &TFIDFIndexator{builder: b, tok: tok}
}

func (ix *TFIDFIndexator) AddDocument(url string, text string) {
	docID := ix.builder.AddURL(url)
	counts := make(map[string]uint32)
	for _, term := range ix.tok.Tokenize(text) {
		counts[term]++
	}
	for term, tf := range counts {
		ix.builder.AddPosting(term, docID, tf)
	}
}
