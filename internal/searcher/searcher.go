package searcher

import (
	"math"
	"sort"

	"github.com/zloyaloha/web-searcher/internal/index"
	"github.com/zloyaloha/web-searcher/internal/tokenizer"
)

// Result is one search hit. Score is always 0 in boolean mode.
type Result struct {
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// Searcher answers queries against an index source.
type Searcher interface {
	Find(query string) []Result
}

// engine holds the query-processing machinery shared by both searchers. It is
// stateless between queries.
type engine struct {
	source index.Source
	tok    *tokenizer.Tokenizer
}

// run parses, plans, and evaluates the query, returning the surviving posting
// list (ascending by doc id) and the query's terms with operators stripped.
func (e *engine) run(query string) (index.PostingList, []string) {
	tokens := e.parseQuery(query)

	var terms []string
	for _, tok := range tokens {
		if !isOperator(tok) {
			terms = append(terms, tok)
		}
	}

	rpn := shuntingYard(tokens)
	return e.evaluate(rpn), terms
}

// evaluate runs the postfix stream over a stack of posting lists. Operators
// with missing operands are skipped: a stray "&" in an interactive query
// degrades to an empty or partial result instead of an error.
func (e *engine) evaluate(rpn []string) index.PostingList {
	var stack []index.PostingList
	for _, tok := range rpn {
		switch tok {
		case "(", ")":
			// Unbalanced parentheses drained off the operator stack.
			continue
		case "!":
			if len(stack) < 1 {
				continue
			}
			a := stack[len(stack)-1]
			stack[len(stack)-1] = Complement(a, e.source.NumDocs())
		case "&", "|":
			if len(stack) < 2 {
				continue
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-1]
			if tok == "&" {
				stack[len(stack)-1] = Intersect(a, b)
			} else {
				stack[len(stack)-1] = Union(a, b)
			}
		default:
			stack = append(stack, e.source.Postings(tok))
		}
	}
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// Binary answers boolean queries: matching documents in ascending doc-id
// order, every score 0.
type Binary struct {
	engine
}

// NewBinary creates a boolean searcher over src using tok for query terms.
func NewBinary(src index.Source, tok *tokenizer.Tokenizer) *Binary {
	return &Binary{engine{source: src, tok: tok}}
}

func (s *Binary) Find(query string) []Result {
	docs, _ := s.run(query)
	results := make([]Result, 0, len(docs))
	for _, p := range docs {
		url := s.source.URL(p.DocID)
		if url == "" {
			continue
		}
		results = append(results, Result{URL: url})
	}
	return results
}

// TFIDF answers ranked queries. The set algebra decides which documents
// appear; the score accumulates sublinear tf-idf evidence from the raw
// postings of every query term, including terms a "!" clause eliminated.
type TFIDF struct {
	engine
}

// NewTFIDF creates a ranked searcher over src using tok for query terms.
func NewTFIDF(src index.Source, tok *tokenizer.Tokenizer) *TFIDF {
	return &TFIDF{engine{source: src, tok: tok}}
}

func (s *TFIDF) Find(query string) []Result {
	docs, terms := s.run(query)
	if len(docs) == 0 {
		return nil
	}

	n := s.source.NumDocs()
	relevant := make(map[uint32]float64, len(docs))
	for _, p := range docs {
		relevant[p.DocID] = 0
	}

	for _, term := range terms {
		postings := s.source.Postings(term)
		if len(postings) == 0 {
			continue
		}
		idf := math.Log(float64(n) / float64(1+len(postings)))
		for _, p := range postings {
			if score, ok := relevant[p.DocID]; ok {
				relevant[p.DocID] = score + (1+math.Log(float64(p.TF)))*idf
			}
		}
	}

	// Build results in evaluator order (ascending doc id) so that the stable
	// sort keeps ties deterministic.
	results := make([]Result, 0, len(docs))
	for _, p := range docs {
		results = append(results, Result{
			URL:   s.source.URL(p.DocID),
			Score: relevant[p.DocID],
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
