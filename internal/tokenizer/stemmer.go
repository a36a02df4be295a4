package tokenizer

// Stemmer reduces an inflected word to its stem. Implementations must be pure:
// the same input always yields the same output.
type Stemmer interface {
	Stem(word string) string
}

// Identity returns every word unchanged. Used for exact-term indexes.
type Identity struct{}

func (Identity) Stem(word string) string { return word }
