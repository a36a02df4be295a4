package searcher

import (
	"github.com/zloyaloha/web-searcher/internal/tokenizer"
)

func isOperator(tok string) bool {
	switch tok {
	case "!", "&", "|", "(", ")":
		return true
	}
	return false
}

func precedence(op string) int {
	switch op {
	case "!":
		return 3
	case "&":
		return 2
	case "|":
		return 1
	}
	return 0
}

// parseQuery splits the query into operators and terms, running every word
// through the same tokenizer/stemmer used at indexing time, and inserts the
// implicit "&" between juxtaposed operands.
func (e *engine) parseQuery(query string) []string {
	var out []string
	emit := func(tok string) {
		if len(out) > 0 {
			last := out[len(out)-1]
			operandEnd := !isOperator(last) || last == ")"
			operandStart := !isOperator(tok) || tok == "(" || tok == "!"
			if operandEnd && operandStart {
				out = append(out, "&")
			}
		}
		out = append(out, tok)
	}

	for _, raw := range tokenizer.RawTokens(query) {
		if isOperator(raw) {
			emit(raw)
			continue
		}
		// A raw word may normalize to zero or several terms ("3.5-inch").
		for _, term := range e.tok.Tokenize(raw) {
			emit(term)
		}
	}
	return out
}

// shuntingYard converts the processed token stream to postfix. "(" is never
// popped by precedence; ")" pops down to its matching "(".
func shuntingYard(tokens []string) []string {
	output := make([]string, 0, len(tokens))
	var ops []string

	for _, tok := range tokens {
		switch {
		case !isOperator(tok):
			output = append(output, tok)
		case tok == "(":
			ops = append(ops, tok)
		case tok == ")":
			for len(ops) > 0 && ops[len(ops)-1] != "(" {
				output = append(output, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) > 0 {
				ops = ops[:len(ops)-1]
			}
		default:
			for len(ops) > 0 && ops[len(ops)-1] != "(" &&
				precedence(ops[len(ops)-1]) >= precedence(tok) {
				output = append(output, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
		}
	}
	for len(ops) > 0 {
		output = append(output, ops[len(ops)-1])
		ops = ops[:len(ops)-1]
	}
	return output
}
