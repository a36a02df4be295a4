package tokenizer

// Porter implements Porter's 1980 suffix-stripping algorithm for English over
// ASCII lowercase. Words of length 2 or less are returned unchanged.
type Porter struct{}

func (Porter) Stem(word string) string {
	if len(word) <= 2 {
		return word
	}
	b := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		b[i] = lower(word[i])
	}
	p := &porterBuf{b: b, k: len(b) - 1}
	p.step1ab()
	p.step1c()
	p.step2()
	p.step3()
	p.step4()
	p.step5()
	return string(p.b[:p.k+1])
}

// porterBuf holds the word being stemmed. k is the index of the last letter;
// j marks the end of the stem after a suffix match.
type porterBuf struct {
	b []byte
	k int
	j int
}

// cons reports whether b[i] is a consonant. y counts as a consonant when it
// starts the word or follows a vowel.
func (p *porterBuf) cons(i int) bool {
	switch p.b[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !p.cons(i - 1)
	default:
		return true
	}
}

// m measures the number of consonant-vowel sequences in [0, j]: the m of the
// form [C](VC)^m[V].
func (p *porterBuf) m() int {
	n, i := 0, 0
	for {
		if i > p.j {
			return n
		}
		if !p.cons(i) {
			break
		}
		i++
	}
	i++
	for {
		for {
			if i > p.j {
				return n
			}
			if p.cons(i) {
				break
			}
			i++
		}
		i++
		n++
		for {
			if i > p.j {
				return n
			}
			if !p.cons(i) {
				break
			}
			i++
		}
		i++
	}
}

func (p *porterBuf) vowelInStem() bool {
	for i := 0; i <= p.j; i++ {
		if !p.cons(i) {
			return true
		}
	}
	return false
}

// doublec reports whether b[i-1:i+1] is a double consonant.
func (p *porterBuf) doublec(i int) bool {
	if i < 1 || p.b[i] != p.b[i-1] {
		return false
	}
	return p.cons(i)
}

// cvc reports whether b[i-2:i+1] is consonant-vowel-consonant with the final
// consonant not w, x or y. Used to restore a trailing e on short stems
// (hop-ing -> hope, fil-ing -> file, but snow-ing -> snow).
func (p *porterBuf) cvc(i int) bool {
	if i < 2 || !p.cons(i) || p.cons(i-1) || !p.cons(i-2) {
		return false
	}
	switch p.b[i] {
	case 'w', 'x', 'y':
		return false
	}
	return true
}

// ends reports whether the word ends with s, setting j to the stem end on a
// match.
func (p *porterBuf) ends(s string) bool {
	l := len(s)
	if l > p.k+1 {
		return false
	}
	if string(p.b[p.k+1-l:p.k+1]) != s {
		return false
	}
	p.j = p.k - l
	return true
}

// setto replaces the suffix after j with s.
func (p *porterBuf) setto(s string) {
	p.b = append(p.b[:p.j+1], s...)
	p.k = p.j + len(s)
}

// r is setto guarded by m() > 0.
func (p *porterBuf) r(s string) {
	if p.m() > 0 {
		p.setto(s)
	}
}

// step1ab removes plurals and -ed / -ing.
func (p *porterBuf) step1ab() {
	if p.b[p.k] == 's' {
		switch {
		case p.ends("sses"):
			p.k -= 2
		case p.ends("ies"):
			p.setto("i")
		case p.b[p.k-1] != 's':
			p.k--
		}
	}
	if p.ends("eed") {
		if p.m() > 0 {
			p.k--
		}
	} else if (p.ends("ed") || p.ends("ing")) && p.vowelInStem() {
		p.k = p.j
		switch {
		case p.ends("at"):
			p.setto("ate")
		case p.ends("bl"):
			p.setto("ble")
		case p.ends("iz"):
			p.setto("ize")
		case p.doublec(p.k):
			p.k--
			switch p.b[p.k] {
			case 'l', 's', 'z':
				p.k++
			}
		default:
			if p.m() == 1 && p.cvc(p.k) {
				p.setto("e")
			}
		}
	}
}

// step1c turns terminal y to i when there is another vowel in the stem.
func (p *porterBuf) step1c() {
	if p.ends("y") && p.vowelInStem() {
		p.b[p.k] = 'i'
	}
}

// step2 maps double suffixes to single ones when m() > 0, keyed on the
// penultimate letter.
func (p *porterBuf) step2() {
	if p.k == 0 {
		return
	}
	switch p.b[p.k-1] {
	case 'a':
		if p.ends("ational") {
			p.r("ate")
			return
		}
		if p.ends("tional") {
			p.r("tion")
			return
		}
	case 'c':
		if p.ends("enci") {
			p.r("ence")
			return
		}
		if p.ends("anci") {
			p.r("ance")
			return
		}
	case 'e':
		if p.ends("izer") {
			p.r("ize")
			return
		}
	case 'l':
		if p.ends("abli") {
			p.r("able")
			return
		}
		if p.ends("alli") {
			p.r("al")
			return
		}
		if p.ends("entli") {
			p.r("ent")
			return
		}
		if p.ends("eli") {
			p.r("e")
			return
		}
		if p.ends("ousli") {
			p.r("ous")
			return
		}
	case 'o':
		if p.ends("ization") {
			p.r("ize")
			return
		}
		if p.ends("ation") {
			p.r("ate")
			return
		}
		if p.ends("ator") {
			p.r("ate")
			return
		}
	case 's':
		if p.ends("alism") {
			p.r("al")
			return
		}
		if p.ends("iveness") {
			p.r("ive")
			return
		}
		if p.ends("fulness") {
			p.r("ful")
			return
		}
		if p.ends("ousness") {
			p.r("ous")
			return
		}
	case 't':
		if p.ends("aliti") {
			p.r("al")
			return
		}
		if p.ends("iviti") {
			p.r("ive")
			return
		}
		if p.ends("biliti") {
			p.r("ble")
			return
		}
	case 'g':
		if p.ends("logi") {
			p.r("log")
			return
		}
	}
}

// step3 handles -ic-, -full, -ness and the like.
func (p *porterBuf) step3() {
	switch p.b[p.k] {
	case 'e':
		if p.ends("icate") {
			p.r("ic")
			return
		}
		if p.ends("ative") {
			p.r("")
			return
		}
		if p.ends("alize") {
			p.r("al")
			return
		}
	case 'i':
		if p.ends("iciti") {
			p.r("ic")
			return
		}
	case 'l':
		if p.ends("ical") {
			p.r("ic")
			return
		}
		if p.ends("ful") {
			p.r("")
			return
		}
	case 's':
		if p.ends("ness") {
			p.r("")
			return
		}
	}
}

// step4 strips residual suffixes when m() > 1.
func (p *porterBuf) step4() {
	if p.k == 0 {
		return
	}
	switch p.b[p.k-1] {
	case 'a':
		if !p.ends("al") {
			return
		}
	case 'c':
		if !p.ends("ance") && !p.ends("ence") {
			return
		}
	case 'e':
		if !p.ends("er") {
			return
		}
	case 'i':
		if !p.ends("ic") {
			return
		}
	case 'l':
		if !p.ends("able") && !p.ends("ible") {
			return
		}
	case 'n':
		if !p.ends("ant") && !p.ends("ement") && !p.ends("ment") && !p.ends("ent") {
			return
		}
	case 'o':
		if p.ends("ion") && p.j >= 0 && (p.b[p.j] == 's' || p.b[p.j] == 't') {
			break
		}
		if !p.ends("ou") {
			return
		}
	case 's':
		if !p.ends("ism") {
			return
		}
	case 't':
		if !p.ends("ate") && !p.ends("iti") {
			return
		}
	case 'u':
		if !p.ends("ous") {
			return
		}
	case 'v':
		if !p.ends("ive") {
			return
		}
	case 'z':
		if !p.ends("ize") {
			return
		}
	default:
		return
	}
	if p.m() > 1 {
		p.k = p.j
	}
}

// step5 removes a final -e and reduces -ll when the measure allows.
func (p *porterBuf) step5() {
	p.j = p.k
	if p.b[p.k] == 'e' {
		a := p.m()
		if a > 1 || (a == 1 && !p.cvc(p.k-1)) {
			p.k--
		}
	}
	if p.b[p.k] == 'l' && p.doublec(p.k) && p.m() > 1 {
		p.k--
	}
}
