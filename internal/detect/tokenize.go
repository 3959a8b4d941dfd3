package detect

import "strings"

// Tokenize splits text into lowercase tokens made of ASCII letters and
// apostrophes. Everything else is a separator and is dropped, so
// contractions like "don't" and "i'm" survive as single tokens while
// "all-or-nothing" becomes three tokens.
func Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/5)

	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	// Byte-wise on purpose: only ASCII letters count, and any byte of a
	// multi-byte rune is >= 0x80 so it acts as a separator.
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z', c == '\'':
			current.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			current.WriteByte(c + ('a' - 'A'))
		default:
			flush()
		}
	}
	flush()

	return tokens
}
