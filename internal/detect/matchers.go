package detect

import (
	"strings"
	"unicode"
)

// maxEitherOrGap is the largest number of words allowed between "either"
// and "or" for the pair to count as binary framing.
const maxEitherOrGap = 5

// HasAbsolute reports absolutist wording: the phrase "no one" anywhere in
// the text, or any absolute keyword token.
func HasAbsolute(text string, tokens []string) bool {
	_, ok := matchAbsolute(text, tokens)
	return ok
}

func matchAbsolute(text string, tokens []string) (string, bool) {
	// "no one" would tokenize into two unrelated tokens, so it is checked
	// against the raw text instead.
	if strings.Contains(strings.ToLower(text), absolutePhrase) {
		return absolutePhrase, true
	}
	for _, t := range tokens {
		if absoluteKeywords.has(t) {
			return t, true
		}
	}
	return "", false
}

// HasBinaryFraming reports "either ... or" within a short forward window,
// or the consecutive tokens "all or nothing".
func HasBinaryFraming(text string, tokens []string) bool {
	_, ok := matchBinary(text, tokens)
	return ok
}

func matchBinary(text string, tokens []string) (string, bool) {
	// Tokens keep apostrophes, so a quoted 'either' only shows up as a
	// word when the text is split on every non-word rune.
	if hasEitherOr(wordRuns(text)) {
		return "either ... or", true
	}

	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i] == "all" && tokens[i+1] == "or" && tokens[i+2] == "nothing" {
			return "all or nothing", true
		}
	}

	if hasEitherOr(tokens) {
		return "either ... or", true
	}

	return "", false
}

// hasEitherOr reports "either" followed by "or" with at most maxEitherOrGap
// words in between.
func hasEitherOr(words []string) bool {
	for i, w := range words {
		if w != "either" {
			continue
		}
		end := min(len(words), i+maxEitherOrGap+2)
		for j := i + 1; j < end; j++ {
			if words[j] == "or" {
				return true
			}
		}
	}
	return false
}

// wordRuns splits lowercased text into maximal runs of word runes.
func wordRuns(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

// HasBeVerb reports any form of "to be", including contractions such as
// "i'm" or "they're".
func HasBeVerb(tokens []string) bool {
	_, ok := matchBeVerb(tokens)
	return ok
}

func matchBeVerb(tokens []string) (string, bool) {
	for _, t := range tokens {
		if isBeToken(t) {
			return t, true
		}
	}
	return "", false
}

// HasIdentityLabel reports statements such as "I am a failure",
// "I'm so stupid" or "you're useless".
func HasIdentityLabel(text string) bool {
	_, ok := matchIdentityLabel(text)
	return ok
}

// matchIdentityLabel walks whitespace-separated words of the lowercased text
// looking for: subject form, optional article, optional intensifier, label.
// All parts must be adjacent words.
func matchIdentityLabel(text string) (string, bool) {
	words := strings.Fields(strings.ToLower(text))

	for i := range words {
		subject, next, ok := subjectForm(words, i)
		if !ok {
			continue
		}
		if next < len(words) && articles.has(words[next]) {
			next++
		}
		if next < len(words) && intensifiers.has(words[next]) {
			next++
		}
		if next >= len(words) {
			continue
		}
		if label, ok := leadingLabel(words[next]); ok {
			parts := append([]string{subject}, words[i+1:next]...)
			return strings.Join(append(parts, label), " "), true
		}
	}

	return "", false
}

// subjectForm finds a subject form ending words[i]: either a contraction
// ("you're") or a pronoun followed by a be-verb ("you are"). The subject
// may be glued to leading punctuation ("...i", "—you're") but must start
// at a word boundary. It returns the subject and the index just past it.
func subjectForm(words []string, i int) (string, int, bool) {
	w := words[i]
	prevWord := false
	for p, r := range w {
		if isWordRune(r) && !prevWord {
			tail := w[p:]
			if contractedSubjectBe.has(tail) {
				return tail, i + 1, true
			}
			if subjectPronouns.has(tail) && i+1 < len(words) && beVerbs.has(words[i+1]) {
				return tail, i + 2, true
			}
		}
		prevWord = isWordRune(r)
	}
	return "", 0, false
}

// leadingLabel matches a negative label at the start of a word. The label
// must end at a word boundary, so "failure." matches and "failures" does not.
func leadingLabel(word string) (string, bool) {
	n := strings.IndexFunc(word, func(r rune) bool {
		return !isWordRune(r)
	})
	if n < 0 {
		n = len(word)
	}
	if !negativeIdentityLabels.has(word[:n]) {
		return "", false
	}
	return word[:n], true
}

// isWordRune matches letters, digits and underscore in any script.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
