package detect

// Lexicons are built once at package init and never written afterwards,
// so they are safe to read from any number of goroutines.

// absoluteKeywords are single-token globalizing words
var absoluteKeywords = newSet(
	"always", "never", "everything", "nothing", "everyone", "nobody",
)

// absolutePhrase is the one multi-word idiom, matched as a raw substring
const absolutePhrase = "no one"

// beVerbs are the forms of "to be"
var beVerbs = newSet("am", "is", "are", "was", "were", "be", "being", "been")

// contractedSubjectBe are subject pronouns fused with a be-verb
var contractedSubjectBe = newSet("i'm", "you're", "we're", "they're", "he's", "she's")

// subjectPronouns may precede an uncontracted be-verb in an identity label
var subjectPronouns = newSet("i", "you", "we", "they", "he", "she")

var articles = newSet("a", "an", "the")

var intensifiers = newSet("really", "so")

// negativeIdentityLabels are nouns/adjectives applied to a person
var negativeIdentityLabels = newSet(
	"failure", "loser", "idiot", "stupid", "worthless", "useless",
	"lazy", "incompetent", "bad", "terrible", "awful", "broken",
)

type set map[string]struct{}

func newSet(words ...string) set {
	s := make(set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s set) has(word string) bool {
	_, ok := s[word]
	return ok
}

// isBeToken reports whether a token is a be-verb or a contracted subject+be form
func isBeToken(token string) bool {
	return beVerbs.has(token) || contractedSubjectBe.has(token)
}
