// Package detect implements the rule-based cognitive distortion detector.
//
// The detector is a pure function over its input: it reads only the
// package-level lexicons and keeps no state between calls, so it can be
// called concurrently without synchronization.
package detect

// Rule names a heuristic that can flag a sentence
type Rule string

const (
	RuleBeVerb        Rule = "be_verb"
	RuleAbsolute      Rule = "absolute"
	RuleBinaryFraming Rule = "binary_framing"
	RuleIdentityLabel Rule = "identity_label"
)

// Result is the outcome of Detect
type Result struct {
	HasCognitiveDistortion bool `json:"has_cognitive_distortion"`
}

// Signal records one rule that fired and the text that triggered it
type Signal struct {
	Rule Rule   `json:"rule"`
	Term string `json:"term"`
}

// Analysis is Detect's result plus every rule that fired, for diagnostics
type Analysis struct {
	Result
	Signals []Signal `json:"signals"`
}

// Detect classifies text. Any rule firing makes the text distorted; empty
// or letterless text is never distorted.
func Detect(text string) Result {
	tokens := Tokenize(text)

	distorted := HasBeVerb(tokens) ||
		HasAbsolute(text, tokens) ||
		HasBinaryFraming(text, tokens) ||
		HasIdentityLabel(text)

	return Result{HasCognitiveDistortion: distorted}
}

// Analyze runs every rule without short-circuiting. Its verdict always
// equals Detect(text).
func Analyze(text string) Analysis {
	tokens := Tokenize(text)
	signals := make([]Signal, 0, 4)

	if term, ok := matchBeVerb(tokens); ok {
		signals = append(signals, Signal{Rule: RuleBeVerb, Term: term})
	}
	if term, ok := matchAbsolute(text, tokens); ok {
		signals = append(signals, Signal{Rule: RuleAbsolute, Term: term})
	}
	if term, ok := matchBinary(text, tokens); ok {
		signals = append(signals, Signal{Rule: RuleBinaryFraming, Term: term})
	}
	if term, ok := matchIdentityLabel(text); ok {
		signals = append(signals, Signal{Rule: RuleIdentityLabel, Term: term})
	}

	return Analysis{
		Result:  Result{HasCognitiveDistortion: len(signals) > 0},
		Signals: signals,
	}
}
