// Package extract turns documents into sentences for classification.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// SentenceExtractor splits plain text or HTML into sentences
type SentenceExtractor struct {
	maxLen int // longer sentences are dropped, 0 = no limit
}

// NewSentenceExtractor creates a new sentence extractor. Sentences longer
// than maxLen bytes are dropped; pass 0 to keep everything.
func NewSentenceExtractor(maxLen int) *SentenceExtractor {
	if maxLen < 0 {
		maxLen = 0
	}
	return &SentenceExtractor{maxLen: maxLen}
}

// FromText splits plain text into sentences. Blank lines end a sentence
// even without a terminator.
func (e *SentenceExtractor) FromText(text string) []string {
	var sentences []string
	for _, para := range splitParagraphs(text) {
		for _, s := range splitSentences(para) {
			if e.maxLen > 0 && len(s) > e.maxLen {
				continue
			}
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// FromHTML extracts visible text from HTML and splits it into sentences
func (e *SentenceExtractor) FromHTML(htmlContent string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	return e.FromText(extractVisibleText(doc)), nil
}

// Extract dispatches on content type. Anything that is not HTML is
// treated as plain text.
func (e *SentenceExtractor) Extract(content, contentType string) ([]string, error) {
	if IsHTML(contentType, content) {
		return e.FromHTML(content)
	}
	return e.FromText(content), nil
}

// IsHTML reports whether content looks like an HTML document
func IsHTML(contentType, content string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "html") {
		return true
	}
	if ct != "" && !strings.HasPrefix(ct, "text/plain") && !strings.HasPrefix(ct, "application/octet-stream") {
		return false
	}

	head := strings.ToLower(strings.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body")
}

// blockElements end the current paragraph
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "td": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "section": true, "article": true, "header": true, "footer": true,
	"title": true, "pre": true,
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf bytes.Buffer

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Skip script, style, noscript tags
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				// Inline markup splits "<b>word</b>." into two nodes
				if strings.ContainsRune(".,;:!?)", rune(text[0])) && bytes.HasSuffix(buf.Bytes(), []byte(" ")) {
					buf.Truncate(buf.Len() - 1)
				}
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n\n")
		}
	}

	walk(n)
	return buf.String()
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paras []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paras
}

// splitSentences splits text on . ! ? followed by whitespace
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	emit := func() {
		sentence := strings.Join(strings.Fields(current.String()), " ")
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead so "3.14" and "e.g.x" stay intact
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				emit()
			}
		}
	}

	emit()

	return sentences
}
