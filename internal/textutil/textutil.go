// Package textutil prepares forum post text for prompts and embeddings:
// HTML stripping, whitespace normalization and length capping.
package textutil

import (
	"strings"

	"github.com/neurosnap/sentences"
	"golang.org/x/net/html"
)

// Tags whose text content is never user-visible prose.
var skipTags = map[string]bool{
	"script": true, "style": true, "head": true, "nav": true,
	"footer": true, "aside": true, "form": true, "noscript": true,
}

// StripHTML extracts the visible text of an HTML fragment. Block elements
// become newline separators so sentences don't run together. Input that
// fails to parse is returned unchanged.
func StripHTML(input string) string {
	if !strings.ContainsAny(input, "<>") {
		return input
	}
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return input
	}

	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(strings.ReplaceAll(n.Data, "\u00A0", " "))
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			traverse(child)
		}
		if isBlockElement(n) && sb.Len() > 0 {
			sb.WriteString("\n")
		}
	}
	traverse(doc)
	return strings.TrimSpace(sb.String())
}

func isBlockElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "address", "article", "blockquote", "div", "h1", "h2", "h3", "h4", "h5", "h6",
		"hr", "li", "main", "ol", "p", "pre", "section", "table", "ul", "br":
		return true
	default:
		return false
	}
}

// CollapseWhitespace reduces all whitespace runs to single spaces and trims
// the result.
func CollapseWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// TruncateSentences caps text at maxChars, cutting on a sentence boundary
// when one exists within the limit. Falls back to a hard rune cut for text
// with no detectable sentence structure.
func TruncateSentences(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	tokenizer := sentences.NewSentenceTokenizer(nil)
	var sb strings.Builder
	for _, s := range tokenizer.Tokenize(text) {
		sentence := strings.TrimSpace(s.Text)
		if sentence == "" {
			continue
		}
		candidate := sentence
		if sb.Len() > 0 {
			candidate = " " + sentence
		}
		if sb.Len()+len(candidate) > maxChars {
			break
		}
		sb.WriteString(candidate)
	}
	if sb.Len() == 0 {
		return Truncate(text, maxChars)
	}
	return sb.String()
}

// Truncate hard-caps text at maxChars runes without splitting a rune.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
