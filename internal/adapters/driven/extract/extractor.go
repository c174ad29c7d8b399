package extract

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Extractor = (*Extractor)(nil)

// Extractor converts uploaded document bytes into plain text.
// Text-based formats pass through mostly unchanged; HTML is stripped to its
// visible text. Binary formats are rejected with ErrExtraction.
type Extractor struct{}

// NewExtractor creates a new extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// textTypes are content types treated as plain text.
var textTypes = map[string]bool{
	"text/plain":       true,
	"text/markdown":    true,
	"text/csv":         true,
	"application/json": true,
}

// htmlTypes are content types parsed as HTML.
var htmlTypes = map[string]bool{
	"text/html":             true,
	"application/xhtml+xml": true,
}

// Supports reports whether the content type can be extracted.
func (e *Extractor) Supports(contentType string) bool {
	mt := normalizeType(contentType)
	return textTypes[mt] || htmlTypes[mt]
}

// Extract converts document bytes to plain text.
func (e *Extractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mt := normalizeType(contentType)
	switch {
	case htmlTypes[mt]:
		return extractHTML(data)
	case textTypes[mt]:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s payload is not valid UTF-8", domain.ErrExtraction, mt)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: unsupported content type %q", domain.ErrExtraction, contentType)
	}
}

// normalizeType strips parameters like charset from a content type.
func normalizeType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

// skipElements are HTML elements whose text content is never visible.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
}

// extractHTML walks the parsed tree collecting visible text nodes.
// Block-level boundaries become newlines so paragraph structure survives
// into chunking.
func extractHTML(data []byte) (string, error) {
	root, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", domain.ErrExtraction, err)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.Data) && sb.Len() > 0 {
			sb.WriteByte('\n')
		}
	}
	walk(root)

	return strings.TrimSpace(sb.String()), nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "br", "li", "tr",
		"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre":
		return true
	}
	return false
}
