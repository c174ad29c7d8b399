package driven

import "context"

// Extractor converts raw document bytes into plain text.
// Unknown or unsupported content types fail explicitly (wrapping
// domain.ErrExtraction) rather than silently returning empty text.
type Extractor interface {
	// Extract returns the plain text of a document
	Extract(ctx context.Context, data []byte, contentType string) (string, error)

	// Supports reports whether the extractor can handle a content type
	Supports(contentType string) bool
}
