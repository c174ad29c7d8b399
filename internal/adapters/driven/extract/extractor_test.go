package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

func TestExtractor_Supports(t *testing.T) {
	e := NewExtractor()

	supported := []string{
		"text/plain",
		"text/plain; charset=utf-8",
		"text/markdown",
		"text/csv",
		"application/json",
		"text/html",
	}
	for _, ct := range supported {
		if !e.Supports(ct) {
			t.Errorf("expected %q to be supported", ct)
		}
	}

	unsupported := []string{"application/pdf", "image/png", "application/octet-stream", ""}
	for _, ct := range unsupported {
		if e.Supports(ct) {
			t.Errorf("expected %q to be unsupported", ct)
		}
	}
}

func TestExtractor_Extract_PlainText(t *testing.T) {
	e := NewExtractor()

	text, err := e.Extract(context.Background(), []byte("Hello, world.\nSecond line."), "text/plain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello, world.\nSecond line." {
		t.Errorf("plain text should pass through unchanged, got %q", text)
	}

	// Charset parameter is ignored.
	if _, err := e.Extract(context.Background(), []byte("ok"), "text/plain; charset=utf-8"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractor_Extract_HTML(t *testing.T) {
	e := NewExtractor()

	page := `<html><head><title>t</title><style>body{}</style></head>
		<body><h1>Heading</h1><p>First paragraph.</p>
		<script>var x = 1;</script><p>Second paragraph.</p></body></html>`

	text, err := e.Extract(context.Background(), []byte(page), "text/html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Heading") || !strings.Contains(text, "First paragraph.") {
		t.Errorf("visible text missing from %q", text)
	}
	if strings.Contains(text, "var x") {
		t.Errorf("script content leaked into %q", text)
	}
	if strings.Contains(text, "body{}") {
		t.Errorf("style content leaked into %q", text)
	}
}

func TestExtractor_Extract_Unsupported(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(context.Background(), []byte{0x25, 0x50, 0x44, 0x46}, "application/pdf")
	if !errors.Is(err, domain.ErrExtraction) {
		t.Errorf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractor_Extract_InvalidUTF8(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(context.Background(), []byte{0xff, 0xfe, 0x00}, "text/plain")
	if !errors.Is(err, domain.ErrExtraction) {
		t.Errorf("expected ErrExtraction for invalid UTF-8, got %v", err)
	}
}

func TestExtractor_Extract_CancelledContext(t *testing.T) {
	e := NewExtractor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Extract(ctx, []byte("text"), "text/plain"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
