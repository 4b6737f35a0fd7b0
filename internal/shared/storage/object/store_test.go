package object

import (
	"io"
	"strings"
	"testing"

	"quickai-backend/internal/shared/util"
)

func TestNewKey(t *testing.T) {
	key, err := NewKey("quickai", "user-1", "a/b.png")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != "quickai" || parts[1] != util.HashUserKey("user-1") {
		t.Fatalf("unexpected key %q", key)
	}
	if !strings.HasSuffix(parts[2], "_a_b.png") {
		t.Fatalf("expected sanitized name, got %q", parts[2])
	}

	if key, _ := NewKey("", "user-1", "x.png"); strings.HasPrefix(key, "/") {
		t.Fatalf("empty folder should be omitted, got %q", key)
	}
	if _, err := NewKey("quickai", "user-1", "../x.png"); err == nil {
		t.Fatalf("expected traversal name to be rejected")
	}
}

func TestSniffReplaysHead(t *testing.T) {
	payload := "\x89PNG\r\n\x1a\n" + strings.Repeat("z", 1024)
	contentType, body, err := Sniff(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if contentType != "image/png" {
		t.Fatalf("content type = %q", contentType)
	}
	got, _ := io.ReadAll(body)
	if string(got) != payload {
		t.Fatalf("replayed %d bytes, want %d", len(got), len(payload))
	}
}
