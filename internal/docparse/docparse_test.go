package docparse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParse_Text(t *testing.T) {
	path := writeFile(t, "report.txt", "Date: 2025-01-12\nLocation: Main St 5\n")

	text, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if text != "Date: 2025-01-12\nLocation: Main St 5\n" {
		t.Errorf("Expected verbatim text, got %q", text)
	}
}

func TestParse_HTML(t *testing.T) {
	path := writeFile(t, "report.html", `<html><head><style>body{color:red}</style>
<script>alert("x")</script></head>
<body><h1>Incident Report</h1><p>Date: 2025-01-12</p></body></html>`)

	text, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !strings.Contains(text, "Incident Report") || !strings.Contains(text, "Date: 2025-01-12") {
		t.Errorf("Expected body text, got %q", text)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color:red") {
		t.Errorf("Script/style content leaked into text: %q", text)
	}
}

func TestParse_PDFPrintableRuns(t *testing.T) {
	content := "%PDF-1.4\x00\x01\x02Incident at Bellevue Square\x00\x03ab"
	path := writeFile(t, "report.pdf", content)

	text, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !strings.Contains(text, "Incident at Bellevue Square") {
		t.Errorf("Expected printable run in output, got %q", text)
	}
	if strings.Contains(text, "ab\n") {
		t.Errorf("Short runs should be dropped, got %q", text)
	}
}

func TestParse_NotFound(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestParse_UnsupportedType(t *testing.T) {
	path := writeFile(t, "report.docx", "binary")

	_, err := Parse(path)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("Expected ErrUnsupportedType, got %v", err)
	}
}
