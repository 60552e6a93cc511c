// Package docparse turns a document reference into plain text.
package docparse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ErrNotFound marks a document reference that does not resolve to a file.
var ErrNotFound = errors.New("docparse: document not found")

// ErrUnsupportedType marks a document format we cannot read.
var ErrUnsupportedType = errors.New("docparse: unsupported document type")

// Parse reads a document and returns its plain-text content.
//
// Supported formats: .txt (verbatim), .html/.htm (tag-stripped text), and
// .pdf (best-effort text recovery, degrading to a lossy byte decode).
// Missing files return ErrNotFound; unrecognized extensions return
// ErrUnsupportedType.
func Parse(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return string(data), nil
	case ".html", ".htm":
		return htmlText(data)
	case ".pdf":
		return pdfText(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}
}

// htmlText walks the parsed HTML tree and concatenates text nodes,
// skipping script and style content.
func htmlText(data []byte) (string, error) {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
				sb.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String(), nil
}

// pdfText recovers whatever readable text the raw PDF bytes contain. It
// collects printable runs first; when that yields nothing useful it falls
// back to a lossy byte decode. It never fails outright.
func pdfText(data []byte) string {
	runs := printableRuns(data, 4)
	if len(strings.TrimSpace(runs)) > 0 {
		return runs
	}
	return lossyDecode(data)
}

// printableRuns extracts contiguous printable-ASCII sequences of at least
// minLen bytes.
func printableRuns(data []byte, minLen int) string {
	var sb strings.Builder
	var run []byte
	flush := func() {
		if len(run) >= minLen {
			sb.Write(run)
			sb.WriteByte('\n')
		}
		run = run[:0]
	}
	for _, b := range data {
		if b == '\t' || (b >= 0x20 && b < 0x7f) {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()
	return sb.String()
}

// lossyDecode maps every byte to a rune, dropping control characters.
func lossyDecode(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		if b == '\n' || b == '\t' || b >= 0x20 {
			sb.WriteRune(rune(b))
		}
	}
	return sb.String()
}
