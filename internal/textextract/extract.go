// Package textextract turns stored resume documents into plain text and a
// structured section map that the scoring pipeline consumes.
package textextract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/nguyenthenguyen/docx"
)

// FileType identifies the source document format.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

// FileTypeFromName guesses the format from a file name or storage path.
func FileTypeFromName(name string) (FileType, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return FileTypePDF, nil
	case strings.HasSuffix(lower, ".docx"):
		return FileTypeDOCX, nil
	case strings.HasSuffix(lower, ".txt"):
		return FileTypeTXT, nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", name)
	}
}

// FromBytes extracts plain text from document data.
func FromBytes(data []byte, fileType FileType) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty document")
	}
	switch fileType {
	case FileTypePDF:
		return FromPDF(data)
	case FileTypeDOCX:
		return FromDOCX(data)
	case FileTypeTXT:
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", fileType)
	}
}

// FromPDF extracts the text layer of every page.
func FromPDF(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var (
	reParagraphEnd = regexp.MustCompile(`</w:p>`)
	reXMLTag       = regexp.MustCompile(`<[^>]+>`)
)

// FromDOCX extracts text from the main document part. Paragraph boundaries
// become newlines so section headers survive.
func FromDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = reParagraphEnd.ReplaceAllString(content, "\n")
	content = reXMLTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}
