package resume

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"unicode"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// Parser extracts plain text from uploaded resumes.
type Parser struct {
	// convert is the general-purpose fallback; swapped in tests.
	convert func(path string) (string, error)
}

func NewParser() *Parser {
	return &Parser{convert: convertWithDocconv}
}

// ExtractText returns the text of a PDF (or any docconv-supported) file.
// PDFs are read natively first; docconv handles everything else and PDFs the
// native reader cannot.
func (p *Parser) ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		text, err := readPDF(path)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err != nil {
			log.Printf("[Resume] native PDF read failed for %s, falling back: %v", filepath.Base(path), err)
		}
	}

	text, err := p.convert(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}
	return text, nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func convertWithDocconv(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

// Excerpt collapses whitespace and truncates to at most n runes, appending
// an ellipsis when cut.
func Excerpt(text string, n int) string {
	fields := strings.FieldsFunc(text, unicode.IsSpace)
	collapsed := strings.Join(fields, " ")
	runes := []rune(collapsed)
	if n <= 0 || len(runes) <= n {
		return collapsed
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
