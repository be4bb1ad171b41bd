// Package export renders generated history notes as printable documents.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Document is a note ready for export.
type Document struct {
	Title       string
	Note        string
	HasRedFlags bool
}

// PDF renders notes on A4 pages with the core Helvetica font.
type PDF struct {
	author string
	now    func() time.Time
}

// Option configures the PDF renderer.
type Option func(*PDF)

// WithAuthor sets the document author metadata.
func WithAuthor(author string) Option {
	return func(p *PDF) { p.author = author }
}

// WithClock fixes the creation date, mostly for reproducible output.
func WithClock(now func() time.Time) Option {
	return func(p *PDF) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPDF creates a renderer.
func NewPDF(opts ...Option) *PDF {
	p := &PDF{author: "History Pro Scribe", now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Write renders doc to w. Markdown headings in the note become bold lines;
// the red-flag heading is printed in red.
func (p *PDF) Write(w io.Writer, doc Document) error {
	if strings.TrimSpace(doc.Note) == "" {
		return errors.New("export: empty note")
	}
	title := doc.Title
	if title == "" {
		title = "Patient History"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetAuthor(p.author, true)
	pdf.SetCreationDate(p.now())
	pdf.SetCatalogSort(true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	if doc.HasRedFlags {
		pdf.SetFillColor(200, 30, 30)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 9, tr("MEDICAL ALERT: red flag symptoms present"), "", 1, "C", true, 0, "")
		pdf.Ln(4)
	}

	for _, line := range strings.Split(doc.Note, "\n") {
		writeLine(pdf, tr, line)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func writeLine(pdf *gofpdf.Fpdf, tr func(string) string, line string) {
	pdf.SetTextColor(0, 0, 0)
	switch {
	case strings.TrimSpace(line) == "":
		pdf.Ln(3)
	case strings.HasPrefix(line, "### "):
		pdf.SetTextColor(180, 20, 20)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, tr(strings.TrimPrefix(line, "### ")), "", "L", false)
	case strings.HasPrefix(line, "## "):
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, tr(strings.TrimPrefix(line, "## ")), "B", "L", false)
		pdf.Ln(1)
	case strings.HasPrefix(line, "# "):
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, 9, tr(strings.TrimPrefix(line, "# ")), "", "C", false)
	default:
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
}
