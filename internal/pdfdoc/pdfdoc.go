package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/pep299/cv-generator/internal/cv"
)

// Layout in points on A4
const (
	margin       = 72.0
	titleSize    = 16.0
	headingSize  = 14.0
	bodySize     = 11.0
	footerSize   = 8.0
	bulletIndent = 14.0
	fontFamily   = "Helvetica"
)

var replacer = strings.NewReplacer(
	"•", "-",
	"–", "-",
	"—", "-",
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"…", "...",
	"**", "",
	"__", "",
)

// CleanText replaces typographic characters with ASCII equivalents, strips
// markdown emphasis and drops anything the core PDF fonts cannot encode.
func CleanText(text string) string {
	text = replacer.Replace(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Render writes the CV as an A4 PDF: name and contact header, then one
// heading per markdown section with its lines and bullets.
func Render(w io.Writer, p cv.Profile, markdown string) error {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetTitle(CleanText(p.Name), false)
	doc.SetCreator("cv-generator", false)
	doc.SetFooterFunc(func() {
		doc.SetY(-margin / 2)
		doc.SetFont(fontFamily, "I", footerSize)
		doc.CellFormat(0, footerSize+2, fmt.Sprintf("Page %d", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	doc.SetFont(fontFamily, "B", titleSize)
	doc.MultiCell(0, titleSize+4, CleanText(p.Name), "", "C", false)
	doc.SetFont(fontFamily, "", bodySize)
	doc.MultiCell(0, bodySize+4, CleanText(p.ContactLine()), "", "C", false)
	doc.Ln(12)

	pageWidth, _ := doc.GetPageSize()
	for _, section := range cv.ParseSections(markdown) {
		doc.SetFont(fontFamily, "B", headingSize)
		doc.MultiCell(0, headingSize+6, CleanText(section.Title), "", "L", false)
		doc.Line(margin, doc.GetY(), pageWidth-margin, doc.GetY())
		doc.Ln(6)

		doc.SetFont(fontFamily, "", bodySize)
		for _, line := range section.Lines {
			text := CleanText(line.Text)
			if line.Bullet {
				doc.SetX(margin)
				doc.CellFormat(bulletIndent, bodySize+4, "-", "", 0, "L", false, 0, "")
				doc.MultiCell(0, bodySize+4, text, "", "L", false)
			} else {
				doc.MultiCell(0, bodySize+4, text, "", "L", false)
			}
			doc.Ln(2)
		}
		doc.Ln(12)
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("building pdf: %w", err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// RenderBytes renders the CV into memory
func RenderBytes(p cv.Profile, markdown string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, p, markdown); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
