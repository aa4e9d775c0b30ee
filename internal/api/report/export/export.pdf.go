package export

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 6.0
	pdfFontSize   = 8.0
)

var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// foldASCII bỏ dấu tiếng Việt; font core của PDF chỉ có bảng mã cp1252
func foldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, dStroke.Replace(s))
	if err != nil {
		return s
	}
	return out
}

func writePDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	colW := pageW - 2*pdfMargin
	if n := len(doc.Columns); n > 0 {
		colW /= float64(n)
	}

	heads := headers(doc.Columns)
	pdf.SetHeaderFunc(func() {
		if doc.Title != "" {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 8, tr(foldASCII(doc.Title)), "", 1, "L", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.SetFillColor(221, 235, 247)
		for _, h := range heads {
			pdf.CellFormat(colW, pdfLineHeight, tr(fit(pdf, foldASCII(h), colW)), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", pdfFontSize)
	})

	pdf.AddPage()
	for _, row := range doc.Rows {
		for _, col := range doc.Columns {
			text := foldASCII(FormatCell(col, row[col.Key], doc.Location))
			align := "L"
			if _, ok := numericValue(col, row[col.Key]); ok {
				align = "R"
			}
			pdf.CellFormat(colW, pdfLineHeight, tr(fit(pdf, text, colW)), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit cắt chuỗi cho vừa độ rộng ô
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"..") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + ".."
}
