// Package pdftest builds small PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Build assembles a classic xref-table PDF from object bodies numbered
// from 1 in the order given. The first object must be the catalog.
func Build(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

// FormPDF is a one-page document with a text field, two checkboxes (one
// with a Shift-JIS export value), a combo box, a read-only text field and a
// hierarchical field "address.city".
func FormPDF() []byte {
	return Build(
		// 1
		"<< /Type /Catalog /Pages 2 0 R /AcroForm 4 0 R >>",
		// 2
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		// 3
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Annots [5 0 R 6 0 R 7 0 R 8 0 R 11 0 R 13 0 R] >>",
		// 4
		"<< /Fields [5 0 R 6 0 R 7 0 R 8 0 R 12 0 R 13 0 R] /DA (/Helv 0 Tf 0 g) >>",
		// 5
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (name) /V (Taro) /DA (/Helv 12 Tf 0 0 1 rg) /MaxLen 20 /Rect [50 700 250 720] >>",
		// 6
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T (agree) /V /Off /AS /Off /Rect [50 650 70 670] /AP << /N << /Yes 9 0 R /Off 10 0 R >> >> >>",
		// 7
		"<< /Type /Annot /Subtype /Widget /FT /Ch /Ff 131072 /T (kind) /V (B) /Opt [(A) [(B) (Bee)] (C)] /Rect [50 600 250 620] >>",
		// 8
		"<< /Type /Annot /Subtype /Widget /FT /Tx /Ff 1 /T (locked) /V (fixed) /Rect [50 550 250 570] >>",
		// 9
		"<< /Length 3 >>\nstream\nq Q\nendstream",
		// 10
		"<< /Length 3 >>\nstream\nq Q\nendstream",
		// 11
		"<< /Type /Annot /Subtype /Widget /Parent 12 0 R /T (city) /V (Tokyo) /Rect [50 500 250 520] >>",
		// 12
		"<< /FT /Tx /T (address) /Kids [11 0 R] >>",
		// 13
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T (spouse) /V /#82#CD#82#A2 /AS /#82#CD#82#A2 /Rect [50 450 70 470] /AP << /N << /#82#CD#82#A2 9 0 R /Off 10 0 R >> >> >>",
	)
}

// RadioPDF is a two-page document with a radio group "kubun" whose widgets
// ("a" on page 1, "b" on page 2) are kids of one field, and a text field
// "note" on page 2.
func RadioPDF() []byte {
	return Build(
		// 1
		"<< /Type /Catalog /Pages 2 0 R /AcroForm 5 0 R >>",
		// 2
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>",
		// 3
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Annots [7 0 R] >>",
		// 4
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Annots [8 0 R 11 0 R] >>",
		// 5
		"<< /Fields [6 0 R 11 0 R] >>",
		// 6
		"<< /FT /Btn /Ff 49152 /T (kubun) /V /Off /Kids [7 0 R 8 0 R] >>",
		// 7
		"<< /Type /Annot /Subtype /Widget /Parent 6 0 R /AS /Off /Rect [50 700 70 720] /AP << /N << /a 9 0 R /Off 10 0 R >> >> >>",
		// 8
		"<< /Type /Annot /Subtype /Widget /Parent 6 0 R /AS /Off /Rect [50 650 70 670] /AP << /N << /b 9 0 R /Off 10 0 R >> >> >>",
		// 9
		"<< /Length 3 >>\nstream\nq Q\nendstream",
		// 10
		"<< /Length 3 >>\nstream\nq Q\nendstream",
		// 11
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (note) /Rect [50 600 250 620] >>",
	)
}

// PlainPDF is a one-page document without an AcroForm.
func PlainPDF() []byte {
	return Build(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>",
	)
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
