package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/report"
)

const PDFName = "report_v3.pdf"

var (
	royalBlue = [3]int{11, 61, 145}
	gold      = [3]int{212, 175, 55}
	zebra     = [3]int{242, 245, 250}
)

type column struct {
	title string
	width float64
	align string
}

var pdfColumns = []column{
	{"Date", 24, "C"},
	{"Dairy", 40, "L"},
	{"Product", 40, "L"},
	{"Stock In", 22, "R"},
	{"Stock Out", 22, "R"},
	{"Cost P", 22, "R"},
	{"S.P", 22, "R"},
	{"P/L", 25, "R"},
	{"Remarks", 60, "L"},
}

// PDFInput is everything the PDF renders. Logo must be a resolved file path or "".
type PDFInput struct {
	Title       string
	From, To    *time.Time
	Logo        string
	Report      report.Report
	GeneratedAt time.Time
}

const rowHeight = 7.0

// RenderPDF writes a landscape A4 stock and sales report.
func RenderPDF(w io.Writer, in PDFInput) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 20
	generated := in.GeneratedAt.Format("2006-01-02 15:04:05")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(contentW/2, 6, "Generated: "+generated, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	title := in.Title
	if title == "" {
		title = "Dairy Report"
	}
	pdf.SetTextColor(royalBlue[0], royalBlue[1], royalBlue[2])
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW-60, 9, tr(title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(contentW-60, 7, "Stock & Sales Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-60, 6, fmt.Sprintf("Period: %s to %s", periodBound(in.From), periodBound(in.To)), "", 1, "L", false, 0, "")

	drawLogo(pdf, in.Logo, pageW-10-50, 10, 50, 25)

	pdf.SetY(40)
	drawCards(pdf, contentW, in.Report.Totals)

	pdf.SetY(pdf.GetY() + 6)
	drawTableHeader(pdf, tr)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, r := range in.Report.Rows {
		if pdf.GetY()+rowHeight > pageH-15 {
			pdf.AddPage()
			drawTableHeader(pdf, tr)
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(0, 0, 0)
		}
		fill := i%2 == 1
		pdf.SetFillColor(zebra[0], zebra[1], zebra[2])
		cells := []string{
			r.Date.Format(model.DateLayout),
			r.DairyName,
			r.ProductName,
			blankZero(r.InQty),
			blankZero(r.OutQty),
			r.Cost.StringFixed(2),
			optionalFixed(r.Sell),
			blankZero(r.Profit),
			r.Remarks,
		}
		drawRow(pdf, tr, cells, fill)
	}

	if pdf.GetY()+rowHeight > pageH-15 {
		pdf.AddPage()
		drawTableHeader(pdf, tr)
	}
	t := in.Report.Totals
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(220, 226, 240)
	drawRow(pdf, tr, []string{
		"Total", "", "",
		t.InQty.StringFixed(2),
		t.OutQty.StringFixed(2),
		"", "",
		t.Profit.StringFixed(2),
		"",
	}, true)

	return pdf.Output(w)
}

func drawCards(pdf *fpdf.Fpdf, contentW float64, t report.Totals) {
	const gap, height = 6.0, 20.0
	width := (contentW - 2*gap) / 3
	cards := []struct{ label, value string }{
		{"Total Stock In", t.InQty.StringFixed(2)},
		{"Total Stock Out", t.OutQty.StringFixed(2)},
		{"Total Profit", t.Profit.StringFixed(2)},
	}

	y := pdf.GetY()
	for i, c := range cards {
		x := 10 + float64(i)*(width+gap)
		pdf.SetFillColor(royalBlue[0], royalBlue[1], royalBlue[2])
		pdf.Rect(x, y, width, height, "F")
		pdf.SetTextColor(gold[0], gold[1], gold[2])

		pdf.SetXY(x, y+3)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(width, 6, c.label, "", 0, "C", false, 0, "")
		pdf.SetXY(x, y+10)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(width, 7, c.value, "", 0, "C", false, 0, "")
	}
	pdf.SetXY(10, y+height)
}

func drawTableHeader(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(royalBlue[0], royalBlue[1], royalBlue[2])
	pdf.SetTextColor(255, 255, 255)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, rowHeight, tr(c.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func drawRow(pdf *fpdf.Fpdf, tr func(string) string, cells []string, fill bool) {
	for i, c := range pdfColumns {
		text := fitText(pdf, tr(cells[i]), c.width-2)
		pdf.CellFormat(c.width, rowHeight, text, "1", 0, c.align, fill, 0, "")
	}
	pdf.Ln(-1)
}

// drawLogo places the image at the given box; unreadable images are skipped.
func drawLogo(pdf *fpdf.Fpdf, path string, x, y, maxW, maxH float64) {
	if path == "" {
		return
	}
	img, err := imaging.Open(path)
	if err != nil {
		return
	}
	img = imaging.Fit(img, logoMaxWidth, logoMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader("logo", opts, &buf)
	if info == nil || pdf.Err() {
		return
	}

	w, h := info.Width(), info.Height()
	if w <= 0 || h <= 0 {
		return
	}
	scale := maxW / w
	if h*scale > maxH {
		scale = maxH / h
	}
	drawW := w * scale
	pdf.ImageOptions("logo", x+maxW-drawW, y, drawW, h*scale, false, opts, 0, "")
}

func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func periodBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(model.DateLayout)
}

func blankZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

func optionalFixed(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
