// Package gofpdf renders quotes with the gofpdf library using the built-in
// core fonts, so no font files need to ship with the binary. Accented text
// goes through the cp1252 translator.
package gofpdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"funilaria-puma/backend/internal/domain/quote"
)

const (
	companyName    = "FUNILARIA E PINTURA PUMA"
	companyAddress = "Avenida Alfredo Contato, 2441 - Vila Ferrarezi - Santa B. D'Oeste / SP"
	companyPhone   = "(19) 98153-1546"

	footerNote = "Orçamento válido por 7 dias. Valores sujeitos à alteração conforme avaliação final."

	marginX     = 15.0
	contentTopY = 45.0
)

type Generator struct{}

func New() *Generator { return &Generator{} }

func (g *Generator) Generate(q quote.Quote) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Orçamento Nº %d", q.ID), true)
	// Pinning both dates to the quote keeps output byte-identical for
	// identical input.
	pdf.SetCreationDate(q.CreatedAt)
	pdf.SetModificationDate(q.CreatedAt)
	// Without catalog sorting gofpdf emits font objects in map-iteration
	// order, so two renders of the same quote can differ byte-for-byte.
	pdf.SetCatalogSort(true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*marginX

	pdf.SetMargins(marginX, 15, marginX)
	pdf.SetHeaderFunc(func() {
		pdf.SetTextColor(15, 23, 42)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetXY(marginX, 15)
		pdf.CellFormat(contentW/2, 7, tr(companyName), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(contentW/2, 7, tr(fmt.Sprintf("ORÇAMENTO Nº %d", q.ID)), "", 1, "R", false, 0, "")

		pdf.SetTextColor(55, 65, 81)
		pdf.SetFont("Helvetica", "", 8.5)
		pdf.SetX(marginX)
		pdf.CellFormat(contentW*0.65, 5, tr(companyAddress), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.35, 5, tr("Telefone: "+companyPhone), "", 1, "R", false, 0, "")

		pdf.SetDrawColor(229, 231, 235)
		pdf.Line(marginX, 32, pageW-marginX, 32)
		pdf.SetY(contentTopY)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetTextColor(100, 116, 139)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW, 4, tr(footerNote), "", 0, "C", false, 0, "")
	})
	pdf.SetAutoPageBreak(true, 40)
	pdf.AddPage()

	g.infoBlock(pdf, tr, q, contentW)

	if q.PaymentTerms != "" {
		g.sectionTitle(pdf, tr, "Forma de Pagamento")
		pdf.SetTextColor(31, 41, 55)
		pdf.SetFont("Helvetica", "", 9.5)
		pdf.MultiCell(contentW, 5, tr(q.PaymentTerms), "", "L", false)
		pdf.Ln(3)
	}

	if len(q.Parts) > 0 {
		g.partsTable(pdf, tr, q.Parts, contentW, pageH)
	}
	if len(q.Labor) > 0 {
		g.laborTable(pdf, tr, q.Labor, contentW, pageH)
	}

	g.totalBlock(pdf, tr, q, contentW)
	g.signatures(pdf, tr, q, pageW, pageH)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote %d: %w", q.ID, err)
	}
	return buf.Bytes(), nil
}

// infoBlock draws the two-column client / vehicle identification block.
func (g *Generator) infoBlock(pdf *gofpdf.Fpdf, tr func(string) string, q quote.Quote, contentW float64) {
	vehicle := strings.TrimSpace(q.VehicleMake + " " + q.VehicleModel)
	left := [][2]string{
		{"Cliente", orDash(q.ClientName)},
		{"Telefone", orDash(q.Phone)},
		{"Data", q.CreatedAt.Format("02/01/2006")},
	}
	right := [][2]string{
		{"Veículo / Ano", orDash(vehicle) + " / " + orDash(q.VehicleYear)},
		{"Placa", orDash(q.VehiclePlate)},
	}

	colW := contentW / 2
	startY := pdf.GetY()
	for i := 0; i < len(left) || i < len(right); i++ {
		y := startY + float64(i)*12
		if i < len(left) {
			g.labeledValue(pdf, tr, marginX, y, colW-5, left[i][0], left[i][1])
		}
		if i < len(right) {
			g.labeledValue(pdf, tr, marginX+colW, y, colW-5, right[i][0], right[i][1])
		}
	}
	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	pdf.SetY(startY + float64(rows)*12 + 4)
}

func (g *Generator) labeledValue(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w float64, label, value string) {
	pdf.SetXY(x, y)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(w, 5, tr(label), "", 2, "L", false, 0, "")
	pdf.SetTextColor(31, 41, 55)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(w, 5, tr(value), "", 0, "L", false, 0, "")
}

func (g *Generator) sectionTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (g *Generator) tableHeader(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, aligns []string) {
	pdf.SetFillColor(241, 245, 249)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Helvetica", "B", 9)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 8, tr(c), "", ln, aligns[i], true, 0, "")
	}
}

// partsTable draws the Peças table; descriptions wrap and the header is
// repeated whenever a row forces a new page.
func (g *Generator) partsTable(pdf *gofpdf.Fpdf, tr func(string) string, parts []quote.PartLine, contentW, pageH float64) {
	qtyW, unitW, totW := 15.0, 28.0, 28.0
	descW := contentW - qtyW - unitW - totW
	cols := []string{"Qtd", "Descrição", "Unitário", "Total"}
	widths := []float64{qtyW, descW, unitW, totW}
	aligns := []string{"L", "L", "R", "R"}

	g.sectionTitle(pdf, tr, "Peças")
	g.tableHeader(pdf, tr, cols, widths, aligns)

	bottom := pageH - 45
	for _, p := range parts {
		desc := tr(orDash(p.Description))
		pdf.SetFont("Helvetica", "", 9)
		lines := pdf.SplitLines([]byte(desc), descW-2)
		rowH := float64(len(lines)) * 5
		if rowH < 6 {
			rowH = 6
		}
		if pdf.GetY()+rowH > bottom {
			pdf.AddPage()
			g.sectionTitle(pdf, tr, "Peças")
			g.tableHeader(pdf, tr, cols, widths, aligns)
		}

		x, y := pdf.GetX(), pdf.GetY()
		pdf.SetTextColor(17, 17, 17)
		pdf.CellFormat(qtyW, rowH, formatQty(p.Qty), "", 0, "L", false, 0, "")
		pdf.MultiCell(descW, 5, desc, "", "L", false)
		pdf.SetXY(x+qtyW+descW, y)
		pdf.CellFormat(unitW, rowH, tr(brl(p.UnitPrice)), "", 0, "R", false, 0, "")
		pdf.CellFormat(totW, rowH, tr(brl(p.Subtotal)), "", 1, "R", false, 0, "")
		pdf.SetY(y + rowH)

		pdf.SetDrawColor(229, 231, 235)
		pdf.Line(marginX, pdf.GetY(), marginX+contentW, pdf.GetY())
	}
	pdf.Ln(4)
}

func (g *Generator) laborTable(pdf *gofpdf.Fpdf, tr func(string) string, labor []quote.LaborLine, contentW, pageH float64) {
	valW := 30.0
	descW := contentW - valW
	cols := []string{"Descrição", "Valor"}
	widths := []float64{descW, valW}
	aligns := []string{"L", "R"}

	g.sectionTitle(pdf, tr, "Mão de Obra")
	g.tableHeader(pdf, tr, cols, widths, aligns)

	bottom := pageH - 45
	for _, l := range labor {
		if pdf.GetY()+6 > bottom {
			pdf.AddPage()
			g.sectionTitle(pdf, tr, "Mão de Obra")
			g.tableHeader(pdf, tr, cols, widths, aligns)
		}
		pdf.SetTextColor(17, 17, 17)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(descW, 6, tr(orDash(l.Description)), "", 0, "L", false, 0, "")
		pdf.CellFormat(valW, 6, tr(brl(l.Value)), "", 1, "R", false, 0, "")
		pdf.SetDrawColor(229, 231, 235)
		pdf.Line(marginX, pdf.GetY(), marginX+contentW, pdf.GetY())
	}
	pdf.Ln(4)
}

// totalBlock draws free-text observations alongside the highlighted TOTAL
// box.
func (g *Generator) totalBlock(pdf *gofpdf.Fpdf, tr func(string) string, q quote.Quote, contentW float64) {
	boxW, boxH := 55.0, 22.0
	obsW := contentW - boxW - 8
	topY := pdf.GetY()

	if strings.TrimSpace(q.Description) != "" {
		pdf.SetXY(marginX, topY)
		pdf.SetTextColor(15, 23, 42)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(obsW, 6, tr("Observações / Descrição"), "", 2, "L", false, 0, "")
		pdf.SetTextColor(17, 17, 17)
		pdf.SetFont("Helvetica", "", 9.5)
		pdf.MultiCell(obsW, 5, tr(q.Description), "", "L", false)
	}

	boxX := marginX + contentW - boxW
	pdf.SetDrawColor(229, 231, 235)
	pdf.RoundedRect(boxX, topY, boxW, boxH, 2, "1234", "D")
	pdf.SetXY(boxX+4, topY+3)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(boxW-8, 5, "TOTAL", "", 0, "L", false, 0, "")
	pdf.SetXY(boxX+4, topY+boxH-9)
	pdf.SetTextColor(22, 163, 74)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(boxW-8, 6, tr(brl(q.Total)), "", 0, "R", false, 0, "")

	endY := pdf.GetY() + 6
	if topY+boxH+6 > endY {
		endY = topY + boxH + 6
	}
	pdf.SetY(endY)
}

// signatures anchors the workshop/client signature lines near the page
// bottom, spilling to a new page when the body already reaches that far.
func (g *Generator) signatures(pdf *gofpdf.Fpdf, tr func(string) string, q quote.Quote, pageW, pageH float64) {
	sigY := pageH - 35
	if pdf.GetY()+15 > sigY {
		pdf.AddPage()
	}

	lineW := pageW/2 - 25
	leftX := marginX
	rightX := pageW/2 + 10

	pdf.SetDrawColor(15, 23, 42)
	pdf.Line(leftX, sigY, leftX+lineW, sigY)
	pdf.Line(rightX, sigY, rightX+lineW, sigY)

	pdf.SetTextColor(100, 116, 139)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(leftX, sigY-5)
	pdf.CellFormat(lineW, 4, tr("Assinatura (Oficina)"), "", 0, "C", false, 0, "")
	pdf.SetXY(rightX, sigY-5)
	pdf.CellFormat(lineW, 4, tr("Assinatura (Cliente)"), "", 0, "C", false, 0, "")

	pdf.SetTextColor(31, 41, 55)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(leftX, sigY+2)
	pdf.CellFormat(lineW, 5, tr(companyName), "", 0, "C", false, 0, "")
	pdf.SetXY(rightX, sigY+2)
	pdf.CellFormat(lineW, 5, tr(orDash(q.ClientName)), "", 0, "C", false, 0, "")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// brl formats a value as Brazilian currency: R$ 1.234,56.
func brl(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "." + intPart[i:]
	}
	return "R$ " + sign + intPart + "," + frac
}
