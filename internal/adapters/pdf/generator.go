// Package pdf writes a printable copy of the roster table.
// The layout mirrors the web table: one row per employee, columns for name,
// position and skills, in store order.
package pdf

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/employee-roster/internal/domain"
	"github.com/csg33k/employee-roster/internal/roster"
)

type Exporter struct {
	// Now stamps the footer; tests pin it.
	Now func() time.Time
}

func New() *Exporter {
	return &Exporter{Now: time.Now}
}

// Export writes a Letter-size PDF of employees to w.
func (x *Exporter) Export(ctx context.Context, employees []domain.Employee, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	// Core fonts are cp1252; labels and names carry accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pageW, _ := pdf.GetPageSize()
		marginL, _, marginR, _ := pdf.GetMargins()
		half := (pageW - marginL - marginR) / 2
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 7.5)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(half, 5, tr(fmt.Sprintf("Gerado em %s", x.now().Format("02/01/2006 15:04"))), "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 5, fmt.Sprintf("%d / {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	drawTable(pdf, tr, employees)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build roster pdf: %w", err)
	}
	return pdf.Output(w)
}

func (x *Exporter) now() time.Time {
	if x.Now == nil {
		return time.Now()
	}
	return x.Now()
}

func drawTable(pdf *fpdf.Fpdf, tr func(string) string, employees []domain.Employee) {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 10, tr("Gerenciamento de Funcionários"), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	nameW := contentW * 0.28
	posW := contentW * 0.22
	skillW := contentW - nameW - posW

	header := func() {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Helvetica", "B", 8.5)
		pdf.CellFormat(nameW, 7, "Nome", "1", 0, "L", true, 0, "")
		pdf.CellFormat(posW, 7, "Cargo", "1", 0, "L", true, 0, "")
		pdf.CellFormat(skillW, 7, "Habilidades", "1", 1, "L", true, 0, "")
	}
	header()

	if len(employees) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 7, tr("Nenhum funcionário cadastrado."), "1", 1, "C", false, 0, "")
		return
	}

	rowH := 6.5
	pdf.SetFont("Helvetica", "", 9)
	for i, e := range employees {
		// Alternating row background
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		skills := pdf.SplitText(tr(roster.JoinSkills(e.Skills)), skillW-2)
		h := rowH * float64(max(1, len(skills)))

		_, pageH := pdf.GetPageSize()
		_, _, _, marginB := pdf.GetMargins()
		if pdf.GetY()+h > pageH-marginB {
			pdf.AddPage()
			header()
			pdf.SetFont("Helvetica", "", 9)
		}

		x, y := pdf.GetXY()
		pdf.CellFormat(nameW, h, tr(e.Name), "1", 0, "L", true, 0, "")
		pdf.CellFormat(posW, h, tr(e.Position), "1", 0, "L", true, 0, "")
		pdf.SetXY(x+nameW+posW, y)
		pdf.MultiCell(skillW, rowH, tr(roster.JoinSkills(e.Skills)), "1", "L", true)
		pdf.SetXY(x, y+h)
	}
}
