// Package export writes a built building to PDF data sheets, XLSX
// floor schedules and DXF 3D models.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"github.com/ChicagoDave/massing/pkg/analytics"
	"github.com/ChicagoDave/massing/pkg/configurator"
	"github.com/ChicagoDave/massing/pkg/scene2d"
)

// ErrEmptyResult is returned when there is nothing to export.
var ErrEmptyResult = errors.New("nothing to export")

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
	qrSize       = 40.0
)

// ExportPDF writes the data sheet for res to path.
func ExportPDF(path string, res *configurator.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating PDF file: %w", err)
	}
	if err := WritePDF(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePDF renders a two-page data sheet: parameters, data panel and a
// QR code of the parameter set, then the elevations.
func WritePDF(w io.Writer, res *configurator.Result) error {
	if res == nil || res.Massing == nil {
		return ErrEmptyResult
	}
	drawings := scene2d.Assemble2D(title(res), res.Massing)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	if err := renderDataPage(pdf, tr, res); err != nil {
		return err
	}

	pdf.AddPage()
	renderDrawingPage(pdf, tr, drawings)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func title(res *configurator.Result) string {
	if res.Scene != nil && res.Scene.Metadata.Name != "" {
		return res.Scene.Metadata.Name
	}
	return "Building massing"
}

func renderDataPage(pdf *fpdf.Fpdf, tr func(string) string, res *configurator.Result) error {
	contentW := pageWidth - marginLeft - marginRight

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentW, headerHeight, tr(title(res)), "", 1, "L", false, 0, "")

	// QR code of the parameter set, top right
	p := res.Parameters
	qrPNG, err := qrcode.Encode(p.Values().Encode(), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr_parameters", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr_parameters", pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Parameters
	y := marginTop + headerHeight + 4
	y = renderSection(pdf, tr, y, contentW-qrSize-5, "Parameters", [][2]string{
		{"Width", fmt.Sprintf("%.2f m", p.Width)},
		{"Length", fmt.Sprintf("%.2f m", p.Length)},
		{"Floors", fmt.Sprintf("%d", p.Floors)},
		{"Glazing ratio", fmt.Sprintf("%.1f %%", p.GlazingRatio)},
		{"Facade color", p.FacadeColor.Hex()},
		{"Typology", string(p.Typology)},
		{"Materials", string(p.MaterialChoice)},
	})

	// Data panel
	rows := make([][2]string, 0, len(res.Panel))
	for _, item := range res.Panel {
		rows = append(rows, [2]string{item.Label, formatItem(item)})
	}
	y = renderSection(pdf, tr, math.Max(y, marginTop+qrSize+5), contentW, "Data", rows)

	// Validation
	if res.Validation != nil {
		var findings [][2]string
		for _, r := range res.Validation.Warnings {
			findings = append(findings, [2]string{"warning", r.Message})
		}
		for _, r := range res.Validation.Info {
			findings = append(findings, [2]string{"info", r.Message})
		}
		if len(findings) > 0 {
			renderSection(pdf, tr, y, contentW, "Findings ("+res.Validation.Summary+")", findings)
		}
	}
	return nil
}

// renderSection draws a bold heading followed by label/value rows and
// returns the y position below the last row.
func renderSection(pdf *fpdf.Fpdf, tr func(string) string, y, width float64, heading string, rows [][2]string) float64 {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(width, rowHeight+1, tr(heading), "B", 1, "L", false, 0, "")
	y += rowHeight + 2

	labelW := width * 0.55
	for i, row := range rows {
		if y > pageHeight-marginBottom-rowHeight {
			break
		}
		fill := i%2 == 0
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(labelW, rowHeight, tr(row[0]), "", 0, "L", fill, 0, "")
		pdf.CellFormat(width-labelW, rowHeight, tr(row[1]), "", 1, "R", fill, 0, "")
		y += rowHeight
	}
	return y + 4
}

func formatItem(item analytics.DataItem) string {
	if item.Value == nil {
		return "-"
	}
	v := *item.Value
	var s string
	switch {
	case math.Abs(v) >= 1000:
		s = fmt.Sprintf("%.0f", v)
	case v == math.Trunc(v):
		s = fmt.Sprintf("%.1f", v)
	default:
		s = fmt.Sprintf("%.2f", v)
	}
	switch item.Suffix {
	case "":
		return s
	case "$":
		return "$" + s
	default:
		return s + " " + item.Suffix
	}
}

func renderDrawingPage(pdf *fpdf.Fpdf, tr func(string) string, s *scene2d.Scene2D) {
	contentW := pageWidth - marginLeft - marginRight

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentW, headerHeight, tr("Elevations and plan"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("%d floors | height %.1f m | %.1f x %.1f m", s.Metadata.Floors, s.Metadata.HeightM, s.Metadata.WidthM, s.Metadata.DepthM)
	pdf.CellFormat(contentW, 5, tr(stats), "", 1, "L", false, 0, "")

	top := marginTop + headerHeight + 10
	elevH := (pageHeight - top - marginBottom) * 0.62
	halfW := (contentW - 10) / 2

	drawView(pdf, tr, s.Front, marginLeft, top, halfW, elevH)
	drawView(pdf, tr, s.Side, marginLeft+halfW+10, top, halfW, elevH)

	planTop := top + elevH + 12
	drawView(pdf, tr, s.Plan, marginLeft, planTop, contentW, pageHeight-planTop-marginBottom)
}

// drawView fits v into the box at (x, y) of size w by h, preserving
// aspect ratio. Vertical view coordinates grow upwards.
func drawView(pdf *fpdf.Fpdf, tr func(string) string, v scene2d.View, x, y, w, h float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y-5)
	pdf.CellFormat(w, 4, tr(v.Name), "", 0, "L", false, 0, "")

	if len(v.Rects) == 0 || v.Width() <= 0 || v.Height() <= 0 {
		return
	}

	scale := math.Min(w/v.Width(), h/v.Height())
	offsetX := x + (w-v.Width()*scale)/2
	offsetY := y + (h-v.Height()*scale)/2
	toPage := func(p [2]float64) (float64, float64) {
		return offsetX + (p[0]-v.Min[0])*scale, offsetY + (v.Max[1]-p[1])*scale
	}

	for _, r := range v.Rects {
		x0, y1 := toPage(r.Min)
		x1, y0 := toPage(r.Max)

		col := parseHex(r.Color)
		pdf.SetAlpha(r.Opacity, "Normal")
		pdf.SetFillColor(col[0], col[1], col[2])
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.1)
		pdf.Rect(x0, y0, x1-x0, y1-y0, "FD")
	}
	pdf.SetAlpha(1, "Normal")

	pdf.SetFont("Helvetica", "", 5)
	pdf.SetTextColor(80, 80, 80)
	for _, l := range v.Labels {
		lx, ly := toPage(l.Position)
		pdf.Text(lx+1, ly+1, tr(l.Text))
	}
	pdf.SetTextColor(0, 0, 0)
}

// parseHex decodes #RRGGBB as produced by spec.RGB.Hex.
func parseHex(s string) [3]int {
	var c [3]int
	if _, err := fmt.Sscanf(s, "#%02X%02X%02X", &c[0], &c[1], &c[2]); err != nil {
		return [3]int{128, 128, 128}
	}
	return c
}
