package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ChicagoDave/massing/pkg/configurator"
	"github.com/ChicagoDave/massing/pkg/massing"
)

// Workbook sheet names.
const (
	SheetSummary    = "Summary"
	SheetFloors     = "Floors"
	SheetParameters = "Parameters"
)

// FloorHeader is the header row of the floor schedule.
var FloorHeader = []any{
	"Floor", "Base Level (m)", "Glazing Height (m)", "Facade Height (m)",
	"Floor Area (m²)", "Glazed Wall (m²)", "Opaque Wall (m²)",
}

// ExportXLSX writes the workbook for res to path.
func ExportXLSX(path string, res *configurator.Result) error {
	f, err := buildWorkbook(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with the data panel, a per-floor schedule
// and the parameter set.
func WriteXLSX(w io.Writer, res *configurator.Result) error {
	f, err := buildWorkbook(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func buildWorkbook(res *configurator.Result) (*excelize.File, error) {
	if res == nil || res.Massing == nil {
		return nil, ErrEmptyResult
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetFloors, SheetParameters} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	steps := []func(*excelize.File, *configurator.Result, int) error{
		writeSummary,
		writeFloors,
		writeParameters,
	}
	for _, step := range steps {
		if err := step(f, res, bold); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSummary(f *excelize.File, res *configurator.Result, bold int) error {
	if err := writeRow(f, SheetSummary, 1, []any{"Item", "Value", "Unit"}); err != nil {
		return err
	}
	for i, item := range res.Panel {
		row := []any{item.Label, nil, item.Suffix}
		if item.Value != nil {
			row[1] = *item.Value
		}
		if err := writeRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "C1", bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 40)
}

func writeFloors(f *excelize.File, res *configurator.Result, bold int) error {
	if err := writeRow(f, SheetFloors, 1, FloorHeader); err != nil {
		return err
	}

	m := res.Massing
	glazing, facade := m.Glazing(), m.Facade()
	floorArea := glazing.Size.X * glazing.Size.Y
	glazedWall := 2 * (glazing.Size.X + glazing.Size.Y) * m.GlassHeight
	opaqueWall := 2 * (facade.Size.X + facade.Size.Y) * m.FacadeHeight

	for i, g := range m.Building.Copies() {
		row := []any{
			g.Name,
			floorBase(g),
			m.GlassHeight,
			m.FacadeHeight,
			floorArea,
			glazedWall,
			opaqueWall,
		}
		if err := writeRow(f, SheetFloors, i+2, row); err != nil {
			return err
		}
	}

	end, _ := excelize.CoordinatesToCellName(len(FloorHeader), 1)
	if err := f.SetCellStyle(SheetFloors, "A1", end, bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetFloors, "A", "G", 18)
}

// floorBase returns the lowest Z of the floor unit.
func floorBase(g *massing.Group) float64 {
	b := g.Bounds()
	if b.IsEmpty() {
		return 0
	}
	return b.Min.Z
}

func writeParameters(f *excelize.File, res *configurator.Result, bold int) error {
	if err := writeRow(f, SheetParameters, 1, []any{"Parameter", "Value"}); err != nil {
		return err
	}
	p := res.Parameters
	rows := [][]any{
		{"width", p.Width},
		{"length", p.Length},
		{"floors", p.Floors},
		{"glazing_ratio", p.GlazingRatio},
		{"facade_color", p.FacadeColor.Hex()},
		{"typology", string(p.Typology)},
		{"materials", string(p.MaterialChoice)},
	}
	for i, row := range rows {
		if err := writeRow(f, SheetParameters, i+2, row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(SheetParameters, "A1", "B1", bold)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
