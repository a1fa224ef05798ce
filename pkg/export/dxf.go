package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/ChicagoDave/massing/pkg/configurator"
	"github.com/ChicagoDave/massing/pkg/geo"
	"github.com/ChicagoDave/massing/pkg/massing"
)

// DXF layer names.
const (
	LayerGlazing = "GLAZING"
	LayerFacade  = "FACADE"
)

// FacesPerSolid is the number of 3DFACE entities written per box.
const FacesPerSolid = 6

// ExportDXF writes every solid of res as 3DFACE boxes to path, one layer
// per material. Coordinates are model space metres, Z up.
func ExportDXF(path string, res *configurator.Result) error {
	if res == nil || res.Massing == nil {
		return ErrEmptyResult
	}

	d := dxf.NewDrawing()
	layers := map[string]color.ColorNumber{
		massing.GlazingName: color.Cyan,
		massing.FacadeName:  color.White,
	}
	for _, name := range []string{massing.GlazingName, massing.FacadeName} {
		if _, err := d.AddLayer(layerName(name), layers[name], dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("adding layer %s: %w", layerName(name), err)
		}
	}

	for s := range res.Massing.Building.Solids() {
		_, leaf := massing.SplitName(s.Name)
		if err := d.ChangeLayer(layerName(leaf)); err != nil {
			return fmt.Errorf("selecting layer for %s: %w", s.Name, err)
		}
		for _, face := range boxFaces(s) {
			if _, err := d.ThreeDFace(face); err != nil {
				return fmt.Errorf("adding face for %s: %w", s.Name, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("saving DXF: %w", err)
	}
	return nil
}

// WriteDXF writes the DXF drawing to w. The drawing is staged in a
// temporary file because the DXF writer only saves to paths.
func WriteDXF(w io.Writer, res *configurator.Result) error {
	dir, err := os.MkdirTemp("", "massing-dxf-")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "building.dxf")
	if err := ExportDXF(file, res); err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading DXF: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func layerName(leaf string) string {
	if leaf == massing.GlazingName {
		return LayerGlazing
	}
	return LayerFacade
}

// boxFaces returns the six quads of the solid's bounding box.
func boxFaces(s massing.Solid) [][][]float64 {
	b := geo.CenteredBox(s.Offset, s.Size)
	lo, hi := b.Min, b.Max

	p := func(x, y, z float64) []float64 { return []float64{x, y, z} }
	return [][][]float64{
		{p(lo.X, lo.Y, lo.Z), p(hi.X, lo.Y, lo.Z), p(hi.X, hi.Y, lo.Z), p(lo.X, hi.Y, lo.Z)}, // bottom
		{p(lo.X, lo.Y, hi.Z), p(hi.X, lo.Y, hi.Z), p(hi.X, hi.Y, hi.Z), p(lo.X, hi.Y, hi.Z)}, // top
		{p(lo.X, lo.Y, lo.Z), p(hi.X, lo.Y, lo.Z), p(hi.X, lo.Y, hi.Z), p(lo.X, lo.Y, hi.Z)},
		{p(lo.X, hi.Y, lo.Z), p(hi.X, hi.Y, lo.Z), p(hi.X, hi.Y, hi.Z), p(lo.X, hi.Y, hi.Z)},
		{p(lo.X, lo.Y, lo.Z), p(lo.X, hi.Y, lo.Z), p(lo.X, hi.Y, hi.Z), p(lo.X, lo.Y, hi.Z)},
		{p(hi.X, lo.Y, lo.Z), p(hi.X, hi.Y, lo.Z), p(hi.X, hi.Y, hi.Z), p(hi.X, lo.Y, hi.Z)},
	}
}
