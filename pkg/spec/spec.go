package spec

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the file name LoadProject looks for.
const ProjectFile = "building.yaml"

// ErrUnknownParameter is returned by FromValues for unrecognised keys.
var ErrUnknownParameter = errors.New("unknown parameter")

// Load reads a building project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	project := Project{Building: DefaultParameters()}
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parsing project YAML: %w", err)
	}

	return &project, nil
}

// LoadProject loads a building project from a project directory.
// It looks for building.yaml in the given directory.
func LoadProject(projectDir string) (*Project, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}

// FromValues applies URL query values on top of base. Keys that are
// absent keep the base value.
func FromValues(base BuildingParameters, v url.Values) (BuildingParameters, error) {
	p := base
	for key, vals := range v {
		if len(vals) == 0 {
			continue
		}
		raw := vals[len(vals)-1]

		var err error
		switch key {
		case "width":
			p.Width, err = strconv.ParseFloat(raw, 64)
		case "length":
			p.Length, err = strconv.ParseFloat(raw, 64)
		case "floors":
			p.Floors, err = strconv.Atoi(raw)
		case "glazing_ratio":
			p.GlazingRatio, err = strconv.ParseFloat(raw, 64)
		case "facade_color":
			p.FacadeColor, err = ParseHexColor(raw)
		case "typology":
			p.Typology = Typology(raw)
		case "materials":
			p.MaterialChoice = MaterialChoice(raw)
		default:
			return base, fmt.Errorf("%w: %s", ErrUnknownParameter, key)
		}
		if err != nil {
			return base, fmt.Errorf("parameter %s: %w", key, err)
		}
	}
	return p, nil
}

// Values encodes p as URL query values, the inverse of FromValues.
// The access token is never included.
func (p BuildingParameters) Values() url.Values {
	v := url.Values{}
	v.Set("width", strconv.FormatFloat(p.Width, 'f', -1, 64))
	v.Set("length", strconv.FormatFloat(p.Length, 'f', -1, 64))
	v.Set("floors", strconv.Itoa(p.Floors))
	v.Set("glazing_ratio", strconv.FormatFloat(p.GlazingRatio, 'f', -1, 64))
	v.Set("facade_color", p.FacadeColor.Hex())
	v.Set("typology", string(p.Typology))
	v.Set("materials", string(p.MaterialChoice))
	return v
}
