package spec

// Typology is the building-type label sent to the carbon service.
type Typology string

const (
	TypologyOffice      Typology = "Office"
	TypologyResidential Typology = "Residential"
	TypologyEducation   Typology = "Education"
	TypologyRetail      Typology = "Retail"
	TypologyHotel       Typology = "Hotel"
	TypologyMixedUse    Typology = "Mixed use"
)

// Typologies lists every accepted typology in form order.
var Typologies = []Typology{
	TypologyOffice,
	TypologyResidential,
	TypologyEducation,
	TypologyRetail,
	TypologyHotel,
	TypologyMixedUse,
}

// Valid reports whether t is one of the known typologies.
func (t Typology) Valid() bool {
	for _, known := range Typologies {
		if t == known {
			return true
		}
	}
	return false
}

// MaterialChoice is the structural/finish material strategy.
type MaterialChoice string

const (
	MaterialsLowCarbon    MaterialChoice = "Low-carbon materials"
	MaterialsConventional MaterialChoice = "Conventional materials"
	MaterialsHighCarbon   MaterialChoice = "High-carbon materials"
)

// MaterialChoices lists every accepted material choice in form order.
var MaterialChoices = []MaterialChoice{
	MaterialsLowCarbon,
	MaterialsConventional,
	MaterialsHighCarbon,
}

// Valid reports whether m is one of the known material choices.
func (m MaterialChoice) Valid() bool {
	for _, known := range MaterialChoices {
		if m == known {
			return true
		}
	}
	return false
}

// Form bounds for the numeric inputs.
const (
	MinFloors       = 10
	MaxFloors       = 40
	MinGlazingRatio = 1.0
	MaxGlazingRatio = 99.0
)

// MaxComposeFloors is the hard ceiling on floors. Counts above the form
// range only warn up to this value; beyond it the parameters are invalid.
const MaxComposeFloors = 200

// BuildingParameters is the complete input record for one building.
// Values are never mutated after construction; every build re-derives
// geometry and report from the current parameters.
type BuildingParameters struct {
	Width          float64        `yaml:"width" json:"width"`
	Length         float64        `yaml:"length" json:"length"`
	Floors         int            `yaml:"floors" json:"floors"`
	GlazingRatio   float64        `yaml:"glazing_ratio" json:"glazing_ratio"`
	FacadeColor    RGB            `yaml:"facade_color" json:"facade_color"`
	Typology       Typology       `yaml:"typology" json:"typology"`
	MaterialChoice MaterialChoice `yaml:"materials" json:"materials"`

	// AccessToken is the developer credential for the carbon service.
	// It is injected from configuration and never serialized.
	AccessToken string `yaml:"-" json:"-"`
}

// DefaultParameters returns the form defaults.
func DefaultParameters() BuildingParameters {
	return BuildingParameters{
		Width:          30,
		Length:         40,
		Floors:         16,
		GlazingRatio:   40,
		FacadeColor:    RGB{R: 140, G: 140, B: 140},
		Typology:       TypologyOffice,
		MaterialChoice: MaterialsConventional,
	}
}

// WithAccessToken returns a copy of p carrying the given credential.
func (p BuildingParameters) WithAccessToken(token string) BuildingParameters {
	p.AccessToken = token
	return p
}

// Project is the on-disk project file: default parameters plus
// optional overrides of the massing constants.
type Project struct {
	SpecVersion string             `yaml:"spec_version" json:"spec_version"`
	Name        string             `yaml:"name" json:"name"`
	Building    BuildingParameters `yaml:"building" json:"building"`
	Massing     *MassingDef        `yaml:"massing,omitempty" json:"massing,omitempty"`
}

// MassingDef overrides the storey construction constants. Nil fields
// keep the defaults; an explicit zero is honoured, so facade_offset: 0
// puts the facade flush with the glazing.
type MassingDef struct {
	BaseGlassHeight  *float64 `yaml:"base_glass_height,omitempty" json:"base_glass_height,omitempty"`
	BaseFacadeHeight *float64 `yaml:"base_facade_height,omitempty" json:"base_facade_height,omitempty"`
	FacadeOffset     *float64 `yaml:"facade_offset,omitempty" json:"facade_offset,omitempty"`
	FacadeOverhang   *float64 `yaml:"facade_overhang,omitempty" json:"facade_overhang,omitempty"`
	FloorSpacing     *float64 `yaml:"floor_spacing,omitempty" json:"floor_spacing,omitempty"`
}
