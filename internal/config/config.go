// Package config contains the loader and strongly typed model of a solver
// deck: the yaml document describing one host-with-inclusion computation.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	envparse "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/parkerwray/smuthi-1/convergence"
	"github.com/parkerwray/smuthi-1/ebcm"
	"github.com/parkerwray/smuthi-1/geom"
	"github.com/parkerwray/smuthi-1/translate"
)

// ErrInvalidDeck indicates a deck that fails validation before any
// computation starts.
var ErrInvalidDeck = errors.New("config: invalid deck")

// Complex is a complex number in deck notation.
type Complex struct {
	Re float64 `yaml:"re"`
	Im float64 `yaml:"im"`
}

// Value returns the complex128 the pair denotes.
func (c Complex) Value() complex128 { return complex(c.Re, c.Im) }

// Deck is the root document of a solver run.
type Deck struct {
	// Wavelength is the vacuum wavelength in the deck's length unit.
	Wavelength float64 `yaml:"wavelength"`
	// MediumIndex is the (real) ambient refractive index.
	MediumIndex float64 `yaml:"medium_index"`
	// EnvFiles lists .env files loaded before environment overrides.
	EnvFiles []string `yaml:"env_files,omitempty"`
	// Host describes the outer particle.
	Host HostSpec `yaml:"host"`
	// Inclusion describes the embedded particle.
	Inclusion InclusionSpec `yaml:"inclusion"`
	// Convergence configures the parameter search.
	Convergence ConvergenceSpec `yaml:"convergence"`
	// Output names the result files.
	Output OutputSpec `yaml:"output"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty" env:"TMINCL_LOG_LEVEL"`
}

// HostSpec is the geometry and material of the host particle.
type HostSpec struct {
	// Shape is sphere, spheroid or rounded-cylinder.
	Shape string `yaml:"shape"`
	// Params are the shape parameters, in the order the shape defines.
	Params []float64 `yaml:"params"`
	// Anorm is the cross-section normalization length.
	Anorm float64 `yaml:"anorm"`
	// Rcirc is the circumscribing sphere radius.
	Rcirc float64 `yaml:"rcirc"`
	// Mirror marks equatorial mirror symmetry.
	Mirror bool `yaml:"mirror"`
	// RelativeIndex is the host index relative to the medium.
	RelativeIndex Complex `yaml:"relative_index"`
}

// InclusionSpec locates the inclusion and its precomputed response.
type InclusionSpec struct {
	// TMatrixFile is the binary T-matrix resource of the inclusion,
	// solved in its body frame.
	TMatrixFile string `yaml:"tmatrix_file" env:"TMINCL_INCLUSION_TMATRIX"`
	// Rcirc is the inclusion's circumscribing sphere radius.
	Rcirc float64 `yaml:"rcirc"`
	// Position is the displacement of the inclusion center in the host
	// frame.
	Position Vector `yaml:"position,omitempty"`
	// EulerDeg are the z-y-z body rotation angles, degrees.
	EulerDeg Euler `yaml:"euler_deg,omitempty"`
}

// Vector is a cartesian triple in the deck's length unit.
type Vector struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Euler is a z-y-z angle triple in degrees.
type Euler struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	Gamma float64 `yaml:"gamma"`
}

// ConvergenceSpec configures the discretization search.
type ConvergenceSpec struct {
	// DoConvTest enables the staged search; false solves once at the
	// fixed triple.
	DoConvTest bool `yaml:"do_conv_test"`
	// ExtThetaDom selects the full great-circle cross-section table.
	ExtThetaDom bool `yaml:"ext_theta_dom"`
	// Nint, Nrank, Mrank form the starting (or fixed) triple.
	Nint  int `yaml:"nint"`
	Nrank int `yaml:"nrank"`
	Mrank int `yaml:"mrank"`
	// EpsNint, EpsNrank, EpsMrank are the stage tolerances; zero takes
	// the package default.
	EpsNint  float64 `yaml:"eps_nint,omitempty"`
	EpsNrank float64 `yaml:"eps_nrank,omitempty"`
	EpsMrank float64 `yaml:"eps_mrank,omitempty"`
	// DNint is the quadrature increment per integration probe.
	DNint int `yaml:"dnint,omitempty"`
}

// OutputSpec names the artifacts of a run.
type OutputSpec struct {
	// TMatrixFile receives the compound T-matrix resource.
	TMatrixFile string `yaml:"tmatrix_file" env:"TMINCL_OUTPUT_TMATRIX"`
	// DSCSFile, when set, receives the cross-section table as CSV.
	DSCSFile string `yaml:"dscs_file,omitempty" env:"TMINCL_OUTPUT_DSCS"`
	// DSCSStepDeg is the table's angular step; zero means 1 degree.
	DSCSStepDeg float64 `yaml:"dscs_step_deg,omitempty"`
	// DSCSBetaDeg is the polar incidence angle for the table, degrees.
	DSCSBetaDeg float64 `yaml:"dscs_beta_deg,omitempty"`
}

// Load reads, env-expands and validates a deck. Env files named by the
// deck are loaded first (relative to the deck's directory), then matching
// process environment variables override deck fields.
func Load(path string) (*Deck, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read deck: %w", err)
	}

	var deck Deck
	if err := yaml.Unmarshal(raw, &deck); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	baseDir := filepath.Dir(path)
	for _, name := range deck.EnvFiles {
		p := name
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, name)
		}
		if err := godotenv.Load(p); err != nil {
			return nil, fmt.Errorf("config: load env file %q: %w", p, err)
		}
	}
	if err := envparse.Parse(&deck); err != nil {
		return nil, fmt.Errorf("%w: environment overrides: %v", ErrInvalidDeck, err)
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return &deck, nil
}

// Validate checks everything that can fail before computation.
func (d *Deck) Validate() error {
	if d.Wavelength <= 0 {
		return fmt.Errorf("%w: wavelength must be positive, got %v", ErrInvalidDeck, d.Wavelength)
	}
	if d.MediumIndex <= 0 {
		return fmt.Errorf("%w: medium_index must be positive, got %v", ErrInvalidDeck, d.MediumIndex)
	}
	if d.Host.RelativeIndex.Value() == 0 {
		return fmt.Errorf("%w: host relative_index must be nonzero", ErrInvalidDeck)
	}
	if _, err := d.HostSurface(); err != nil {
		return fmt.Errorf("%w: host geometry: %v", ErrInvalidDeck, err)
	}
	if d.Inclusion.TMatrixFile == "" {
		return fmt.Errorf("%w: inclusion tmatrix_file is required", ErrInvalidDeck)
	}
	if d.Inclusion.Rcirc <= 0 {
		return fmt.Errorf("%w: inclusion rcirc must be positive, got %v", ErrInvalidDeck, d.Inclusion.Rcirc)
	}
	c := d.Convergence
	if c.Nint < 1 || c.Nrank < 1 || c.Mrank < 1 || c.Mrank > c.Nrank {
		return fmt.Errorf("%w: triple (%d, %d, %d)", ErrInvalidDeck, c.Nint, c.Nrank, c.Mrank)
	}
	if d.Output.TMatrixFile == "" {
		return fmt.Errorf("%w: output tmatrix_file is required", ErrInvalidDeck)
	}
	return nil
}

// HostSurface builds the host geometry named by the deck.
func (d *Deck) HostSurface() (geom.Surface, error) {
	kind, err := shapeKind(d.Host.Shape)
	if err != nil {
		return geom.Surface{}, err
	}
	return geom.NewSurface(kind, d.Host.Params, d.Host.Anorm, d.Host.Rcirc, d.Host.Mirror)
}

func shapeKind(name string) (geom.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sphere":
		return geom.Sphere, nil
	case "spheroid":
		return geom.Spheroid, nil
	case "rounded-cylinder", "rounded_cylinder":
		return geom.RoundedCylinder, nil
	default:
		return 0, fmt.Errorf("unknown shape %q", name)
	}
}

// HostParams builds the boundary-assembly parameters of the host.
func (d *Deck) HostParams() (ebcm.Params, error) {
	surf, err := d.HostSurface()
	if err != nil {
		return ebcm.Params{}, err
	}
	return ebcm.Params{
		Wavelength:  d.Wavelength,
		IndexMedium: d.MediumIndex,
		IndexRel:    d.Host.RelativeIndex.Value(),
		Surface:     surf,
	}, nil
}

// Placement builds the inclusion placement, converting angles to radians.
func (d *Deck) Placement() translate.Placement {
	const degToRad = math.Pi / 180
	return translate.Placement{
		X:     d.Inclusion.Position.X,
		Y:     d.Inclusion.Position.Y,
		Z:     d.Inclusion.Position.Z,
		Alpha: d.Inclusion.EulerDeg.Alpha * degToRad,
		Beta:  d.Inclusion.EulerDeg.Beta * degToRad,
		Gamma: d.Inclusion.EulerDeg.Gamma * degToRad,
	}
}

// ConvergenceConfig maps the deck to the controller configuration.
func (d *Deck) ConvergenceConfig() convergence.Config {
	c := d.Convergence
	return convergence.Config{
		Nint:       c.Nint,
		Nrank:      c.Nrank,
		Mrank:      c.Mrank,
		DoConvTest: c.DoConvTest,
		EpsNint:    c.EpsNint,
		EpsNrank:   c.EpsNrank,
		EpsMrank:   c.EpsMrank,
		DNint:      c.DNint,
	}
}
