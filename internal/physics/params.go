package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/fountain/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultGravityY       = -9.778
	DefaultLinks          = 50
	DefaultTotalMass      = 0.5
	DefaultTotalLength    = 1.0
	DefaultStiffness      = 1e4
	DefaultDamping        = 5.0
	DefaultPileMultiplier = 2.0
	DefaultXMin           = 0.0
	DefaultXMax           = 0.2

	// WallRestitution scales and reverses vx on a wall hit.
	WallRestitution = 0.5
)

// Physical holds the primary quantities a chain is built from.
type Physical struct {
	Gravity        r2.Vec
	Links          int
	TotalMass      float64
	TotalLength    float64
	Stiffness      float64
	Damping        float64
	PileMultiplier float64
	XMin, XMax     float64
}

func DefaultPhysical() Physical {
	return Physical{
		Gravity:        r2.Vec{X: 0, Y: DefaultGravityY},
		Links:          DefaultLinks,
		TotalMass:      DefaultTotalMass,
		TotalLength:    DefaultTotalLength,
		Stiffness:      DefaultStiffness,
		Damping:        DefaultDamping,
		PileMultiplier: DefaultPileMultiplier,
		XMin:           DefaultXMin,
		XMax:           DefaultXMax,
	}
}

// Params is the resolved, immutable parameter set of a chain. Derived
// quantities are computed once by NewParams.
type Params struct {
	phys       Physical
	linkMass   float64
	restLength float64
	density    float64
	pileHeight float64
}

// NewParams validates ph and derives the per-link constants.
func NewParams(ph Physical) (Params, error) {
	if err := ph.validate(); err != nil {
		return Params{}, err
	}

	rest := 0.0
	if ph.Links > 1 {
		rest = ph.TotalLength / float64(ph.Links-1)
	}

	return Params{
		phys:       ph,
		linkMass:   ph.TotalMass / float64(ph.Links),
		restLength: rest,
		density:    ph.TotalMass / ph.TotalLength,
		pileHeight: rest * ph.PileMultiplier,
	}, nil
}

// MustParams is NewParams for known-good inputs such as defaults and presets.
func MustParams(ph Physical) Params {
	p, err := NewParams(ph)
	if err != nil {
		panic(err)
	}
	return p
}

func (ph Physical) validate() error {
	switch {
	case ph.Links < 1:
		return dynamo.Bounds("links", float64(ph.Links), ">= 1")
	case !(ph.TotalMass > 0):
		return dynamo.Bounds("total_mass", ph.TotalMass, "> 0")
	case !(ph.TotalLength > 0):
		return dynamo.Bounds("total_length", ph.TotalLength, "> 0")
	case !(ph.Stiffness >= 0):
		return dynamo.Bounds("stiffness", ph.Stiffness, ">= 0")
	case !(ph.Damping >= 0):
		return dynamo.Bounds("damping", ph.Damping, ">= 0")
	case !(ph.PileMultiplier >= 0):
		return dynamo.Bounds("pile_multiplier", ph.PileMultiplier, ">= 0")
	case !(ph.XMin <= ph.XMax):
		return dynamo.Bounds("x_max", ph.XMax, ">= x_min")
	case !finite(ph.Gravity.X) || !finite(ph.Gravity.Y):
		return dynamo.Bounds("gravity", r2.Norm(ph.Gravity), "finite")
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (p Params) Physical() Physical   { return p.phys }
func (p Params) Gravity() r2.Vec      { return p.phys.Gravity }
func (p Params) Links() int           { return p.phys.Links }
func (p Params) TotalMass() float64   { return p.phys.TotalMass }
func (p Params) TotalLength() float64 { return p.phys.TotalLength }
func (p Params) Stiffness() float64   { return p.phys.Stiffness }
func (p Params) Damping() float64     { return p.phys.Damping }
func (p Params) XMin() float64        { return p.phys.XMin }
func (p Params) XMax() float64        { return p.phys.XMax }

// LinkMass is total_mass / N.
func (p Params) LinkMass() float64 { return p.linkMass }

// RestLength is total_length / (N-1), zero for a single link.
func (p Params) RestLength() float64 { return p.restLength }

// Density is the linear mass density total_mass / total_length.
func (p Params) Density() float64 { return p.density }

// PileHeight is the y below which a link counts as still in the pile.
func (p Params) PileHeight() float64 { return p.pileHeight }

// GetParams reports the resolved parameters by name.
func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity_x":   p.phys.Gravity.X,
		"gravity_y":   p.phys.Gravity.Y,
		"links":       float64(p.phys.Links),
		"total_mass":  p.phys.TotalMass,
		"length":      p.phys.TotalLength,
		"k":           p.phys.Stiffness,
		"damping":     p.phys.Damping,
		"link_mass":   p.linkMass,
		"rest_length": p.restLength,
		"density":     p.density,
		"pile_height": p.pileHeight,
		"x_min":       p.phys.XMin,
		"x_max":       p.phys.XMax,
	}
}

// With returns a copy of ph with one field replaced, addressed by the
// same names GetParams reports. The result is not validated.
func (ph Physical) With(name string, value float64) (Physical, error) {
	switch name {
	case "gravity_x":
		ph.Gravity.X = value
	case "gravity_y":
		ph.Gravity.Y = value
	case "links":
		ph.Links = int(value)
	case "total_mass":
		ph.TotalMass = value
	case "length":
		ph.TotalLength = value
	case "k":
		ph.Stiffness = value
	case "damping":
		ph.Damping = value
	case "pile_multiplier":
		ph.PileMultiplier = value
	case "x_min":
		ph.XMin = value
	case "x_max":
		ph.XMax = value
	default:
		return ph, fmt.Errorf("%w: unknown parameter %q", dynamo.ErrParameterBounds, name)
	}
	return ph, nil
}
