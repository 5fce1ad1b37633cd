package physics

import (
	"fmt"
	"strings"

	"github.com/san-kum/magbasin/internal/dynamo"
)

// Direction is the polarity of a magnet relative to the bob.
type Direction int

const (
	Attract Direction = iota
	Repel
)

func (d Direction) String() string {
	switch d {
	case Attract:
		return "attract"
	case Repel:
		return "repel"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "attract"/"repel" and the legacy "positive"/"negative".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attract", "positive":
		return Attract, nil
	case "repel", "negative":
		return Repel, nil
	}
	return 0, fmt.Errorf("unknown magnet direction %q", s)
}

// Approximation selects the restoring-force model of the pendulum.
type Approximation int

const (
	// SmallAngle treats the bob as a linear oscillator about the suspension point.
	SmallAngle Approximation = iota
	// Rigorous uses full gravity and keeps the bob on a sphere around the suspension point.
	Rigorous
)

func (a Approximation) String() string {
	switch a {
	case SmallAngle:
		return "small_angle"
	case Rigorous:
		return "rigorous"
	default:
		return fmt.Sprintf("Approximation(%d)", int(a))
	}
}

// ParseApproximation accepts "small_angle"/"rigorous" plus "smallangle" and "rigour".
func ParseApproximation(s string) (Approximation, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "small_angle", "smallangle":
		return SmallAngle, nil
	case "rigorous", "rigour":
		return Rigorous, nil
	}
	return 0, fmt.Errorf("unknown approximation %q", s)
}

type Magnet struct {
	Position dynamo.Vec3
	// Velocity is carried through configuration but magnets are static.
	Velocity  dynamo.Vec3
	Direction Direction
	Strength  float64
}

type Pendulum struct {
	Suspension    dynamo.Vec3
	Mass          float64
	Approximation Approximation
}
