package sim

import (
	"fmt"

	"github.com/san-kum/magbasin/internal/dynamo"
)

// Config holds the per-trajectory integration and termination settings.
type Config struct {
	TimeStep float64
	MaxSteps int
	// CaptureRadius is the strict contact radius. Nothing classifies on it yet;
	// see PhysicalCapture.
	CaptureRadius float64
	// BasinRadius gates the energy check: it only runs when the bob is this
	// close to its nearest magnet.
	BasinRadius   float64
	CheckInterval int
}

func DefaultConfig() Config {
	return Config{
		TimeStep:      0.01,
		MaxSteps:      5000,
		CaptureRadius: 0.15,
		BasinRadius:   2.0,
		CheckInterval: 5,
	}
}

func (c Config) Validate() error {
	if c.TimeStep <= 0 {
		return dynamo.Invalid("time_step", c.TimeStep)
	}
	if c.MaxSteps <= 0 {
		return dynamo.Invalid("max_steps", c.MaxSteps)
	}
	if c.CaptureRadius <= 0 {
		return dynamo.Invalid("capture_radius", c.CaptureRadius)
	}
	if c.BasinRadius < c.CaptureRadius {
		return dynamo.Invalid("basin_radius", c.BasinRadius)
	}
	if c.CheckInterval < 1 {
		return dynamo.Invalid("check_interval", c.CheckInterval)
	}
	return nil
}

// EndReason is the terminal state of a trajectory.
type EndReason int

const (
	MaxStepsReached EndReason = iota
	// PhysicalCapture is reserved for a contact rule based on CaptureRadius.
	// No code path produces it.
	PhysicalCapture
	EnergyTrap
	OutOfBounds
)

var endReasonNames = [...]string{
	MaxStepsReached: "max_steps",
	PhysicalCapture: "physical_capture",
	EnergyTrap:      "energy_trap",
	OutOfBounds:     "out_of_bounds",
}

func (r EndReason) String() string {
	if r >= 0 && int(r) < len(endReasonNames) {
		return endReasonNames[r]
	}
	return fmt.Sprintf("EndReason(%d)", int(r))
}

func (r EndReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *EndReason) UnmarshalText(b []byte) error {
	for i, name := range endReasonNames {
		if name == string(b) {
			*r = EndReason(i)
			return nil
		}
	}
	return fmt.Errorf("unknown end reason %q", b)
}

// EndReasons lists every terminal state in declaration order.
func EndReasons() []EndReason {
	return []EndReason{MaxStepsReached, PhysicalCapture, EnergyTrap, OutOfBounds}
}

// NoMagnet marks a result without a captured magnet.
const NoMagnet = -1

type Result struct {
	Captured      int
	FinalPosition dynamo.Vec3
	Steps         int
	Reason        EndReason
}

// CapturedMagnet returns the captured magnet index, if any.
func (r Result) CapturedMagnet() (int, bool) {
	return r.Captured, r.Captured >= 0
}
