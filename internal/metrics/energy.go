package metrics

import (
	"math"

	"github.com/san-kum/magbasin/internal/dynamo"
)

// Metric is a running statistic fed by a simulator as an observer.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// Energy reports the total energy of the last observed state.
type Energy struct {
	name    string
	dyn     dynamo.Hamiltonian
	samples int
	current float64
	minimum float64
}

func NewEnergy(dyn dynamo.Hamiltonian) *Energy {
	return &Energy{name: "energy", dyn: dyn}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnStep(step int, x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)
	if e.samples == 0 || energy < e.minimum {
		e.minimum = energy
	}
	e.current = energy
	e.samples++
}

func (e *Energy) Value() float64 { return e.current }

// Min is the lowest energy seen so far.
func (e *Energy) Min() float64 { return e.minimum }

func (e *Energy) Reset() {
	e.samples = 0
	e.current = 0
	e.minimum = 0
}

// EnergyDrift is the largest relative deviation from the first observed
// energy. With friction it measures dissipation; without it, integration error.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	dyn           dynamo.Hamiltonian
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnStep(step int, x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
