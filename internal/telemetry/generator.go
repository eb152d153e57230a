package telemetry

// Rand is the random source used for tick perturbation. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// DefaultSignalFloor is the lowest signal strength a drone can report.
const DefaultSignalFloor = 50.0

// Drift bounds the per-tick random deltas.
type Drift struct {
	BatteryDrainMax float64 `yaml:"battery_drain_max"`
	AltitudeStep    float64 `yaml:"altitude_step"`
	CoordStep       float64 `yaml:"coord_step"`
	SignalStep      float64 `yaml:"signal_step"`
}

// DefaultDrift matches a 2s dashboard refresh: up to 0.5% battery per tick,
// ±1m altitude, ±0.00005° position and ±1% signal.
func DefaultDrift() Drift {
	return Drift{
		BatteryDrainMax: 0.5,
		AltitudeStep:    1,
		CoordStep:       0.00005,
		SignalStep:      1,
	}
}

// Generator applies the randomized tick update to drones.
type Generator struct {
	drift       Drift
	signalFloor float64
	rand        Rand
}

// NewGenerator creates a generator drawing from r.
func NewGenerator(drift Drift, signalFloor float64, r Rand) *Generator {
	return &Generator{drift: drift, signalFloor: signalFloor, rand: r}
}

// SignalFloor returns the configured minimum signal strength.
func (g *Generator) SignalFloor() float64 {
	return g.signalFloor
}

// Perturb returns the post-tick state of d. Draws are taken in a fixed order:
// battery, altitude, latitude, longitude, signal. Identity, name, status and
// embedded alerts are carried over unchanged.
func (g *Generator) Perturb(d Drone) Drone {
	next := d.Clone()

	next.Battery = d.Battery - g.uniform(0, g.drift.BatteryDrainMax)
	if next.Battery < 0 {
		next.Battery = 0
	}

	next.Position.Alt = d.Position.Alt + g.uniform(-g.drift.AltitudeStep, g.drift.AltitudeStep)
	next.Position.Lat = d.Position.Lat + g.uniform(-g.drift.CoordStep, g.drift.CoordStep)
	next.Position.Lon = d.Position.Lon + g.uniform(-g.drift.CoordStep, g.drift.CoordStep)

	next.SignalStrength = d.SignalStrength + g.uniform(-g.drift.SignalStep, g.drift.SignalStep)
	if next.SignalStrength < g.signalFloor {
		next.SignalStrength = g.signalFloor
	}
	return next
}

// uniform draws from [a, b].
func (g *Generator) uniform(a, b float64) float64 {
	return a + (b-a)*g.rand.Float64()
}
