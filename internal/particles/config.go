package particles

// DefaultCount is the number of particles in the site background.
const DefaultCount = 150

// Config holds the simulation constants. Zero-valued fields are filled in by
// withDefaults, except Count and Seed which are taken as given.
type Config struct {
	Count int

	// Bounds is the half-extent of the volume on each axis.
	Bounds Vec3
	// Speed is the full width of the uniform velocity range per axis.
	Speed Vec3

	ConnectionThreshold float64
	MaxConnections      int

	RepulsionRadius float64
	RepulsionForce  float64

	FloatAmplitude float64
	FloatFrequency float64 // radians per second
	FloatPhase     float64 // radians per particle index

	// Seed for the initial layout. Zero picks a time-based seed.
	Seed int64
}

// DefaultConfig returns the constants the site background runs with.
func DefaultConfig() Config {
	return Config{
		Count:               DefaultCount,
		Bounds:              Vec3{10, 10, 5},
		Speed:               Vec3{0.01, 0.01, 0.005},
		ConnectionThreshold: 2.5,
		MaxConnections:      3,
		RepulsionRadius:     3,
		RepulsionForce:      0.05,
		FloatAmplitude:      0.002,
		FloatFrequency:      0.5,
		FloatPhase:          0.1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Count < 0 {
		c.Count = 0
	}
	if c.Bounds == (Vec3{}) {
		c.Bounds = d.Bounds
	}
	if c.Speed == (Vec3{}) {
		c.Speed = d.Speed
	}
	if c.ConnectionThreshold <= 0 {
		c.ConnectionThreshold = d.ConnectionThreshold
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = d.MaxConnections
	}
	if c.RepulsionRadius <= 0 {
		c.RepulsionRadius = d.RepulsionRadius
	}
	if c.RepulsionForce == 0 {
		c.RepulsionForce = d.RepulsionForce
	}
	if c.FloatAmplitude == 0 {
		c.FloatAmplitude = d.FloatAmplitude
	}
	if c.FloatFrequency == 0 {
		c.FloatFrequency = d.FloatFrequency
	}
	if c.FloatPhase == 0 {
		c.FloatPhase = d.FloatPhase
	}
	return c
}
