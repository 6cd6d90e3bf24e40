package device

import (
	"math/rand"
)

// Sim produces random readings inside the physical limits of the real
// components. It stands in for the board on machines without the
// hardware, and backs the channels the hardware device cannot serve.
type Sim struct {
	rng *rand.Rand
}

// NewSim creates a simulated board seeded with src. A zero seed yields a
// deterministic sequence, which the tests rely on only for range checks.
func NewSim(seed int64) *Sim {
	return &Sim{rng: rand.New(rand.NewSource(seed))}
}

func (s *Sim) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Sim) Temperature() (float64, error) {
	return s.between(BME280TempMin, BME280TempMax), nil
}

func (s *Sim) Pressure() (float64, error) {
	return s.between(BME280PressMin, BME280PressMax), nil
}

func (s *Sim) Humidity() (float64, error) {
	return s.between(BME280HumidMin, BME280HumidMax), nil
}

func (s *Sim) Lux() (float64, error) {
	return s.between(LTR559LuxMin, LTR559LuxMax), nil
}

func (s *Sim) Proximity() (float64, error) {
	// Mostly idle, with the occasional tap.
	if s.rng.Intn(20) == 0 {
		return ProximityLimit + 1, nil
	}

	return s.between(0, ProximityLimit/2), nil
}

func (s *Sim) Gas() (GasReading, error) {
	return GasReading{
		Oxidising: s.between(1, 100),
		Reducing:  s.between(100, 1500),
		NH3:       s.between(10, 500),
	}, nil
}

func (s *Sim) Particles() (ParticleReading, error) {
	return ParticleReading{
		PM1:  s.between(PMS5003Min, PMS5003Max),
		PM25: s.between(PMS5003Min, PMS5003Max),
		PM10: s.between(PMS5003Min, PMS5003Max),
	}, nil
}

func (s *Sim) CPUTemperature() (float64, error) {
	return s.between(35, 65), nil
}

func (*Sim) Close() error {
	return nil
}
