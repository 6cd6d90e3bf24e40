package device

// GasReading holds the three gas channels of the MICS6814 sensor,
// in kOhm.
type GasReading struct {
	Oxidising float64
	Reducing  float64
	NH3       float64
}

// ParticleReading holds particulate matter concentrations in ug/m3
// under atmospheric conditions.
type ParticleReading struct {
	PM1  float64
	PM25 float64
	PM10 float64
}

// Sensors is the read side of the add-on board. Callers append the
// returned values into an envdata.Registry; nothing here buffers.
type Sensors interface {
	// Temperature returns the board temperature in Celsius.
	Temperature() (float64, error)

	// Pressure returns barometric pressure in hPa.
	Pressure() (float64, error)

	// Humidity returns relative humidity in percent.
	Humidity() (float64, error)

	// Lux returns illumination from the light sensor.
	Lux() (float64, error)

	// Proximity returns the raw proximity value from the light sensor.
	// Values above ProximityLimit count as a "tap" on the board.
	Proximity() (float64, error)

	// Gas returns the three gas channels.
	Gas() (GasReading, error)

	// Particles returns particulate matter concentrations.
	Particles() (ParticleReading, error)

	// CPUTemperature returns the host CPU temperature in Celsius,
	// used to compensate board temperature readings.
	CPUTemperature() (float64, error)

	Close() error
}

// Physical limits of the board's components.
const (
	BME280TempMin  = -40.0 // C
	BME280TempMax  = 85.0
	BME280PressMin = 300.0 // hPa
	BME280PressMax = 1100.0
	BME280HumidMin = 0.0 // %
	BME280HumidMax = 100.0

	LTR559LuxMin = 0.01
	LTR559LuxMax = 64000.0

	PMS5003Min = 0.3 // um
	PMS5003Max = 10.1

	// ProximityLimit is the LTR559 threshold above which a hand over the
	// board counts as a tap.
	ProximityLimit = 1500.0
)
