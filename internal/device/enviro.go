package device

import (
	"io"
	"os"
	"strconv"
	"strings"

	"codeberg.org/nfehr/enviroctl/internal/errors"
	"codeberg.org/nfehr/enviroctl/internal/logger"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

const (
	bme280Addr = 0x76

	cpuTempPath = "/sys/class/thermal/thermal_zone0/temp"
	milliDegree = 1000.0
)

// Options selects the buses the board is attached to. Zero values use
// the platform defaults.
type Options struct {
	// I2CBus is the bus name for i2creg.Open; empty selects the first
	// available bus.
	I2CBus string

	// SerialPort is the particulate sensor's UART device. Empty disables
	// the particulate channel.
	SerialPort string
}

// Enviro reads the physical add-on board. The BME280 is driven over I2C
// and the PMS5003 over serial; the light and gas channels have no driver
// available and fall back to simulated values.
type Enviro struct {
	bus      i2c.BusCloser
	bme      *bmxx80.Dev
	pmsPort  io.ReadWriteCloser
	pms      *pmsReader
	fallback *Sim
}

// New opens the board. The BME280 is required; the particulate sensor is
// attached only when opts.SerialPort is set.
func New(opts Options) (*Enviro, error) {
	errFactory := errors.New()

	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(errors.ErrSensorInit, err)
	}

	bus, err := i2creg.Open(opts.I2CBus)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrBusUnopened, err)
	}

	bme, err := bmxx80.NewI2C(bus, bme280Addr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, errFactory.Wrap(errors.ErrSensorInit, err)
	}
	logger.Debug().Str("bus", bus.String()).Msg("BME280 initialized")

	e := &Enviro{
		bus:      bus,
		bme:      bme,
		fallback: NewSim(1),
	}

	if opts.SerialPort != "" {
		port, err := openPMS5003(opts.SerialPort)
		if err != nil {
			bme.Halt()
			bus.Close()
			return nil, err
		}
		e.pmsPort = port
		e.pms = &pmsReader{r: port}
		logger.Debug().Str("port", opts.SerialPort).Msg("PMS5003 attached")
	}

	return e, nil
}

func (e *Enviro) sense() (physic.Env, error) {
	var env physic.Env
	if err := e.bme.Sense(&env); err != nil {
		return physic.Env{}, errors.New().Wrap(errors.ErrSensorRead, err)
	}

	return env, nil
}

func (e *Enviro) Temperature() (float64, error) {
	env, err := e.sense()
	if err != nil {
		return 0, err
	}

	return env.Temperature.Celsius(), nil
}

func (e *Enviro) Pressure() (float64, error) {
	env, err := e.sense()
	if err != nil {
		return 0, err
	}

	// physic stores pressure in nano-Pascal units; 1 hPa = 100 Pa.
	return float64(env.Pressure) / float64(physic.Pascal) / 100, nil
}

func (e *Enviro) Humidity() (float64, error) {
	env, err := e.sense()
	if err != nil {
		return 0, err
	}

	return float64(env.Humidity) / float64(physic.PercentRH), nil
}

func (e *Enviro) Lux() (float64, error) {
	return e.fallback.Lux()
}

func (e *Enviro) Proximity() (float64, error) {
	return e.fallback.Proximity()
}

func (e *Enviro) Gas() (GasReading, error) {
	return e.fallback.Gas()
}

func (e *Enviro) Particles() (ParticleReading, error) {
	if e.pms == nil {
		return e.fallback.Particles()
	}

	return e.pms.Read()
}

// CPUTemperature reads the host CPU temperature from sysfs.
func (e *Enviro) CPUTemperature() (float64, error) {
	raw, err := os.ReadFile(cpuTempPath)
	if err != nil {
		return 0, errors.New().Wrap(errors.ErrSensorRead, err)
	}

	milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, errors.New().Wrap(errors.ErrSensorRead, err)
	}

	return milli / milliDegree, nil
}

func (e *Enviro) Close() error {
	var firstErr error

	if e.pmsPort != nil {
		if err := e.pmsPort.Close(); err != nil {
			firstErr = err
		}
	}
	if err := e.bme.Halt(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.bus.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	if firstErr != nil {
		return errors.New().Wrap(errors.ErrShutdownFailed, firstErr)
	}

	return nil
}
