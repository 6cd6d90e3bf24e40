package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/nfehr/enviroctl/internal/config"
	"codeberg.org/nfehr/enviroctl/internal/device"
	"codeberg.org/nfehr/enviroctl/internal/envdata"
	"codeberg.org/nfehr/enviroctl/internal/logger"
	"codeberg.org/nfehr/enviroctl/internal/metrics"
	"codeberg.org/nfehr/enviroctl/internal/pid"
	"codeberg.org/nfehr/enviroctl/internal/screen"
	"codeberg.org/nfehr/enviroctl/internal/series"
	"codeberg.org/nfehr/enviroctl/internal/units"
)

const (
	lcdWidth  = 160
	lcdHeight = 80

	pms5003Port = "/dev/ttyAMA0"

	// Taps within this window of the previous one are the same gesture.
	tapDebounce = 500 * time.Millisecond

	progressPeriod = 60 * time.Second
)

var (
	cfg       *config.Config
	sensors   device.Sensors
	registry  *envdata.Registry
	scr       *screen.Screen
	collector metrics.Collector
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")

	sensors = openSensors()

	registry, err = envdata.NewRegistry(cfg.Capacity, series.Value(cfg.DefaultFill))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create metric registry")
	}

	scr, err = screen.New(screen.NewMemory(lcdWidth, lcdHeight), screen.Config{
		Rotation: cfg.Rotation,
		Mode:     screen.Mode(cfg.Display),
		Progress: cfg.Progress,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize display")
	}

	metricsCfg := metrics.DefaultConfig()
	metricsCfg.DBPath = cfg.Database
	metricsCfg.Enabled = cfg.Metrics
	collector, err = metrics.NewService(metricsCfg, logger.Default())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics collector")
	}
}

// openSensors attaches the physical board, or the simulator when running
// with --fake or when the hardware is not reachable.
func openSensors() device.Sensors {
	if cfg.Fake {
		logger.Info().Msg("Using simulated sensors")

		return device.NewSim(time.Now().UnixNano())
	}

	board, err := device.New(device.Options{SerialPort: pms5003Port})
	if err != nil {
		logger.Warn().Err(err).Msg("Board not reachable, falling back to simulated sensors")

		return device.NewSim(time.Now().UnixNano())
	}

	return board
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	cleanup()
}

func loop(ctx context.Context) error {
	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		polls      int
		lastTap    time.Time
		lastActive = time.Now()
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snapshot := poll()

			if err := registry.Append(envdata.Temperature, compensated(snapshot)); err != nil {
				return err
			}
			for m, r := range snapshot.Readings {
				if m == envdata.Temperature {
					continue
				}
				if err := registry.Append(m, r); err != nil {
					return err
				}
			}

			if tapped() && time.Since(lastTap) > tapDebounce {
				lastTap = time.Now()
				lastActive = lastTap
				mode := scr.CycleMode(1)
				logger.Info().Str("mode", string(mode)).Msg("Display mode changed")
			}

			idle := cfg.Sleep > 0 && time.Since(lastActive) > time.Duration(cfg.Sleep)*time.Second
			if err := scr.UpdateSleep(idle); err != nil {
				return err
			}

			if err := render(); err != nil {
				return err
			}

			if err := collector.Record(ctx, snapshot); err != nil {
				logger.Error().Err(err).Msg("failed to record snapshot")
			}

			logReadings(snapshot)

			polls++
			if cfg.Uploads > 0 && polls >= cfg.Uploads {
				logger.Info().Int("polls", polls).Msg("Requested poll count reached")

				return nil
			}
		}
	}
}

// poll reads every channel of the board once. A failed channel becomes a
// null reading instead of aborting the cycle.
func poll() *metrics.Snapshot {
	readings := make(map[envdata.Metric]series.Reading, len(envdata.Metrics()))

	read := func(m envdata.Metric, f func() (float64, error)) {
		v, err := f()
		if err != nil {
			logger.Warn().Err(err).Str("metric", string(m)).Msg("sensor read failed")
			readings[m] = series.Null()

			return
		}
		readings[m] = series.Value(v)
	}

	read(envdata.Temperature, sensors.Temperature)
	read(envdata.Pressure, sensors.Pressure)
	read(envdata.Humidity, sensors.Humidity)
	read(envdata.Light, sensors.Lux)

	gas, err := sensors.Gas()
	if err != nil {
		logger.Warn().Err(err).Msg("gas read failed")
		readings[envdata.Oxidised] = series.Null()
		readings[envdata.Reduced] = series.Null()
		readings[envdata.Ammonia] = series.Null()
	} else {
		readings[envdata.Oxidised] = series.Value(gas.Oxidising)
		readings[envdata.Reduced] = series.Value(gas.Reducing)
		readings[envdata.Ammonia] = series.Value(gas.NH3)
	}

	particles, err := sensors.Particles()
	if err != nil {
		logger.Warn().Err(err).Msg("particulate read failed")
		readings[envdata.PM1] = series.Null()
		readings[envdata.PM25] = series.Null()
		readings[envdata.PM10] = series.Null()
	} else {
		readings[envdata.PM1] = series.Value(particles.PM1)
		readings[envdata.PM25] = series.Value(particles.PM25)
		readings[envdata.PM10] = series.Value(particles.PM10)
	}

	return &metrics.Snapshot{
		Timestamp: time.Now(),
		Readings:  readings,
	}
}

// compensated corrects the raw board temperature for CPU heat bleed.
// Buffered temperatures stay in Celsius; conversion happens at render.
func compensated(snapshot *metrics.Snapshot) series.Reading {
	raw := snapshot.Readings[envdata.Temperature]
	if !raw.Valid || cfg.TempComp == 0 {
		return raw
	}

	cpu, err := sensors.CPUTemperature()
	if err != nil {
		logger.Warn().Err(err).Msg("CPU temperature read failed, skipping compensation")

		return raw
	}

	return series.Value(units.CompensateTemperature(raw.Value, cpu, cfg.TempComp))
}

func tapped() bool {
	prox, err := sensors.Proximity()
	if err != nil {
		return false
	}

	return prox > device.ProximityLimit
}

func render() error {
	mode := scr.Mode()

	unit := units.TempUnit(cfg.TempUnit)

	switch {
	case mode.IsGraph():
		metric, err := mode.Metric()
		if err != nil {
			return err
		}
		ds, err := preparedForDisplay(metric, scr.Width(), unit)
		if err != nil {
			return err
		}
		// The scale spans the full buffered history, converted the same
		// way as the rendered slice so both share one unit.
		full, err := preparedForDisplay(metric, 0, unit)
		if err != nil {
			return err
		}
		lo, hi := full.MinMax()
		if err := scr.DrawGraph(ds, lo, hi); err != nil {
			return err
		}
	case mode == screen.ModeText:
		datasets := make([]envdata.Dataset, 0, len(envdata.Metrics()))
		for _, m := range envdata.Metrics() {
			ds, err := preparedForDisplay(m, 1, unit)
			if err != nil {
				return err
			}
			datasets = append(datasets, ds)
		}
		if err := scr.DrawText(datasets); err != nil {
			return err
		}
	default:
		if err := scr.Sparkle(); err != nil {
			return err
		}
	}

	elapsed := time.Now().UnixMilli() % progressPeriod.Milliseconds()
	fraction := float64(elapsed) / float64(progressPeriod.Milliseconds())

	return scr.DrawProgress(fraction)
}

// preparedForDisplay pulls the last n scrubbed samples of a metric and
// converts them into the configured display unit and rounding.
func preparedForDisplay(m envdata.Metric, n int, unit units.TempUnit) (envdata.Dataset, error) {
	ds, err := registry.Prepared(m, n)
	if err != nil {
		return envdata.Dataset{}, err
	}

	return ds.ForDisplay(unit, cfg.Rounding)
}

func logReadings(snapshot *metrics.Snapshot) {
	if !cfg.Debug && !cfg.Verbose {
		return
	}

	event := logger.Info().Event
	for _, m := range envdata.Metrics() {
		r := snapshot.Readings[m]
		if r.Valid {
			event = event.Float64(string(m), r.Value)
		} else {
			event = event.Str(string(m), "null")
		}
	}
	event.Msg("")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup() {
	if err := scr.Halt(); err != nil {
		logger.Error().Err(err).Msg("failed to halt display")
	}
	if err := sensors.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close sensors")
	}
	if err := collector.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close metrics collector")
	}
	logger.Info().Msg("Exiting...")
}
