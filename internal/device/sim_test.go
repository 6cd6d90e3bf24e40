package device_test

import (
	"testing"

	"codeberg.org/nfehr/enviroctl/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimReadingsWithinPhysicalRanges(t *testing.T) {
	sim := device.NewSim(42)

	for i := 0; i < 100; i++ {
		temp, err := sim.Temperature()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, temp, device.BME280TempMin)
		assert.LessOrEqual(t, temp, device.BME280TempMax)

		press, err := sim.Pressure()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, press, device.BME280PressMin)
		assert.LessOrEqual(t, press, device.BME280PressMax)

		humid, err := sim.Humidity()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, humid, device.BME280HumidMin)
		assert.LessOrEqual(t, humid, device.BME280HumidMax)

		lux, err := sim.Lux()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, lux, device.LTR559LuxMin)
		assert.LessOrEqual(t, lux, device.LTR559LuxMax)

		particles, err := sim.Particles()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, particles.PM1, device.PMS5003Min)
		assert.LessOrEqual(t, particles.PM10, device.PMS5003Max)
	}
}

func TestSimProximityEventuallyTaps(t *testing.T) {
	sim := device.NewSim(7)

	tapped := false
	for i := 0; i < 1000; i++ {
		prox, err := sim.Proximity()
		require.NoError(t, err)
		if prox > device.ProximityLimit {
			tapped = true
			break
		}
	}

	assert.True(t, tapped, "expected at least one simulated tap in 1000 reads")
}

func TestSimGasChannelsPositive(t *testing.T) {
	sim := device.NewSim(1)

	gas, err := sim.Gas()
	require.NoError(t, err)
	assert.Positive(t, gas.Oxidising)
	assert.Positive(t, gas.Reducing)
	assert.Positive(t, gas.NH3)
}

func TestSimClose(t *testing.T) {
	sim := device.NewSim(0)
	require.NoError(t, sim.Close())
}
