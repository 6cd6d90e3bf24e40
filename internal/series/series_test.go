package series_test

import (
	"testing"

	"codeberg.org/nfehr/enviroctl/internal/errors"
	"codeberg.org/nfehr/enviroctl/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		_, err := series.New(capacity, series.Null())
		require.Error(t, err, "capacity %d", capacity)
		assert.Equal(t, errors.ErrInvalidArgument, errors.CodeOf(err))
	}
}

func TestNewPreFillsWithDefault(t *testing.T) {
	def := series.Value(1)
	s, err := series.New(8, def)
	require.NoError(t, err)

	values := s.Values()
	require.Len(t, values, 8)
	for _, v := range values {
		assert.Equal(t, def, v)
	}
	assert.Equal(t, def, s.Latest(), "Latest before any append is the default fill")
}

func TestAppendKeepsLengthAtCapacity(t *testing.T) {
	s, err := series.New(5, series.Null())
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		s.Append(series.Value(float64(i)))
		assert.Len(t, s.Values(), 5)
	}
}

func TestAppendOrderAndEviction(t *testing.T) {
	const capacity = 4
	s, err := series.New(capacity, series.Null())
	require.NoError(t, err)

	// Fill exactly to capacity: samples appear oldest-first.
	for i := 1; i <= capacity; i++ {
		s.Append(series.Value(float64(i)))
	}
	want := []series.Reading{
		series.Value(1), series.Value(2), series.Value(3), series.Value(4),
	}
	assert.Equal(t, want, s.Values())

	// One more append evicts the oldest.
	s.Append(series.Value(5))
	want = []series.Reading{
		series.Value(2), series.Value(3), series.Value(4), series.Value(5),
	}
	assert.Equal(t, want, s.Values())
	assert.Equal(t, series.Value(5), s.Latest())
}

func TestAppendNullReadings(t *testing.T) {
	s, err := series.New(3, series.Value(0))
	require.NoError(t, err)

	s.Append(series.Null())
	assert.Equal(t, series.Null(), s.Latest())
	assert.False(t, s.Latest().Valid)
}

func TestValuesReturnsACopy(t *testing.T) {
	s, err := series.New(3, series.Null())
	require.NoError(t, err)
	s.Append(series.Value(7))

	values := s.Values()
	values[0] = series.Value(99)

	assert.NotEqual(t, series.Value(99), s.Values()[0], "mutating the copy must not affect the buffer")
}

func TestTwelveAppendsIntoCapacityTen(t *testing.T) {
	s, err := series.New(10, series.Null())
	require.NoError(t, err)

	for i := 1; i <= 12; i++ {
		s.Append(series.Value(float64(i)))
	}

	values := s.Values()
	require.Len(t, values, 10)
	for i, v := range values {
		assert.Equal(t, series.Value(float64(i+3)), v)
	}
}
