package series

import "codeberg.org/nfehr/enviroctl/internal/errors"

// Reading is a single nullable sample. Sensors occasionally produce no
// usable value (bus glitch, warm-up), in which case Valid is false.
type Reading struct {
	Value float64
	Valid bool
}

// Value returns a valid Reading holding v.
func Value(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// Null returns an invalid (empty) Reading.
func Null() Reading {
	return Reading{}
}

// Series is a fixed-capacity, insertion-ordered buffer of recent samples
// for one metric. It always holds exactly its capacity: it is created
// pre-filled with a default reading, and appending evicts the oldest
// sample first.
//
// Series is not safe for concurrent use; each instance has a single
// owner and a single writer.
type Series struct {
	capacity int
	def      Reading
	samples  []Reading
}

// New creates a Series pre-filled with capacity copies of def.
func New(capacity int, def Reading) (*Series, error) {
	if capacity <= 0 {
		return nil, errors.New().WithData(errors.ErrInvalidArgument, struct {
			Field string
			Value int
		}{
			Field: "capacity",
			Value: capacity,
		})
	}

	samples := make([]Reading, capacity)
	for i := range samples {
		samples[i] = def
	}

	return &Series{
		capacity: capacity,
		def:      def,
		samples:  samples,
	}, nil
}

// Append adds r as the newest sample, evicting the oldest.
func (s *Series) Append(r Reading) {
	s.samples = append(s.samples, r)
	if len(s.samples) > s.capacity {
		s.samples = s.samples[1:]
	}
}

// Latest returns the most recently appended sample, or the default fill
// if nothing has been appended yet.
func (s *Series) Latest() Reading {
	return s.samples[len(s.samples)-1]
}

// Values returns a copy of the buffered samples, oldest first.
func (s *Series) Values() []Reading {
	out := make([]Reading, len(s.samples))
	copy(out, s.samples)

	return out
}

// Capacity returns the fixed buffer size.
func (s *Series) Capacity() int {
	return s.capacity
}

// Default returns the reading used to pre-fill empty slots.
func (s *Series) Default() Reading {
	return s.def
}
