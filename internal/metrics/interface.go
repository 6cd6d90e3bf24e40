package metrics

import (
	"context"
	"time"

	"codeberg.org/nfehr/enviroctl/internal/envdata"
	"codeberg.org/nfehr/enviroctl/internal/series"
)

// Collector records one snapshot per polling cycle.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Repository is the storage side of the collector.
type Repository interface {
	Record(snapshot *Snapshot) error
	Close() error
}

// Snapshot is the newest reading of every metric at one point in time.
// Invalid readings are stored as NULL.
type Snapshot struct {
	Timestamp time.Time
	Readings  map[envdata.Metric]series.Reading
}
