package rateconfig

import (
	"context"
	"time"
)

// ConfigurationRepository defines data access for effective-dated rate rows.
type ConfigurationRepository interface {
	// ListAll returns every configuration row. The snapshot builder resolves
	// effective windows in memory so one query serves a whole payroll run.
	ListAll(ctx context.Context) ([]RateConfiguration, error)

	// ListActiveAsOf returns only the rows whose window contains asOf.
	ListActiveAsOf(ctx context.Context, asOf time.Time) ([]RateConfiguration, error)

	// Upsert inserts a row or, when a row with the same type/key/effective
	// date exists, replaces its value, expiry and description.
	Upsert(ctx context.Context, cfg RateConfiguration) (RateConfiguration, error)
}

// ConfigurationService defines the configuration operations exposed upstream.
type ConfigurationService interface {
	GetActiveAsOf(ctx context.Context, asOf time.Time) (ActiveConfigurationResponse, error)
	Upsert(ctx context.Context, req UpsertConfigurationRequest) (ConfigurationResponse, error)
	BulkUpsert(ctx context.Context, req BulkUpsertConfigurationRequest) ([]ConfigurationResponse, error)

	// SnapshotAsOf loads and resolves the full configuration for one date.
	SnapshotAsOf(ctx context.Context, asOf time.Time) (Snapshot, error)
}
