package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/rateconfig"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
)

type configurationRepository struct {
	db *database.DB
}

func NewConfigurationRepository(db *database.DB) rateconfig.ConfigurationRepository {
	return &configurationRepository{db: db}
}

const configurationColumns = `
	id, config_type, config_key, value, effective_date, expiry_date,
	description, created_at, updated_at
`

func scanConfiguration(row pgx.Row) (rateconfig.RateConfiguration, error) {
	var cfg rateconfig.RateConfiguration
	err := row.Scan(
		&cfg.ID, &cfg.ConfigType, &cfg.ConfigKey, &cfg.Value,
		&cfg.EffectiveDate, &cfg.ExpiryDate, &cfg.Description,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	return cfg, err
}

func (r *configurationRepository) ListAll(ctx context.Context) ([]rateconfig.RateConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configurationColumns + `
		FROM rate_configurations
		ORDER BY config_type, config_key, effective_date
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate configurations: %w", err)
	}
	defer rows.Close()

	return collectConfigurations(rows)
}

func (r *configurationRepository) ListActiveAsOf(ctx context.Context, asOf time.Time) ([]rateconfig.RateConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configurationColumns + `
		FROM rate_configurations
		WHERE effective_date <= $1
		  AND (expiry_date IS NULL OR expiry_date > $1)
		ORDER BY config_type, config_key, effective_date
	`

	rows, err := q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rate configurations: %w", err)
	}
	defer rows.Close()

	return collectConfigurations(rows)
}

func (r *configurationRepository) Upsert(ctx context.Context, cfg rateconfig.RateConfiguration) (rateconfig.RateConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rate_configurations (
			id, config_type, config_key, value, effective_date, expiry_date, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (config_type, config_key, effective_date) DO UPDATE SET
			value = EXCLUDED.value,
			expiry_date = EXCLUDED.expiry_date,
			description = EXCLUDED.description,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		cfg.ID, cfg.ConfigType, cfg.ConfigKey, cfg.Value,
		cfg.EffectiveDate, cfg.ExpiryDate, cfg.Description,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return rateconfig.RateConfiguration{}, fmt.Errorf("failed to upsert rate configuration: %w", err)
	}
	return cfg, nil
}

func collectConfigurations(rows pgx.Rows) ([]rateconfig.RateConfiguration, error) {
	var configs []rateconfig.RateConfiguration
	for rows.Next() {
		cfg, err := scanConfiguration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate configuration: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}
