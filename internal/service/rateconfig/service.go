package rateconfig

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/rateconfig"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
	"github.com/suweldohq/suweldo-backend-go/internal/repository/postgresql"
)

type ConfigurationServiceImpl struct {
	db         *database.DB
	configRepo rateconfig.ConfigurationRepository
}

func NewConfigurationService(db *database.DB, configRepo rateconfig.ConfigurationRepository) rateconfig.ConfigurationService {
	return &ConfigurationServiceImpl{
		db:         db,
		configRepo: configRepo,
	}
}

func (s *ConfigurationServiceImpl) GetActiveAsOf(ctx context.Context, asOf time.Time) (rateconfig.ActiveConfigurationResponse, error) {
	rows, err := s.configRepo.ListActiveAsOf(ctx, asOf)
	if err != nil {
		return rateconfig.ActiveConfigurationResponse{}, err
	}

	resp := rateconfig.ActiveConfigurationResponse{
		AsOf:   asOf.Format("2006-01-02"),
		Groups: make(map[string]map[string]rateconfig.ConfigurationResponse),
	}
	for _, row := range rows {
		resolved, ok := rateconfig.ResolveAsOf(rowsForKey(rows, row.ConfigType, row.ConfigKey), asOf)
		if !ok {
			continue
		}
		group, ok := resp.Groups[row.ConfigType]
		if !ok {
			group = make(map[string]rateconfig.ConfigurationResponse)
			resp.Groups[row.ConfigType] = group
		}
		group[row.ConfigKey] = toConfigurationResponse(resolved)
	}
	return resp, nil
}

func (s *ConfigurationServiceImpl) Upsert(ctx context.Context, req rateconfig.UpsertConfigurationRequest) (rateconfig.ConfigurationResponse, error) {
	if err := req.Validate(); err != nil {
		return rateconfig.ConfigurationResponse{}, err
	}

	saved, err := s.configRepo.Upsert(ctx, toEntity(req))
	if err != nil {
		return rateconfig.ConfigurationResponse{}, err
	}
	return toConfigurationResponse(saved), nil
}

// BulkUpsert writes a set of rows atomically. Statutory tables arrive as many
// related rows (a new bracket schedule, a contribution change) that must
// never be half-applied.
func (s *ConfigurationServiceImpl) BulkUpsert(ctx context.Context, req rateconfig.BulkUpsertConfigurationRequest) ([]rateconfig.ConfigurationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	responses := make([]rateconfig.ConfigurationResponse, 0, len(req.Items))
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		for _, item := range req.Items {
			saved, err := s.configRepo.Upsert(txCtx, toEntity(item))
			if err != nil {
				return err
			}
			responses = append(responses, toConfigurationResponse(saved))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *ConfigurationServiceImpl) SnapshotAsOf(ctx context.Context, asOf time.Time) (rateconfig.Snapshot, error) {
	rows, err := s.configRepo.ListActiveAsOf(ctx, asOf)
	if err != nil {
		return rateconfig.Snapshot{}, err
	}
	return rateconfig.BuildSnapshot(rows, asOf), nil
}

func rowsForKey(rows []rateconfig.RateConfiguration, configType, configKey string) []rateconfig.RateConfiguration {
	var matched []rateconfig.RateConfiguration
	for _, row := range rows {
		if row.ConfigType == configType && row.ConfigKey == configKey {
			matched = append(matched, row)
		}
	}
	return matched
}

func toEntity(req rateconfig.UpsertConfigurationRequest) rateconfig.RateConfiguration {
	effective, _ := time.Parse("2006-01-02", req.EffectiveDate)
	cfg := rateconfig.RateConfiguration{
		ID:            uuid.New().String(),
		ConfigType:    req.ConfigType,
		ConfigKey:     req.ConfigKey,
		Value:         req.Value,
		EffectiveDate: effective,
		Description:   req.Description,
	}
	if req.ExpiryDate != nil {
		expiry, _ := time.Parse("2006-01-02", *req.ExpiryDate)
		cfg.ExpiryDate = &expiry
	}
	return cfg
}

func toConfigurationResponse(cfg rateconfig.RateConfiguration) rateconfig.ConfigurationResponse {
	resp := rateconfig.ConfigurationResponse{
		ID:            cfg.ID,
		ConfigType:    cfg.ConfigType,
		ConfigKey:     cfg.ConfigKey,
		Value:         cfg.Value,
		EffectiveDate: cfg.EffectiveDate.Format("2006-01-02"),
		Description:   cfg.Description,
	}
	if cfg.ExpiryDate != nil {
		expiry := cfg.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &expiry
	}
	return resp
}
