package rateconfig

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/validator"
)

type UpsertConfigurationRequest struct {
	ConfigType    string          `json:"config_type"`
	ConfigKey     string          `json:"config_key"`
	Value         decimal.Decimal `json:"value"`
	EffectiveDate string          `json:"effective_date"`
	ExpiryDate    *string         `json:"expiry_date,omitempty"`
	Description   *string         `json:"description,omitempty"`
}

func (r *UpsertConfigurationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ConfigType) {
		errs = append(errs, validator.ValidationError{
			Field:   "config_type",
			Message: "config_type is required",
		})
	}

	if validator.IsEmpty(r.ConfigKey) {
		errs = append(errs, validator.ValidationError{
			Field:   "config_key",
			Message: "config_key is required",
		})
	}

	effective, ok := validator.IsValidDate(r.EffectiveDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "effective_date",
			Message: "effective_date must be in YYYY-MM-DD format",
		})
	}

	if r.ExpiryDate != nil {
		expiry, ok := validator.IsValidDate(*r.ExpiryDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "expiry_date",
				Message: "expiry_date must be in YYYY-MM-DD format",
			})
		} else if !expiry.After(effective) {
			errs = append(errs, validator.ValidationError{
				Field:   "expiry_date",
				Message: "expiry_date must be after effective_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BulkUpsertConfigurationRequest struct {
	Items []UpsertConfigurationRequest `json:"items"`
}

func (r *BulkUpsertConfigurationRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: "at least one configuration item is required",
		})
	}

	for i, item := range r.Items {
		if err := item.Validate(); err != nil {
			var itemErrs validator.ValidationErrors
			if errors.As(err, &itemErrs) {
				for _, e := range itemErrs {
					errs = append(errs, validator.ValidationError{
						Field:   fmt.Sprintf("items[%d].%s", i, e.Field),
						Message: e.Message,
					})
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ConfigurationResponse struct {
	ID            string          `json:"id"`
	ConfigType    string          `json:"config_type"`
	ConfigKey     string          `json:"config_key"`
	Value         decimal.Decimal `json:"value"`
	EffectiveDate string          `json:"effective_date"`
	ExpiryDate    *string         `json:"expiry_date,omitempty"`
	Description   *string         `json:"description,omitempty"`
}

// ActiveConfigurationResponse groups the configuration in force on a date
// by type then key.
type ActiveConfigurationResponse struct {
	AsOf   string                                      `json:"as_of"`
	Groups map[string]map[string]ConfigurationResponse `json:"groups"`
}
