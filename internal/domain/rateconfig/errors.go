package rateconfig

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrConfigurationMissing  = errors.New("required rate configuration not found for date")
	ErrConfigurationNotFound = errors.New("rate configuration not found")
	ErrInvalidWindow         = errors.New("expiry date must be after effective date")
)

// MissingError reports exactly which type/key had no active row. It matches
// ErrConfigurationMissing under errors.Is so callers can treat any missing
// key as the same fatal condition.
type MissingError struct {
	ConfigType string
	ConfigKey  string
	AsOf       time.Time
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("no active configuration for %s/%s as of %s",
		e.ConfigType, e.ConfigKey, e.AsOf.Format("2006-01-02"))
}

func (e *MissingError) Is(target error) bool {
	return target == ErrConfigurationMissing
}
