package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/rateconfig"
	"github.com/suweldohq/suweldo-backend-go/internal/handler/http/response"
)

type RateConfigHandler interface {
	GetActive(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	BulkUpsert(w http.ResponseWriter, r *http.Request)
}

type RateConfigHandlerImpl struct {
	configService rateconfig.ConfigurationService
}

func NewRateConfigHandler(configService rateconfig.ConfigurationService) RateConfigHandler {
	return &RateConfigHandlerImpl{configService: configService}
}

// GetActive implements RateConfigHandler. The as_of query parameter defaults
// to today.
func (h *RateConfigHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "as_of must be in YYYY-MM-DD format", nil)
			return
		}
		asOf = parsed
	}

	active, err := h.configService.GetActiveAsOf(r.Context(), asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, active)
}

// Upsert implements RateConfigHandler.
func (h *RateConfigHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req rateconfig.UpsertConfigurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Upsert configuration decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	saved, err := h.configService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Configuration saved", saved)
}

// BulkUpsert implements RateConfigHandler.
func (h *RateConfigHandlerImpl) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	var req rateconfig.BulkUpsertConfigurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("BulkUpsert configuration decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	saved, err := h.configService.BulkUpsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Configurations saved", saved)
}
