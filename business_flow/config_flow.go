package businessflow

import (
	"context"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/repository"
)

// GlobalConfigFlow exposes read-only access to global configuration entries
type GlobalConfigFlow interface {
	GetEntry(ctx context.Context, key string) (*dto.ConfigEntryDTO, error)
	ListEntries(ctx context.Context) (*dto.ListConfigEntriesResponse, error)
}

// GlobalConfigFlowImpl implements GlobalConfigFlow
type GlobalConfigFlowImpl struct {
	configRepo repository.GlobalConfigRepository
}

func NewGlobalConfigFlow(configRepo repository.GlobalConfigRepository) GlobalConfigFlow {
	return &GlobalConfigFlowImpl{configRepo: configRepo}
}

// GetEntry resolves one active config entry by key with its decoded value
func (f *GlobalConfigFlowImpl) GetEntry(ctx context.Context, key string) (*dto.ConfigEntryDTO, error) {
	entry, err := f.configRepo.ByKey(ctx, key)
	if err != nil {
		return nil, NewBusinessError("CONFIG_LOOKUP_FAILED", "Failed to load config entry", err)
	}
	if entry == nil {
		return nil, NewBusinessError("CONFIG_NOT_FOUND", "Config entry not found", nil)
	}
	out := toConfigEntryDTO(entry)
	return &out, nil
}

// ListEntries returns all active config entries ordered by key
func (f *GlobalConfigFlowImpl) ListEntries(ctx context.Context) (*dto.ListConfigEntriesResponse, error) {
	active := true
	rows, err := f.configRepo.ByFilter(ctx, models.GlobalConfigFilter{Active: &active}, "key ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("CONFIG_LIST_FAILED", "Failed to list config entries", err)
	}

	out := &dto.ListConfigEntriesResponse{Items: make([]dto.ConfigEntryDTO, 0, len(rows))}
	for _, row := range rows {
		out.Items = append(out.Items, toConfigEntryDTO(row))
	}
	out.Total = len(out.Items)
	return out, nil
}

func toConfigEntryDTO(entry *models.GlobalConfigEntry) dto.ConfigEntryDTO {
	return dto.ConfigEntryDTO{
		Key:         entry.Key,
		RawValue:    entry.RawValue,
		ValueKind:   string(entry.ValueKind),
		Value:       entry.TypedValue(),
		Description: entry.Description,
	}
}
