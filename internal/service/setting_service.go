package service

import (
	"context"

	"github.com/opencampus/worklog-backend/internal/repository"
	"github.com/rs/zerolog"
)

// SettingService exposes the key/value settings that parameterize the
// external attendance verifier (hash speed, leeway, timeout, threshold).
type SettingService struct {
	settingRepo *repository.SettingRepository
	log         zerolog.Logger
}

// NewSettingService creates a new SettingService.
func NewSettingService(settingRepo *repository.SettingRepository, log zerolog.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		log:         log.With().Str("component", "setting_service").Logger(),
	}
}

// GetAllSettings returns every setting as a key/value map.
func (s *SettingService) GetAllSettings(ctx context.Context) (map[string]string, error) {
	settingsList, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}

	settingsMap := make(map[string]string)
	for _, setting := range settingsList {
		settingsMap[setting.Key] = setting.Value
	}
	return settingsMap, nil
}

// UpdateSettings upserts the given settings. Settings are low volume, so an
// iterative upsert is sufficient.
func (s *SettingService) UpdateSettings(ctx context.Context, settingsMap map[string]string) error {
	for key, value := range settingsMap {
		if err := s.settingRepo.Upsert(ctx, key, value); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("failed to update setting")
			return err
		}
	}
	return nil
}

// GetSettingByKey returns a single setting value.
func (s *SettingService) GetSettingByKey(ctx context.Context, key string) (string, error) {
	setting, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}
