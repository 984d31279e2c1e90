package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
	"github.com/shashiranjanraj/galeria/pkg/cache"
	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/validate"
)

// SettingsService reads and writes the typed site-wide documents. Reads go
// through the Redis cache when one is connected.
type SettingsService struct {
	settings repositories.SettingsRepository
	ttl      time.Duration
	now      Clock
}

func NewSettingsService(settings repositories.SettingsRepository, ttl time.Duration, now Clock) *SettingsService {
	return &SettingsService{settings: settings, ttl: ttl, now: orClock(now)}
}

// newSettings returns a pointer to the zero document for key.
func newSettings(key string) (any, error) {
	switch key {
	case models.SettingsHome:
		return &models.HomeSettings{}, nil
	case models.SettingsMusic:
		return &models.MusicSettings{Volume: 50}, nil
	case models.SettingsGeneral:
		return &models.GeneralSettings{SiteName: "Galería"}, nil
	}
	return nil, ErrUnknownSettings
}

func cacheKey(key string) string { return "settings:" + key }

// Get returns the typed document for key, or its defaults when nothing was
// saved yet.
func (s *SettingsService) Get(ctx context.Context, key string) (any, error) {
	doc, err := newSettings(key)
	if err != nil {
		return nil, err
	}

	raw, err := cache.Remember(ctx, cacheKey(key), s.ttl, func(ctx context.Context) (string, error) {
		st, err := s.settings.Get(ctx, key)
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return st.Data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load settings %s: %w", key, err)
	}

	if raw != "" {
		if err := json.Unmarshal([]byte(raw), doc); err != nil {
			return nil, fmt.Errorf("decode settings %s: %w", key, err)
		}
	}
	return doc, nil
}

// Put replaces the document for key with body after validating it.
func (s *SettingsService) Put(ctx context.Context, key string, body []byte) (any, error) {
	doc, err := newSettings(key)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSettings, err)
	}
	if errs := validate.Struct(doc); validate.HasErrors(errs) {
		return nil, ValidationError(errs)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := s.settings.Put(ctx, &models.Setting{Key: key, Data: string(data), UpdatedAt: s.now()}); err != nil {
		return nil, fmt.Errorf("save settings %s: %w", key, err)
	}
	if err := cache.Forget(ctx, cacheKey(key)); err != nil {
		logger.WithCtx(ctx).Warn("settings cache not invalidated, stale reads until ttl",
			"key", key, "ttl", s.ttl, "error", err)
	}
	return doc, nil
}
