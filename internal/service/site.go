package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/octobees/servicefinder/internal/cache"
	"github.com/octobees/servicefinder/internal/entity"
	"github.com/octobees/servicefinder/internal/repository"
)

// DefaultTheme is the branding used when neither the site config file nor the
// live settings row provide a value.
var DefaultTheme = entity.Theme{
	SiteName:       "ServiceFinder Brazil",
	PrimaryColor:   "#0F4C81",
	SecondaryColor: "#F59E0B",
}

// SiteService resolves content-managed site settings.
type SiteService struct {
	repo  repository.SiteRepository
	cache cache.Cache
	ttl   time.Duration
	base  entity.Theme
}

// NewSiteService builds a SiteService. base is the theme before database
// overrides are applied, usually DefaultTheme merged with the site config file.
func NewSiteService(repo repository.SiteRepository, c cache.Cache, ttl time.Duration, base entity.Theme) *SiteService {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &SiteService{repo: repo, cache: c, ttl: ttl, base: base}
}

// BasicInfo returns the live settings row. repository.ErrNotFound is returned
// when no row is live.
func (s *SiteService) BasicInfo(ctx context.Context) (*entity.BasicInfo, error) {
	key := cache.Key(cache.KeyPrefixBasicInfo)
	var cached entity.BasicInfo
	if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("cache_error key=%s err=%v", key, err)
	}

	info, err := s.repo.GetLiveBasicInfo(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.cache, key, info, s.ttl); err != nil {
		log.Printf("cache_error key=%s err=%v", key, err)
	}
	return info, nil
}

// Theme layers the live settings colours and name over the base theme. A
// missing or unreadable settings row leaves the base theme untouched.
func (s *SiteService) Theme(ctx context.Context) entity.Theme {
	theme := s.base
	info, err := s.BasicInfo(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("theme_fallback err=%v", err)
		}
		return theme
	}
	if v := strings.TrimSpace(info.SiteName); v != "" {
		theme.SiteName = v
	}
	if v := strings.TrimSpace(info.PrimaryColor); v != "" {
		theme.PrimaryColor = v
	}
	if v := strings.TrimSpace(info.SecondaryColor); v != "" {
		theme.SecondaryColor = v
	}
	return theme
}
